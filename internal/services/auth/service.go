package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// SessionProvider is the slice of the identity provider API the auth
// service needs for session lifecycle calls.
type SessionProvider interface {
	RefreshGrant(ctx context.Context, refreshToken string) (identity.Session, error)
	ExchangeCode(ctx context.Context, code string) (identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Identity is the authenticated principal carried through a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service validates provider-issued access tokens locally and rotates
// expired sessions through the provider's refresh grant.
type Service struct {
	provider SessionProvider
	secret   []byte
	now      func() time.Time
}

func NewService(provider SessionProvider, jwtSecret string) *Service {
	return &Service{
		provider: provider,
		secret:   []byte(jwtSecret),
		now:      time.Now,
	}
}

// ParseAccessToken verifies the provider-signed access token and extracts
// the identity. Expired or otherwise invalid tokens yield ErrUnauthorized.
func (s *Service) ParseAccessToken(raw string) (Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return Identity{}, ErrUnauthorized
	}
	if len(s.secret) == 0 {
		return Identity{}, fmt.Errorf("jwt secret is empty")
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(func() time.Time {
		return s.now()
	}))
	if err != nil || token == nil || !token.Valid {
		return Identity{}, ErrUnauthorized
	}

	userID, parseErr := uuid.Parse(claims.Subject)
	if parseErr != nil || userID == uuid.Nil {
		return Identity{}, ErrUnauthorized
	}

	return Identity{
		UserID: userID,
		Email:  strings.ToLower(strings.TrimSpace(claims.Email)),
	}, nil
}

// Refresh rotates an expired session through the provider. The caller is
// responsible for persisting the returned cookies; the refreshed identity
// feeds the same access decision as a directly valid token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (identity.Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return identity.Session{}, ErrUnauthorized
	}
	if s.provider == nil {
		return identity.Session{}, fmt.Errorf("session provider is nil")
	}

	session, err := s.provider.RefreshGrant(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidGrant) {
			return identity.Session{}, ErrUnauthorized
		}
		return identity.Session{}, fmt.Errorf("refresh session: %w", err)
	}
	return session, nil
}

// ExchangeCode trades a login-link authorization code for a session.
func (s *Service) ExchangeCode(ctx context.Context, code string) (identity.Session, error) {
	if strings.TrimSpace(code) == "" {
		return identity.Session{}, ErrInvalidInput
	}
	if s.provider == nil {
		return identity.Session{}, fmt.Errorf("session provider is nil")
	}

	session, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidGrant) {
			return identity.Session{}, ErrUnauthorized
		}
		return identity.Session{}, fmt.Errorf("exchange code: %w", err)
	}
	return session, nil
}

// SignOut revokes the provider session. A missing token is a no-op.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	if s.provider == nil {
		return fmt.Errorf("session provider is nil")
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
