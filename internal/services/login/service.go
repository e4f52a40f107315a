// Package login owns the pre-login eligibility check and both sign-in
// flows. The invariant across all of them: a login path is only opened for
// accounts whose purchase is already recorded.
package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/pkg/validate"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotEntitled        = errors.New("user has no course access")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Provider is the identity surface the login flows use. SignOut is part of
// it so an unpaid password grant can be revoked before the caller sees it.
type Provider interface {
	LookupUserByEmail(ctx context.Context, email string) (identity.User, error)
	PasswordGrant(ctx context.Context, email, password string) (identity.Session, error)
	SendMagicLink(ctx context.Context, email, redirectTo string) error
	SignOut(ctx context.Context, accessToken string) error
}

type Entitlements interface {
	HasPaid(ctx context.Context, userID uuid.UUID) (bool, error)
}

type AttemptLimiter interface {
	AllowLogin(ctx context.Context, email string) (int64, bool, error)
}

type Dependencies struct {
	Provider     Provider
	Entitlements Entitlements
	Limiter      AttemptLimiter
	Logger       *zap.Logger
}

type Service struct {
	provider     Provider
	entitlements Entitlements
	limiter      AttemptLimiter
	log          *zap.Logger
}

type Eligibility struct {
	CanLogin bool
	UserID   uuid.UUID
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		provider:     deps.Provider,
		entitlements: deps.Entitlements,
		limiter:      deps.Limiter,
		log:          log,
	}
}

// CheckEligibility resolves an email to an account and reports whether it
// is allowed to sign in. Unknown emails surface as ErrUserNotFound and
// unpaid accounts as ErrNotEntitled so the handler can distinguish the two.
func (s *Service) CheckEligibility(ctx context.Context, email string) (Eligibility, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return Eligibility{}, err
	}

	user, err := s.provider.LookupUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return Eligibility{}, ErrUserNotFound
		}
		return Eligibility{}, fmt.Errorf("lookup user: %w", err)
	}

	paid, err := s.entitlements.HasPaid(ctx, user.ID)
	if err != nil {
		return Eligibility{}, fmt.Errorf("check entitlement: %w", err)
	}
	if !paid {
		return Eligibility{UserID: user.ID}, ErrNotEntitled
	}

	return Eligibility{CanLogin: true, UserID: user.ID}, nil
}

// SendLoginLink emails a one-time sign-in link. Eligibility runs first: no
// link is ever issued for an unknown or unpaid email.
func (s *Service) SendLoginLink(ctx context.Context, email, redirectTo string) error {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}

	if err := s.checkLimit(ctx, email); err != nil {
		return err
	}

	if _, err := s.CheckEligibility(ctx, email); err != nil {
		return err
	}

	if err := s.provider.SendMagicLink(ctx, email, redirectTo); err != nil {
		return fmt.Errorf("send login link: %w", err)
	}

	s.log.Info("login link sent", zap.String("email", email))
	return nil
}

// PasswordLogin exchanges credentials for a session, then re-checks the
// entitlement on the authenticated user id. An unpaid account gets its
// fresh session revoked and the caller sees ErrNotEntitled. An entitlement
// read failure is treated the same way: no session survives without a
// confirmed purchase.
func (s *Service) PasswordLogin(ctx context.Context, email, password string) (identity.Session, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return identity.Session{}, err
	}
	if password == "" {
		return identity.Session{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	if err := s.checkLimit(ctx, email); err != nil {
		return identity.Session{}, err
	}

	session, err := s.provider.PasswordGrant(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return identity.Session{}, ErrInvalidCredentials
		}
		return identity.Session{}, fmt.Errorf("password grant: %w", err)
	}

	paid, err := s.entitlements.HasPaid(ctx, session.User.ID)
	if err != nil {
		s.revoke(ctx, session)
		return identity.Session{}, fmt.Errorf("check entitlement: %w", err)
	}
	if !paid {
		s.revoke(ctx, session)
		return identity.Session{}, ErrNotEntitled
	}

	s.log.Info("password login", zap.String("user_id", session.User.ID.String()))
	return session, nil
}

func (s *Service) revoke(ctx context.Context, session identity.Session) {
	if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
		s.log.Warn("revoke ineligible session", zap.Error(err))
	}
}

func (s *Service) checkLimit(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}

	retryAfter, allowed, err := s.limiter.AllowLogin(ctx, email)
	if err != nil {
		// A limiter outage must not lock customers out.
		s.log.Warn("login rate limiter unavailable", zap.Error(err))
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: retry in %ds", ErrRateLimited, retryAfter)
	}
	return nil
}

func (s *Service) normalizeEmail(email string) (string, error) {
	email = validate.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !validate.Email(email) {
		return "", fmt.Errorf("%w: malformed email", ErrValidation)
	}
	return email, nil
}
