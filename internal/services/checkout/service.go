// Package checkout starts hosted payment sessions for the course.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
)

const productName = "midjourney-master"

var ErrValidation = errors.New("validation error")

type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (stripe.CheckoutSession, error)
}

type Dependencies struct {
	Payments      SessionCreator
	PriceID       string
	DefaultOrigin string
	Logger        *zap.Logger
}

type Service struct {
	payments      SessionCreator
	priceID       string
	defaultOrigin string
	log           *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		payments:      deps.Payments,
		priceID:       deps.PriceID,
		defaultOrigin: deps.DefaultOrigin,
		log:           log,
	}
}

// Create opens a hosted checkout session and returns its payment URL.
// Success and cancel URLs are built from the caller's origin so the buyer
// lands back on the site they started from; an absent origin falls back to
// the configured default.
func (s *Service) Create(ctx context.Context, origin string) (string, error) {
	if s.payments == nil {
		return "", fmt.Errorf("checkout payments client is not configured")
	}
	if s.priceID == "" {
		return "", fmt.Errorf("checkout price is not configured")
	}

	origin, err := s.resolveOrigin(origin)
	if err != nil {
		return "", err
	}

	session, err := s.payments.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		PriceID:    s.priceID,
		SuccessURL: origin + "/betaling/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/betaling/cancelled",
		Product:    productName,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout session %s has no payment url", session.ID)
	}

	s.log.Info("checkout session created", zap.String("session_id", session.ID))
	return session.URL, nil
}

func (s *Service) resolveOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = s.defaultOrigin
	}
	origin = strings.TrimRight(origin, "/")

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid origin %q", ErrValidation, origin)
	}

	return origin, nil
}
