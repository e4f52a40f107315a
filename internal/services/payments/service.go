// Package payments reconciles completed checkout events into entitlement
// records, exactly once per payment under at-least-once webhook delivery.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
	pgrepo "github.com/LocoMediaDK/MidjourneyMaster/internal/repo/postgres"
)

const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

var ErrValidation = errors.New("validation error")

// IdentityAdmin is the provider surface the reconciler needs: find an
// account by email or provision one.
type IdentityAdmin interface {
	LookupUserByEmail(ctx context.Context, email string) (identity.User, error)
	CreateUser(ctx context.Context, email, customerRef string) (identity.User, error)
}

type ProfileStore interface {
	UpsertPaid(ctx context.Context, userID uuid.UUID, email, stripeCustomerID string, paidAt time.Time) (pgrepo.ProfileRecord, error)
}

// ProcessedEventStore remembers handled deliveries. Optional: the upsert is
// idempotent on its own, the store only saves the provider round trip on
// replays.
type ProcessedEventStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string, retention time.Duration) error
}

type Dependencies struct {
	Provider IdentityAdmin
	Profiles ProfileStore
	Events   ProcessedEventStore
}

type Service struct {
	provider IdentityAdmin
	profiles ProfileStore
	events   ProcessedEventStore
	now      func() time.Time
}

type Result struct {
	Outcome     string
	UserID      uuid.UUID
	Email       string
	CreatedUser bool
}

func NewService(deps Dependencies) *Service {
	return &Service{
		provider: deps.Provider,
		profiles: deps.Profiles,
		events:   deps.Events,
		now:      time.Now,
	}
}

// HandleEvent consumes one verified webhook event. Non-checkout events are
// acknowledged without action. For a completed checkout the store converges
// to has_paid=true for the customer's identity, creating the identity first
// when the email is unknown. Replays collapse onto the same upsert key, so
// retried deliveries never duplicate identities or entitlement rows.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) (Result, error) {
	if s.provider == nil || s.profiles == nil {
		return Result{}, fmt.Errorf("payments dependencies are not configured")
	}

	if event.Type != stripe.EventCheckoutCompleted {
		return Result{Outcome: OutcomeIgnored}, nil
	}

	session, err := stripe.CheckoutSessionFromEvent(event)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	email := strings.ToLower(strings.TrimSpace(session.CustomerDetails.Email))
	if email == "" {
		return Result{}, fmt.Errorf("%w: checkout session has no customer email", ErrValidation)
	}

	dedupKey := strings.TrimSpace(event.ID)
	if dedupKey == "" {
		dedupKey = strings.TrimSpace(session.ID)
	}
	// The dedup check is best effort: a redis failure falls through to the
	// idempotent upsert rather than failing the delivery.
	if s.events != nil && dedupKey != "" {
		if seen, seenErr := s.events.Seen(ctx, dedupKey); seenErr == nil && seen {
			return Result{Outcome: OutcomeDuplicate, Email: email}, nil
		}
	}

	user, err := s.provider.LookupUserByEmail(ctx, email)
	createdUser := false
	if err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			return Result{}, fmt.Errorf("lookup identity for %s: %w", email, err)
		}

		user, err = s.provider.CreateUser(ctx, email, session.Customer)
		if err != nil {
			return Result{}, fmt.Errorf("create identity for %s: %w", email, err)
		}
		createdUser = true
	}
	if user.ID == uuid.Nil {
		return Result{}, fmt.Errorf("identity provider returned empty user id for %s", email)
	}

	if _, err := s.profiles.UpsertPaid(ctx, user.ID, email, session.Customer, s.now().UTC()); err != nil {
		return Result{}, fmt.Errorf("upsert entitlement for %s: %w", email, err)
	}

	if s.events != nil && dedupKey != "" {
		_ = s.events.MarkProcessed(ctx, dedupKey, 0)
	}

	return Result{
		Outcome:     OutcomeProcessed,
		UserID:      user.ID,
		Email:       email,
		CreatedUser: createdUser,
	}, nil
}
