package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/LocoMediaDK/MidjourneyMaster/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
)

type Store interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (pgrepo.ProfileRecord, error)
	FindByEmail(ctx context.Context, email string) (pgrepo.ProfileRecord, error)
}

// Snapshot is the read model of one user's entitlement.
type Snapshot struct {
	UserID  uuid.UUID
	Email   string
	HasPaid bool
	PaidAt  *time.Time
}

// Service is the read policy over the entitlement store. All mutation goes
// through the payment reconciler; nothing user-facing writes here.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// HasPaid reports whether the user completed the course purchase. A missing
// profile row is simply "not paid", not an error.
func (s *Service) HasPaid(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("entitlement store is nil")
	}

	rec, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.HasPaid, nil
}

// Get returns the full snapshot for a user id.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, ErrValidation
	}
	if s.store == nil {
		return Snapshot{}, fmt.Errorf("entitlement store is nil")
	}

	rec, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Snapshot{}, ErrProfileNotFound
		}
		return Snapshot{}, err
	}

	return Snapshot{
		UserID:  rec.ID,
		Email:   rec.Email,
		HasPaid: rec.HasPaid,
		PaidAt:  rec.PaidAt,
	}, nil
}
