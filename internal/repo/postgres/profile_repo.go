package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

// ProfileRecord is one entitlement row, keyed by the identity provider's
// user id. HasPaid=true implies PaidAt and StripeCustomerID are set.
type ProfileRecord struct {
	ID               uuid.UUID
	Email            string
	StripeCustomerID *string
	HasPaid          bool
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (ProfileRecord, error) {
	if userID == uuid.Nil {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, stripe_customer_id, has_paid, paid_at, created_at, updated_at
FROM profiles
WHERE id = $1
LIMIT 1
`, userID).Scan(
		&rec.ID,
		&rec.Email,
		&rec.StripeCustomerID,
		&rec.HasPaid,
		&rec.PaidAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("find profile by user id: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (ProfileRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ProfileRecord{}, fmt.Errorf("email is empty")
	}
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, stripe_customer_id, has_paid, paid_at, created_at, updated_at
FROM profiles
WHERE LOWER(email) = $1
LIMIT 1
`, email).Scan(
		&rec.ID,
		&rec.Email,
		&rec.StripeCustomerID,
		&rec.HasPaid,
		&rec.PaidAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("find profile by email: %w", err)
	}

	return rec, nil
}

// UpsertPaid converges the row for userID to the paid state. Keyed on the
// user id, so replaying the same payment event is a no-op rewrite of the
// same target state.
func (r *ProfileRepo) UpsertPaid(ctx context.Context, userID uuid.UUID, email, stripeCustomerID string, paidAt time.Time) (ProfileRecord, error) {
	if userID == uuid.Nil {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles (id, email, stripe_customer_id, has_paid, paid_at, created_at, updated_at)
VALUES ($1, $2, $3, TRUE, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
	email = EXCLUDED.email,
	stripe_customer_id = EXCLUDED.stripe_customer_id,
	has_paid = TRUE,
	paid_at = EXCLUDED.paid_at,
	updated_at = now()
RETURNING id, email, stripe_customer_id, has_paid, paid_at, created_at, updated_at
`, userID, strings.TrimSpace(email), strings.TrimSpace(stripeCustomerID), paidAt.UTC()).Scan(
		&rec.ID,
		&rec.Email,
		&rec.StripeCustomerID,
		&rec.HasPaid,
		&rec.PaidAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("upsert paid profile: %w", err)
	}

	return rec, nil
}
