package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
)

type stubCreator struct {
	params  stripe.CheckoutParams
	session stripe.CheckoutSession
	err     error
}

func (s *stubCreator) CreateCheckoutSession(_ context.Context, params stripe.CheckoutParams) (stripe.CheckoutSession, error) {
	s.params = params
	if s.err != nil {
		return stripe.CheckoutSession{}, s.err
	}
	return s.session, nil
}

func TestCreateBuildsReturnURLsFromOrigin(t *testing.T) {
	creator := &stubCreator{session: stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/pay/cs_1"}}
	service := NewService(Dependencies{
		Payments:      creator,
		PriceID:       "price_123",
		DefaultOrigin: "http://localhost:3000",
	})

	url, err := service.Create(context.Background(), "https://midjourneymaster.dk/")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if url != "https://checkout.stripe.com/pay/cs_1" {
		t.Fatalf("unexpected payment url %q", url)
	}
	if creator.params.PriceID != "price_123" {
		t.Fatalf("unexpected price id %q", creator.params.PriceID)
	}
	if creator.params.SuccessURL != "https://midjourneymaster.dk/betaling/success?session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("unexpected success url %q", creator.params.SuccessURL)
	}
	if creator.params.CancelURL != "https://midjourneymaster.dk/betaling/cancelled" {
		t.Fatalf("unexpected cancel url %q", creator.params.CancelURL)
	}
	if creator.params.Product != "midjourney-master" {
		t.Fatalf("unexpected product %q", creator.params.Product)
	}
}

func TestCreateFallsBackToDefaultOrigin(t *testing.T) {
	creator := &stubCreator{session: stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/pay/cs_1"}}
	service := NewService(Dependencies{
		Payments:      creator,
		PriceID:       "price_123",
		DefaultOrigin: "http://localhost:3000",
	})

	if _, err := service.Create(context.Background(), ""); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if creator.params.CancelURL != "http://localhost:3000/betaling/cancelled" {
		t.Fatalf("unexpected cancel url %q", creator.params.CancelURL)
	}
}

func TestCreateRejectsMalformedOrigin(t *testing.T) {
	service := NewService(Dependencies{
		Payments: &stubCreator{},
		PriceID:  "price_123",
	})

	if _, err := service.Create(context.Background(), "not a url"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreatePropagatesClientFailure(t *testing.T) {
	creator := &stubCreator{err: errors.New("stripe unavailable")}
	service := NewService(Dependencies{
		Payments:      creator,
		PriceID:       "price_123",
		DefaultOrigin: "http://localhost:3000",
	})

	if _, err := service.Create(context.Background(), ""); err == nil {
		t.Fatal("expected error when session creation fails")
	}
}

func TestCreateRejectsSessionWithoutURL(t *testing.T) {
	creator := &stubCreator{session: stripe.CheckoutSession{ID: "cs_1"}}
	service := NewService(Dependencies{
		Payments:      creator,
		PriceID:       "price_123",
		DefaultOrigin: "http://localhost:3000",
	})

	if _, err := service.Create(context.Background(), ""); err == nil {
		t.Fatal("expected error for session without payment url")
	}
}
