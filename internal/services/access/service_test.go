package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
)

type entitlementStub struct {
	paid  map[uuid.UUID]bool
	err   error
	calls int
}

func (s *entitlementStub) HasPaid(_ context.Context, userID uuid.UUID) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.paid[userID], nil
}

func identityFor(userID uuid.UUID) *authsvc.Identity {
	return &authsvc.Identity{UserID: userID, Email: "kunde@example.dk"}
}

func TestAnonymousProtectedRedirectsToLogin(t *testing.T) {
	svc := NewService(&entitlementStub{}, nil)

	if got := svc.Evaluate(context.Background(), nil, RouteProtected); got != RedirectLogin {
		t.Fatalf("unexpected decision: %s", got)
	}
}

func TestAuthenticatedUnpaidProtectedRedirectsHome(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&entitlementStub{paid: map[uuid.UUID]bool{}}, nil)

	if got := svc.Evaluate(context.Background(), identityFor(userID), RouteProtected); got != RedirectHome {
		t.Fatalf("unpaid user must be sent home, got %s", got)
	}
}

func TestAuthenticatedPaidProtectedAllows(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&entitlementStub{paid: map[uuid.UUID]bool{userID: true}}, nil)

	if got := svc.Evaluate(context.Background(), identityFor(userID), RouteProtected); got != Allow {
		t.Fatalf("paid user must be allowed, got %s", got)
	}
}

func TestPaidUserOnLoginPageRedirectsToCourse(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&entitlementStub{paid: map[uuid.UUID]bool{userID: true}}, nil)

	if got := svc.Evaluate(context.Background(), identityFor(userID), RouteLogin); got != RedirectCourse {
		t.Fatalf("paid user on login page must be bounced to course, got %s", got)
	}
}

func TestUnpaidOrAnonymousLoginPageAllows(t *testing.T) {
	svc := NewService(&entitlementStub{paid: map[uuid.UUID]bool{}}, nil)

	if got := svc.Evaluate(context.Background(), nil, RouteLogin); got != Allow {
		t.Fatalf("anonymous must see login page, got %s", got)
	}
	if got := svc.Evaluate(context.Background(), identityFor(uuid.New()), RouteLogin); got != Allow {
		t.Fatalf("unpaid user must see login page, got %s", got)
	}
}

func TestEntitlementFailureDegradesToDeny(t *testing.T) {
	stub := &entitlementStub{err: errors.New("store unreachable")}
	svc := NewService(stub, nil)

	if got := svc.Evaluate(context.Background(), identityFor(uuid.New()), RouteProtected); got != RedirectHome {
		t.Fatalf("lookup failure must deny content, got %s", got)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one lookup, got %d", stub.calls)
	}
}

func TestPublicRouteAlwaysAllows(t *testing.T) {
	svc := NewService(&entitlementStub{err: errors.New("store unreachable")}, nil)

	if got := svc.Evaluate(context.Background(), nil, RoutePublic); got != Allow {
		t.Fatalf("public route must allow, got %s", got)
	}
}
