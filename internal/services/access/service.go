// Package access implements the per-request gate between payment status,
// authentication identity, and the protected course area.
package access

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
)

// Route classifies the requested path for gate evaluation.
type Route int

const (
	RoutePublic Route = iota
	RouteProtected
	RouteLogin
)

// Decision is the gate's verdict. It is always concrete; evaluation never
// fails upward.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
	RedirectCourse
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case RedirectCourse:
		return "redirect_course"
	default:
		return "unknown"
	}
}

// EntitlementSource answers whether a user id has paid.
type EntitlementSource interface {
	HasPaid(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Service struct {
	entitlements EntitlementSource
	log          *zap.Logger
}

func NewService(entitlements EntitlementSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		entitlements: entitlements,
		log:          log,
	}
}

// Evaluate resolves the access decision for one request. The three states
// are anonymous, authenticated-unpaid, and authenticated-paid; an
// entitlement lookup failure degrades to unpaid so the gate denies content
// instead of failing open or crashing the request.
func (s *Service) Evaluate(ctx context.Context, ident *authsvc.Identity, route Route) Decision {
	switch route {
	case RouteProtected:
		if ident == nil {
			return RedirectLogin
		}
		if !s.hasPaid(ctx, ident.UserID) {
			// Real account, no purchase: home explains the product,
			// the login page would just loop.
			return RedirectHome
		}
		return Allow

	case RouteLogin:
		if ident != nil && s.hasPaid(ctx, ident.UserID) {
			return RedirectCourse
		}
		return Allow

	default:
		return Allow
	}
}

func (s *Service) hasPaid(ctx context.Context, userID uuid.UUID) bool {
	if s.entitlements == nil {
		return false
	}

	paid, err := s.entitlements.HasPaid(ctx, userID)
	if err != nil {
		s.log.Warn("entitlement lookup failed, denying access",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return false
	}
	return paid
}
