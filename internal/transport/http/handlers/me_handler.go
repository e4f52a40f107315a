package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	entsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/entitlements"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/dto"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
)

type MeHandler struct {
	entitlements *entsvc.Service
}

func NewMeHandler(entitlements *entsvc.Service) *MeHandler {
	return &MeHandler{entitlements: entitlements}
}

// Entitlement reports the signed-in user's purchase state. A user with no
// profile row yet reads as unpaid rather than missing.
func (h *MeHandler) Entitlement(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	resp := dto.EntitlementResponse{
		UserID: identity.UserID.String(),
		Email:  identity.Email,
	}

	snapshot, err := h.entitlements.Get(r.Context(), identity.UserID)
	switch {
	case err == nil:
		resp.HasPaid = snapshot.HasPaid
		if snapshot.PaidAt != nil {
			resp.PaidAt = snapshot.PaidAt.UTC().Format(time.RFC3339)
		}
	case errors.Is(err, entsvc.ErrProfileNotFound):
		// no profile yet, leave has_paid=false
	default:
		writeInternal(w, "INTERNAL_ERROR", "could not read entitlement")
		return
	}

	httperrors.Write(w, http.StatusOK, resp)
}
