package handlers

import (
	"errors"
	"net/http"

	checkoutsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/checkout"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/dto"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
)

type CheckoutMetrics interface {
	RecordCheckout(outcome string)
}

type CheckoutHandler struct {
	service *checkoutsvc.Service
	metrics CheckoutMetrics
}

func NewCheckoutHandler(service *checkoutsvc.Service, metrics CheckoutMetrics) *CheckoutHandler {
	return &CheckoutHandler{service: service, metrics: metrics}
}

// Create starts a hosted checkout session and returns the payment URL the
// sales page redirects the buyer to.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CHECKOUT_SERVICE_UNAVAILABLE", "checkout is unavailable")
		return
	}

	url, err := h.service.Create(r.Context(), r.Header.Get("Origin"))
	if err != nil {
		h.record("error")
		if errors.Is(err, checkoutsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request origin")
			return
		}
		writeInternal(w, "CHECKOUT_FAILED", "could not start checkout")
		return
	}

	h.record("created")
	httperrors.Write(w, http.StatusOK, dto.CheckoutResponse{URL: url})
}

func (h *CheckoutHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordCheckout(outcome)
	}
}
