package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
	paymentssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/payments"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/dto"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
)

// Webhook bodies are small JSON events; the cap guards against junk.
const maxWebhookBody = 1 << 20

type WebhookMetrics interface {
	RecordWebhookEvent(eventType, outcome string)
}

type WebhookHandler struct {
	verifier *stripe.WebhookVerifier
	service  *paymentssvc.Service
	metrics  WebhookMetrics
	log      *zap.Logger
}

func NewWebhookHandler(verifier *stripe.WebhookVerifier, service *paymentssvc.Service, metrics WebhookMetrics, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{verifier: verifier, service: service, metrics: metrics, log: log}
}

// Handle receives payment events. The signature is checked against the raw
// body before anything is parsed; 5xx responses make the sender redeliver,
// so only reconciliation failures return one.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil || h.service == nil {
		writeInternal(w, "WEBHOOK_UNAVAILABLE", "webhook processing is unavailable")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "could not read request body")
		return
	}

	event, err := h.verifier.VerifyAndParse(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.record("unknown", "rejected")
		if errors.Is(err, stripe.ErrInvalidSignature) {
			h.log.Warn("webhook signature verification failed",
				zap.String("remote_addr", r.RemoteAddr),
				zap.Bool("signature_header_present", r.Header.Get("Stripe-Signature") != ""),
			)
			writeBadRequest(w, "INVALID_SIGNATURE", "webhook signature verification failed")
			return
		}
		writeBadRequest(w, "INVALID_REQUEST", "malformed webhook payload")
		return
	}

	result, err := h.service.HandleEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, paymentssvc.ErrValidation) {
			h.record(event.Type, "rejected")
			h.log.Warn("webhook event rejected", zap.String("event_id", event.ID), zap.Error(err))
			writeBadRequest(w, "VALIDATION_ERROR", "webhook payload validation failed")
			return
		}
		h.record(event.Type, "error")
		h.log.Error("webhook reconciliation failed", zap.String("event_id", event.ID), zap.Error(err))
		writeInternal(w, "RECONCILE_FAILED", "event processing failed")
		return
	}

	h.record(event.Type, result.Outcome)
	if result.Outcome == paymentssvc.OutcomeProcessed {
		h.log.Info("payment reconciled",
			zap.String("event_id", event.ID),
			zap.String("user_id", result.UserID.String()),
			zap.Bool("created_user", result.CreatedUser),
		)
	}

	httperrors.Write(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

func (h *WebhookHandler) record(eventType, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordWebhookEvent(eventType, outcome)
	}
}
