package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const EventCheckoutCompleted = "checkout.session.completed"

// ErrInvalidSignature marks a webhook delivery that failed authenticity
// verification. Permanent: callers must reject without retry.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a signed webhook delivery after successful verification.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSessionFromEvent decodes the completed-checkout payload.
func CheckoutSessionFromEvent(event Event) (CheckoutSession, error) {
	var session CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return CheckoutSession{}, fmt.Errorf("decode checkout session payload: %w", err)
	}
	return session, nil
}

// WebhookVerifier checks the processor's signature header. The header
// carries a unix timestamp and one or more HMAC-SHA256 signatures computed
// over "<timestamp>.<raw body>" with the shared endpoint secret.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: 5 * time.Minute,
		now:       time.Now,
	}
}

// VerifyAndParse validates the signature header against the raw body and
// decodes the event. Any malformed header, stale timestamp, or signature
// mismatch yields ErrInvalidSignature; the body is never inspected first.
func (v *WebhookVerifier) VerifyAndParse(body []byte, header string) (Event, error) {
	if len(v.secret) == 0 {
		return Event{}, errors.New("webhook secret is empty")
	}

	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return Event{}, ErrInvalidSignature
	}

	issued := time.Unix(timestamp, 0)
	age := v.now().Sub(issued)
	if age > v.tolerance || age < -v.tolerance {
		return Event{}, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return Event{}, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("decode webhook event: %w", err)
	}
	return event, nil
}

// Sign produces a valid signature header for the given body. Used by tests
// and local tooling to simulate deliveries.
func (v *WebhookVerifier) Sign(body []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, nil, errors.New("empty signature header")
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, errors.New("malformed signature header")
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil || ts <= 0 {
				return 0, nil, errors.New("malformed signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, errors.New("incomplete signature header")
	}
	return timestamp, signatures, nil
}
