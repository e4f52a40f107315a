package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	loginsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/login"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/cookies"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/dto"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
)

// User-facing messages stay in Danish to match the rest of the site.
const (
	msgEmailRequired = "Email er påkrævet"
	msgUserNotFound  = "Ingen bruger fundet med denne email. Har du købt kurset?"
	msgNotEntitled   = "Du har ikke adgang til kurset. Gennemfør venligst købet først."
	msgInternal      = "Der opstod en fejl. Prøv igen senere."
	msgLinkSent      = "Vi har sendt dig et login-link. Tjek din indbakke."
	msgTooMany       = "For mange forsøg. Vent et øjeblik og prøv igen."
	msgBadPassword   = "Forkert email eller adgangskode."
)

type LoginMetrics interface {
	RecordLoginAttempt(method, outcome string)
}

type LoginHandler struct {
	service       *loginsvc.Service
	sessions      *authsvc.Service
	metrics       LoginMetrics
	defaultOrigin string
	secureCookies bool
}

func NewLoginHandler(service *loginsvc.Service, sessions *authsvc.Service, metrics LoginMetrics, defaultOrigin string, secureCookies bool) *LoginHandler {
	return &LoginHandler{
		service:       service,
		sessions:      sessions,
		metrics:       metrics,
		defaultOrigin: defaultOrigin,
		secureCookies: secureCookies,
	}
}

// CanLogin is the pre-flight eligibility probe the login page calls before
// offering either sign-in flow.
func (h *LoginHandler) CanLogin(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LOGIN_SERVICE_UNAVAILABLE", msgInternal)
		return
	}

	var req dto.CanLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgEmailRequired)
		return
	}

	_, err := h.service.CheckEligibility(r.Context(), req.Email)
	switch {
	case err == nil:
		httperrors.Write(w, http.StatusOK, dto.CanLoginResponse{CanLogin: true})
	case errors.Is(err, loginsvc.ErrValidation):
		httperrors.Write(w, http.StatusBadRequest, dto.CanLoginResponse{Error: msgEmailRequired})
	case errors.Is(err, loginsvc.ErrUserNotFound):
		httperrors.Write(w, http.StatusNotFound, dto.CanLoginResponse{Error: msgUserNotFound})
	case errors.Is(err, loginsvc.ErrNotEntitled):
		httperrors.Write(w, http.StatusForbidden, dto.CanLoginResponse{Error: msgNotEntitled})
	default:
		httperrors.Write(w, http.StatusInternalServerError, dto.CanLoginResponse{Error: msgInternal})
	}
}

// MagicLink emails a one-time login link to an eligible address.
func (h *LoginHandler) MagicLink(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LOGIN_SERVICE_UNAVAILABLE", msgInternal)
		return
	}

	var req dto.MagicLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgEmailRequired)
		return
	}

	err := h.service.SendLoginLink(r.Context(), req.Email, h.linkRedirect(req.RedirectTo))
	if err != nil {
		h.recordLogin("magic_link", "denied")
		h.writeLoginError(w, err)
		return
	}

	h.recordLogin("magic_link", "sent")
	httperrors.Write(w, http.StatusOK, dto.MagicLinkResponse{OK: true, Message: msgLinkSent})
}

// Password signs in with email and password and sets the session cookies.
func (h *LoginHandler) Password(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LOGIN_SERVICE_UNAVAILABLE", msgInternal)
		return
	}

	var req dto.PasswordLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", msgEmailRequired)
		return
	}

	session, err := h.service.PasswordLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordLogin("password", "denied")
		h.writeLoginError(w, err)
		return
	}

	cookies.SetSession(w, session, h.secureCookies)
	h.recordLogin("password", "success")
	httperrors.Write(w, http.StatusOK, dto.SessionResponse{
		OK: true,
		User: dto.SessionUserResponse{
			ID:    session.User.ID.String(),
			Email: session.User.Email,
		},
	})
}

// Logout revokes the provider session and clears both cookies. It succeeds
// even when no session exists.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		_ = h.sessions.SignOut(r.Context(), cookies.ReadAccess(r))
	}

	cookies.Clear(w, h.secureCookies)
	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *LoginHandler) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loginsvc.ErrValidation):
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: "VALIDATION_ERROR", Message: msgEmailRequired})
	case errors.Is(err, loginsvc.ErrUserNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "USER_NOT_FOUND", Message: msgUserNotFound})
	case errors.Is(err, loginsvc.ErrNotEntitled):
		httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: "NOT_ENTITLED", Message: msgNotEntitled})
	case errors.Is(err, loginsvc.ErrInvalidCredentials):
		httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: "INVALID_CREDENTIALS", Message: msgBadPassword})
	case errors.Is(err, loginsvc.ErrRateLimited):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{Code: "RATE_LIMITED", Message: msgTooMany})
	default:
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: "INTERNAL_ERROR", Message: msgInternal})
	}
}

// linkRedirect builds the magic-link landing URL. The link always lands on
// the site's own callback handler; a client-supplied target survives only as
// a same-site `next` path, never as a full redirect destination.
func (h *LoginHandler) linkRedirect(requested string) string {
	callback := strings.TrimRight(h.defaultOrigin, "/") + "/auth/callback"
	if strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") {
		return callback + "?next=" + url.QueryEscape(requested)
	}
	return callback
}

func (h *LoginHandler) recordLogin(method, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLoginAttempt(method, outcome)
	}
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
