package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/cookies"
)

type CallbackHandler struct {
	sessions      *authsvc.Service
	coursePath    string
	loginPath     string
	secureCookies bool
	log           *zap.Logger
}

func NewCallbackHandler(sessions *authsvc.Service, coursePath, loginPath string, secureCookies bool, log *zap.Logger) *CallbackHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CallbackHandler{
		sessions:      sessions,
		coursePath:    coursePath,
		loginPath:     loginPath,
		secureCookies: secureCookies,
		log:           log,
	}
}

// Handle lands the magic-link click. The one-time code is exchanged for a
// session, the cookies are set, and the browser is sent on to the course.
// Any failure falls back to the login page with an error flag instead of a
// bare error response.
func (h *CallbackHandler) Handle(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" || h.sessions == nil {
		h.redirectFailed(w, r)
		return
	}

	session, err := h.sessions.ExchangeCode(r.Context(), code)
	if err != nil {
		h.log.Warn("auth code exchange failed", zap.Error(err))
		h.redirectFailed(w, r)
		return
	}

	cookies.SetSession(w, session, h.secureCookies)

	next := h.coursePath
	if requested := r.URL.Query().Get("next"); strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") {
		next = requested
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *CallbackHandler) redirectFailed(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.loginPath+"?error=auth_failed", http.StatusSeeOther)
}
