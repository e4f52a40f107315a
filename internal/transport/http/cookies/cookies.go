// Package cookies holds the session cookie contract shared by handlers and
// the gate middleware.
package cookies

import (
	"net/http"
	"time"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
)

const (
	AccessCookie  = "mm_access_token"
	RefreshCookie = "mm_refresh_token"

	refreshTTL = 30 * 24 * time.Hour
)

// SetSession writes both session cookies. Access expiry follows the token
// lifetime reported by the provider; the refresh cookie outlives it so the
// session can rotate transparently.
func SetSession(w http.ResponseWriter, session identity.Session, secure bool) {
	accessMaxAge := int(session.ExpiresIn)
	if accessMaxAge <= 0 {
		accessMaxAge = int(time.Hour / time.Second)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   accessMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func Clear(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func ReadAccess(r *http.Request) string {
	cookie, err := r.Cookie(AccessCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func ReadRefresh(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
