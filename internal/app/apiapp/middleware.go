package apiapp

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/config"
	accesssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/access"
	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/cookies"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
)

func ApplyMiddlewares(r chiRouter, cfg config.Config, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Site.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// SessionMiddleware resolves the signed-in identity from the session
// cookies. An expired access token is rotated through the refresh grant in
// place, so a returning visitor with only a refresh cookie stays signed in.
// Anonymous requests pass through without an identity in context.
func SessionMiddleware(sessions *authsvc.Service, secureCookies bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				next.ServeHTTP(w, r)
				return
			}

			if ident, err := sessions.ParseAccessToken(cookies.ReadAccess(r)); err == nil {
				next.ServeHTTP(w, r.WithContext(authsvc.WithIdentity(r.Context(), ident)))
				return
			}

			refreshToken := cookies.ReadRefresh(r)
			if refreshToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Refresh(r.Context(), refreshToken)
			if err != nil {
				if log != nil {
					log.Debug("session refresh failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			ident, err := sessions.ParseAccessToken(session.AccessToken)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			cookies.SetSession(w, session, secureCookies)
			next.ServeHTTP(w, r.WithContext(authsvc.WithIdentity(r.Context(), ident)))
		})
	}
}

type GateMetrics interface {
	RecordGateDecision(decision string)
}

// GateMiddleware enforces the course paywall on page navigation. The
// protected prefix and login path come from site config; every other path
// is public. Denials are browser redirects, not JSON errors.
func GateMiddleware(gate *accesssvc.Service, site config.SiteConfig, metrics GateMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				next.ServeHTTP(w, r)
				return
			}

			route := classifyRoute(r.URL.Path, site)
			ident := identityPtr(r)
			decision := gate.Evaluate(r.Context(), ident, route)
			if metrics != nil {
				metrics.RecordGateDecision(decision.String())
			}

			switch decision {
			case accesssvc.RedirectLogin:
				http.Redirect(w, r, site.LoginPath, http.StatusSeeOther)
			case accesssvc.RedirectHome:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			case accesssvc.RedirectCourse:
				http.Redirect(w, r, site.ProtectedPrefix, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireEntitlement is the JSON counterpart of the gate for API routes:
// 401 for anonymous callers, 403 for accounts without a purchase.
func RequireEntitlement(gate *accesssvc.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := identityPtr(r)
			if ident == nil {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "authentication required",
				})
				return
			}
			if gate == nil || gate.Evaluate(r.Context(), ident, accesssvc.RouteProtected) != accesssvc.Allow {
				httperrors.Write(w, http.StatusForbidden, httperrors.APIError{
					Code:    "NOT_ENTITLED",
					Message: "course access requires a completed purchase",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func classifyRoute(path string, site config.SiteConfig) accesssvc.Route {
	switch {
	case path == site.ProtectedPrefix || strings.HasPrefix(path, site.ProtectedPrefix+"/"):
		return accesssvc.RouteProtected
	case path == site.LoginPath:
		return accesssvc.RouteLogin
	default:
		return accesssvc.RoutePublic
	}
}

func identityPtr(r *http.Request) *authsvc.Identity {
	ident, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return &ident
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
