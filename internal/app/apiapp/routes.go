package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/catalog"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/config"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/metrics"
	accesssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/access"
	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	checkoutsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/checkout"
	entsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/entitlements"
	loginsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/login"
	paymentssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/payments"
	httperrors "github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/errors"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/handlers"
)

type Dependencies struct {
	AccessService      *accesssvc.Service
	AuthService        *authsvc.Service
	CheckoutService    *checkoutsvc.Service
	EntitlementService *entsvc.Service
	LoginService       *loginsvc.Service
	PaymentService     *paymentssvc.Service
	WebhookVerifier    *stripe.WebhookVerifier
	Catalog            *catalog.Catalog
	Metrics            *metrics.Collector
	MetricsRegistry    *prometheus.Registry
	Logger             *zap.Logger
	Config             config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	secureCookies := deps.Config.Env == "prod"
	site := deps.Config.Site

	healthHandler := handlers.NewHealthHandler()
	loginHandler := handlers.NewLoginHandler(deps.LoginService, deps.AuthService, deps.Metrics, site.DefaultOrigin, secureCookies)
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService, deps.Metrics)
	webhookHandler := handlers.NewWebhookHandler(deps.WebhookVerifier, deps.PaymentService, deps.Metrics, deps.Logger)
	callbackHandler := handlers.NewCallbackHandler(deps.AuthService, site.ProtectedPrefix, site.LoginPath, secureCookies, deps.Logger)
	courseHandler := handlers.NewCourseHandler(deps.Catalog)
	meHandler := handlers.NewMeHandler(deps.EntitlementService)

	sessionMW := SessionMiddleware(deps.AuthService, secureCookies, deps.Logger)
	gateMW := GateMiddleware(deps.AccessService, site, deps.Metrics)
	entitledMW := RequireEntitlement(deps.AccessService)

	r.Get("/healthz", healthHandler.Get)
	if deps.MetricsRegistry != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsRegistry))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/can-login", loginHandler.CanLogin)
		r.Post("/magic-link", loginHandler.MagicLink)
		r.Post("/login", loginHandler.Password)
		r.Post("/logout", loginHandler.Logout)
	})

	r.Post("/api/checkout", checkoutHandler.Create)
	r.Post("/api/webhooks/stripe", webhookHandler.Handle)
	r.Get("/auth/callback", callbackHandler.Handle)

	r.Route("/api/course", func(r chi.Router) {
		r.Use(sessionMW, entitledMW)
		r.Get("/", courseHandler.Overview)
		r.Get("/{module}", courseHandler.Module)
		r.Get("/{module}/{lesson}", courseHandler.Lesson)
	})
	r.With(sessionMW).Get("/api/me", meHandler.Entitlement)

	// Page navigation goes through the gate and answers with redirects.
	r.Route(site.ProtectedPrefix, func(r chi.Router) {
		r.Use(sessionMW, gateMW)
		r.Get("/", courseHandler.Overview)
		r.Get("/{module}", courseHandler.Module)
		r.Get("/{module}/{lesson}", courseHandler.Lesson)
	})
	r.With(sessionMW, gateMW).Get(site.LoginPath, func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Write(w, http.StatusOK, map[string]string{"page": "login"})
	})
}
