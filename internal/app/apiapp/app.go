package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/catalog"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/config"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/stripe"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/metrics"
	pgrepo "github.com/LocoMediaDK/MidjourneyMaster/internal/repo/postgres"
	redrepo "github.com/LocoMediaDK/MidjourneyMaster/internal/repo/redis"
	accesssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/access"
	authsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/auth"
	checkoutsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/checkout"
	entsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/entitlements"
	loginsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/login"
	paymentssvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/payments"
	ratesvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/rate"
)

const (
	loginAttemptsPerMinute = 5
	loginAttemptsPerHour   = 30
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
		if err := pgrepo.RunMigrations(cfg.Postgres.DSN); err != nil {
			log.Warn("migrations failed", zap.Error(err))
		}
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	eventRepo := redrepo.NewEventRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	profileRepo := pgrepo.NewProfileRepo(pool)

	identityClient, err := identity.NewClient(identity.Config{
		BaseURL:    cfg.Identity.BaseURL,
		AnonKey:    cfg.Identity.AnonKey,
		ServiceKey: cfg.Identity.ServiceKey,
		Timeout:    cfg.Identity.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("identity client: %w", err)
	}

	stripeClient, err := stripe.NewClient(stripe.Config{
		BaseURL:   cfg.Stripe.BaseURL,
		SecretKey: cfg.Stripe.SecretKey,
		Timeout:   cfg.Stripe.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe client: %w", err)
	}
	webhookVerifier := stripe.NewWebhookVerifier(cfg.Stripe.WebhookSecret)

	course, err := catalog.New(catalog.Course())
	if err != nil {
		return nil, fmt.Errorf("course catalog: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	authService := authsvc.NewService(identityClient, cfg.Identity.JWTSecret)
	entitlementService := entsvc.NewService(profileRepo)
	accessService := accesssvc.NewService(entitlementService, log)
	rateLimiter := ratesvc.NewLimiter(rateRepo, loginAttemptsPerMinute, loginAttemptsPerHour)
	loginService := loginsvc.NewService(loginsvc.Dependencies{
		Provider:     identityClient,
		Entitlements: entitlementService,
		Limiter:      rateLimiter,
		Logger:       log,
	})
	paymentService := paymentssvc.NewService(paymentssvc.Dependencies{
		Provider: identityClient,
		Profiles: profileRepo,
		Events:   eventRepo,
	})
	checkoutService := checkoutsvc.NewService(checkoutsvc.Dependencies{
		Payments:      stripeClient,
		PriceID:       cfg.Stripe.PriceID,
		DefaultOrigin: cfg.Site.DefaultOrigin,
		Logger:        log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AccessService:      accessService,
		AuthService:        authService,
		CheckoutService:    checkoutService,
		EntitlementService: entitlementService,
		LoginService:       loginService,
		PaymentService:     paymentService,
		WebhookVerifier:    webhookVerifier,
		Catalog:            course,
		Metrics:            collector,
		MetricsRegistry:    registry,
		Logger:             log,
		Config:             cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
