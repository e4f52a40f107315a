package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Identity IdentityConfig `yaml:"identity"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Site     SiteConfig     `yaml:"site"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// IdentityConfig points at the hosted identity provider (GoTrue-style API).
// ServiceKey authorizes admin endpoints, JWTSecret verifies issued access
// tokens locally without a round trip.
type IdentityConfig struct {
	BaseURL    string        `yaml:"base_url"`
	AnonKey    string        `yaml:"anon_key"`
	ServiceKey string        `yaml:"service_key"`
	JWTSecret  string        `yaml:"jwt_secret"`
	Timeout    time.Duration `yaml:"timeout"`
}

type StripeConfig struct {
	BaseURL       string        `yaml:"base_url"`
	SecretKey     string        `yaml:"secret_key"`
	WebhookSecret string        `yaml:"webhook_secret"`
	PriceID       string        `yaml:"price_id"`
	Timeout       time.Duration `yaml:"timeout"`
}

// SiteConfig carries the route layout the access gate enforces plus the
// fallback origin used when a request does not declare one.
type SiteConfig struct {
	DefaultOrigin   string   `yaml:"default_origin"`
	ProtectedPrefix string   `yaml:"protected_prefix"`
	LoginPath       string   `yaml:"login_path"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Identity: IdentityConfig{
			Timeout: 8 * time.Second,
		},
		Stripe: StripeConfig{
			BaseURL: "https://api.stripe.com",
			Timeout: 15 * time.Second,
		},
		Site: SiteConfig{
			DefaultOrigin:   "http://localhost:3000",
			ProtectedPrefix: "/kursus",
			LoginPath:       "/login",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.Redis.DB = db
	}

	if v := os.Getenv("IDENTITY_BASE_URL"); v != "" {
		cfg.Identity.BaseURL = v
	}
	if v := os.Getenv("IDENTITY_ANON_KEY"); v != "" {
		cfg.Identity.AnonKey = v
	}
	if v := os.Getenv("IDENTITY_SERVICE_KEY"); v != "" {
		cfg.Identity.ServiceKey = v
	}
	if v := os.Getenv("IDENTITY_JWT_SECRET"); v != "" {
		cfg.Identity.JWTSecret = v
	}

	if v := os.Getenv("STRIPE_BASE_URL"); v != "" {
		cfg.Stripe.BaseURL = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Stripe.SecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		cfg.Stripe.WebhookSecret = v
	}
	if v := os.Getenv("STRIPE_PRICE_ID"); v != "" {
		cfg.Stripe.PriceID = v
	}

	if v := os.Getenv("SITE_DEFAULT_ORIGIN"); v != "" {
		cfg.Site.DefaultOrigin = v
	}

	return nil
}

func overrideDuration(name string, target *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	*target = d
	return nil
}

// Validate checks the settings the server cannot run without. Postgres and
// redis may be absent so the app can boot in degraded mode.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr is empty")
	}
	if c.Identity.BaseURL == "" {
		return fmt.Errorf("identity base url is empty")
	}
	if c.Identity.JWTSecret == "" {
		return fmt.Errorf("identity jwt secret is empty")
	}
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("stripe secret key is empty")
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("stripe webhook secret is empty")
	}
	if c.Stripe.PriceID == "" {
		return fmt.Errorf("stripe price id is empty")
	}
	return nil
}
