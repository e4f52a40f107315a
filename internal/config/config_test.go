package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
  read_timeout: 5s
identity:
  base_url: https://abc.supabase.co/auth/v1
  jwt_secret: test-secret
stripe:
  secret_key: sk_test_123
  webhook_secret: whsec_123
  price_id: price_123
site:
  default_origin: https://mjkursus.dk
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 15*time.Second {
		t.Fatalf("default write timeout lost: %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Identity.BaseURL != "https://abc.supabase.co/auth/v1" {
		t.Fatalf("unexpected identity base url: %s", cfg.Identity.BaseURL)
	}
	if cfg.Site.DefaultOrigin != "https://mjkursus.dk" {
		t.Fatalf("unexpected default origin: %s", cfg.Site.DefaultOrigin)
	}
	if cfg.Site.ProtectedPrefix != "/kursus" {
		t.Fatalf("default protected prefix lost: %s", cfg.Site.ProtectedPrefix)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("STRIPE_PRICE_ID", "price_env")
	t.Setenv("IDENTITY_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override missing for http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Stripe.PriceID != "price_env" {
		t.Fatalf("env override missing for price id: %s", cfg.Stripe.PriceID)
	}
	if cfg.Identity.JWTSecret != "env-secret" {
		t.Fatalf("env override missing for jwt secret: %s", cfg.Identity.JWTSecret)
	}
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty secrets")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"IDENTITY_BASE_URL",
		"IDENTITY_ANON_KEY",
		"IDENTITY_SERVICE_KEY",
		"IDENTITY_JWT_SECRET",
		"STRIPE_BASE_URL",
		"STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET",
		"STRIPE_PRICE_ID",
		"SITE_DEFAULT_ORIGIN",
	} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}
