package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.ExposeErrorDetails {
		t.Fatalf("error details must be hidden by default")
	}
	if cfg.Mongo.Database != "accounts" || cfg.Mongo.Timeout != 10*time.Second {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Signup.RateLimit != 10 || cfg.Signup.RateWindow != time.Minute {
		t.Fatalf("unexpected signup defaults: %+v", cfg.Signup)
	}
	if len(cfg.CORSAllowOrigins) != 1 || cfg.CORSAllowOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors defaults: %v", cfg.CORSAllowOrigins)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("no proxy should be trusted by default: %v", cfg.TrustedProxies)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s3cret",
		"ENV":                  "production",
		"MONGO_DB":             "accounts_test",
		"SIGNUP_RATE_LIMIT":    "3",
		"SIGNUP_RATE_WINDOW":   "30s",
		"EXPOSE_ERROR_DETAILS": "true",
		"CORS_ALLOW_ORIGINS":   "https://a.example,https://b.example",
		"TRUSTED_PROXIES":      "10.0.0.0/8,192.168.1.0/24",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !cfg.IsProduction() || cfg.Mongo.Database != "accounts_test" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Signup.RateLimit != 3 || cfg.Signup.RateWindow != 30*time.Second {
		t.Fatalf("unexpected signup config: %+v", cfg.Signup)
	}
	if !cfg.ExposeErrorDetails || len(cfg.CORSAllowOrigins) != 2 {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("unexpected trusted proxies: %v", cfg.TrustedProxies)
	}
}

func TestProcess_RequiresJWTSecret(t *testing.T) {
	if _, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}
