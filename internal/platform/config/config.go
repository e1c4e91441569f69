package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kontra/pkg/domain"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean; services receive the slice they need at
// construction rather than reading globals.
type Config struct {
	Env  string
	Addr string

	// DatabaseURL selects the postgres-backed stores; empty falls back to the
	// in-memory stores (local runs, tests).
	DatabaseURL string

	Redis RedisConfig

	Provider ProviderConfig
	Billing  BillingConfig
	Audit    AuditConfig

	JWTSigningKey string

	// AdminUsers have unlimited checks and access to the admin endpoints.
	AdminUsers []domain.UserID

	// FreeChecks is the number of lookups a new user gets before the
	// subscription gate closes.
	FreeChecks int

	// BundleCacheTTL bounds how long a fetched bundle stays exportable as a
	// document after the original check.
	BundleCacheTTL time.Duration
}

// RedisConfig carries connection settings for the report bundle cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProviderConfig configures the company-registry client.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// BillingConfig configures the payment-provider client.
type BillingConfig struct {
	BaseURL   string
	ShopID    string
	SecretKey string
	ReturnURL string
	Timeout   time.Duration
}

// AuditConfig selects the audit sink. Empty brokers keep the in-memory store.
type AuditConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if out, err := time.ParseDuration(v); err == nil {
			return out
		}
	}
	return def
}

// Load builds a Config from environment variables.
//
// A missing provider API key is a config error: the registry client cannot
// function without it and the failure should surface once at startup, not on
// every request.
func Load() (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		Addr:        getenv("KONTRA_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Provider: ProviderConfig{
			BaseURL: getenv("PROVIDER_BASE_URL", "https://zachestnyibiznesapi.ru/paid/data"),
			APIKey:  os.Getenv("PROVIDER_API_KEY"),
			Timeout: getenvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		},
		Billing: BillingConfig{
			BaseURL:   getenv("BILLING_BASE_URL", "https://api.yookassa.ru/v3"),
			ShopID:    os.Getenv("BILLING_SHOP_ID"),
			SecretKey: os.Getenv("BILLING_SECRET_KEY"),
			ReturnURL: getenv("BILLING_RETURN_URL", "https://t.me/kontra_check_bot"),
			Timeout:   getenvDuration("BILLING_TIMEOUT", 15*time.Second),
		},
		Audit: AuditConfig{
			KafkaBrokers: splitList(os.Getenv("AUDIT_KAFKA_BROKERS")),
			KafkaTopic:   getenv("AUDIT_KAFKA_TOPIC", "kontra.audit"),
		},
		JWTSigningKey:  getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		FreeChecks:     getenvInt("FREE_CHECKS", 3),
		BundleCacheTTL: getenvDuration("BUNDLE_CACHE_TTL", time.Hour),
	}

	for _, raw := range splitList(os.Getenv("ADMIN_USER_IDS")) {
		id, err := domain.ParseUserID(raw)
		if err != nil {
			return cfg, fmt.Errorf("ADMIN_USER_IDS entry %q: %w", raw, err)
		}
		cfg.AdminUsers = append(cfg.AdminUsers, id)
	}

	if cfg.Provider.APIKey == "" {
		return cfg, fmt.Errorf("PROVIDER_API_KEY not set")
	}
	return cfg, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
