package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Provider names accepted in PAYMENT_PROVIDER
const (
	ProviderPayPal = "paypal"
	ProviderStripe = "stripe"
)

// Config is the explicit configuration object passed into services at
// construction. Provider credentials live here instead of module-level
// globals so the payment clients stay stateless and testable.
type Config struct {
	Port      int
	DomainURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	Provider string

	PayPalClientID string
	PayPalSecret   string
	PayPalMode     string // "sandbox" or "live"

	StripeSecretKey string

	PriceAmount   string // e.g. "97.00"
	PriceCurrency string // e.g. "USD"

	AdminJWTSecret string
	AdminJWKSURL   string
}

// Load reads configuration from the environment. Missing provider
// credentials are a startup fault: the purchase flow must never be reachable
// with a half-configured provider.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenvInt("PORT", 10000),
		DomainURL:      strings.TrimRight(getenv("DOMAIN_URL", "http://127.0.0.1:10000"), "/"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getenvInt("REDIS_DB", 0),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		Provider:       strings.ToLower(getenv("PAYMENT_PROVIDER", ProviderPayPal)),
		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_SECRET"),
		PayPalMode:     getenv("PAYPAL_MODE", "sandbox"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PriceAmount:    getenv("LICENSE_PRICE", "97.00"),
		PriceCurrency:  getenv("LICENSE_CURRENCY", "USD"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		AdminJWKSURL:   os.Getenv("ADMIN_JWKS_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	switch cfg.Provider {
	case ProviderPayPal:
		if cfg.PayPalClientID == "" || cfg.PayPalSecret == "" {
			return nil, fmt.Errorf("missing PAYPAL_CLIENT_ID or PAYPAL_SECRET in environment")
		}
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("missing STRIPE_SECRET_KEY in environment")
		}
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Provider)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
