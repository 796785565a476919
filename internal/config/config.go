package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// Operator login. AdminPasswordHash is a bcrypt hash; the plain
	// password never appears in configuration.
	AdminPasswordHash string
	AuthJWTSecret     string
	SessionTTL        time.Duration

	// Shared static key for the first-party tracking endpoint.
	TrackingAPIKey string

	// Fallback Stripe webhook signing secret for ventures that have a
	// secret key configured but no per-venture signing secret yet.
	DefaultWebhookSecret string

	// Source-control integration token, held for the presentation layer's
	// repo picker. Opaque to the core; never logged.
	GitHubToken string

	// Interval for the background sync loop. Zero disables it.
	SyncInterval time.Duration

	OTLPEndpoint string
	RedisAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:              getenv("APP_SERVICE", "venturedash"),
		AppVersion:           getenv("APP_VERSION", "0.1.0"),
		Environment:          getenv("ENVIRONMENT", "development"),
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		AdminPasswordHash:    strings.TrimSpace(getenv("ADMIN_PASSWORD_HASH", "")),
		AuthJWTSecret:        strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		SessionTTL:           getenvDuration("SESSION_TTL", 12*time.Hour),
		TrackingAPIKey:       strings.TrimSpace(getenv("TRACKING_API_KEY", "")),
		DefaultWebhookSecret: strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
		GitHubToken:          strings.TrimSpace(getenv("GITHUB_TOKEN", "")),
		SyncInterval:         getenvDuration("SYNC_INTERVAL", 0),
		OTLPEndpoint:         getenv("OTLP_ENDPOINT", "localhost:4317"),
		RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR", "")),
		DBType:               getenv("DATABASE_TYPE", "postgres"),
		DBHost:               getenv("DATABASE_HOST", "localhost"),
		DBPort:               getenv("DATABASE_PORT", "5432"),
		DBName:               getenv("DATABASE_NAME", "venturedash"),
		DBUser:               getenv("DATABASE_USER", "postgres"),
		DBPassword:           getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:            getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:        getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:        getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime:    getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
	}
}

// MaskSecret reduces a secret to a prefix...suffix display form. Anything
// short enough that masking would reveal most of it collapses to "...".
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 12 {
		return "..."
	}
	return secret[:7] + "..." + secret[len(secret)-4:]
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
