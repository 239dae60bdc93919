// Package config builds the process configuration from the environment.
// The resulting Config is constructed once in main and passed by injection;
// nothing else in the application reads environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabaseDSN is the Postgres connection string.
	DatabaseDSN string

	// RedisURL is the address of the reset-code store.
	RedisURL string

	// JWTSecret signs bearer tokens. Leaving it empty is a configuration
	// error surfaced on the first login attempt, never a silent fallback.
	JWTSecret string

	// TokenTTL is the validity window of issued tokens.
	TokenTTL time.Duration

	// ResetCodeTTL is the validity window of password-reset codes.
	ResetCodeTTL time.Duration

	// GoogleClientID enables Google sign-in when set.
	GoogleClientID string

	// ResendAPIKey enables outgoing mail; without it codes are only logged.
	ResendAPIKey string

	// AllowedOrigin is the CORS origin of the SPA front end.
	AllowedOrigin string

	// UseEmailReputation toggles the external reputation check on register.
	UseEmailReputation bool

	// ReputationAPIKey authenticates against the reputation service.
	ReputationAPIKey string

	// SeedDemoData creates the demo admin/user/clients at startup.
	SeedDemoData bool
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseDSN:        os.Getenv("DATABASE_DSN"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           7 * 24 * time.Hour,
		ResetCodeTTL:       10 * time.Minute,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		UseEmailReputation: os.Getenv("USE_EMAIL_REPUTATION") == "true",
		ReputationAPIKey:   os.Getenv("ABSTRACT_EMAIL_API_KEY"),
		SeedDemoData:       os.Getenv("SEED_DEMO_DATA") == "true",
	}

	if v := os.Getenv("RESET_CODE_TTL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			cfg.ResetCodeTTL = time.Duration(m) * time.Minute
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
