package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string // sqlite only

	// Tokens
	JWTSecret       string
	JWTIssuer       string
	ReactivationTTL time.Duration

	// HTTP hardening
	RateLimit          RateLimitConfig
	SecurityHeaders    SecurityHeadersConfig
	MaxRequestBodySize int64
}

// RateLimitConfig holds per-group rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool

	// Gate covers the authentication-time evaluation hook.
	GateRequestsPerMinute int
	GateWindowMinutes     int

	// Reactivate covers unauthenticated token consumption.
	ReactivateRequestsPerWindow int
	ReactivateWindowMinutes     int

	// Admin covers the authenticated administrative surface.
	AdminRequestsPerMinute int
	AdminWindowMinutes     int
}

// SecurityHeadersConfig holds security header configuration.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "lockgate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "lockgate.db"),

		// Token defaults
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "lockgate"),
		ReactivationTTL: getEnvDuration("REACTIVATION_TOKEN_TTL", 24*time.Hour),

		RateLimit: RateLimitConfig{
			Enabled:                     getEnvBool("RATE_LIMIT_ENABLED", true),
			GateRequestsPerMinute:       getEnvInt("RATE_LIMIT_GATE_REQUESTS", 60),
			GateWindowMinutes:           getEnvInt("RATE_LIMIT_GATE_WINDOW_MINUTES", 1),
			ReactivateRequestsPerWindow: getEnvInt("RATE_LIMIT_REACTIVATE_REQUESTS", 5),
			ReactivateWindowMinutes:     getEnvInt("RATE_LIMIT_REACTIVATE_WINDOW_MINUTES", 15),
			AdminRequestsPerMinute:      getEnvInt("RATE_LIMIT_ADMIN_REQUESTS", 120),
			AdminWindowMinutes:          getEnvInt("RATE_LIMIT_ADMIN_WINDOW_MINUTES", 1),
		},
		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                getEnv("SECURITY_CSP", "default-src 'none'"),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 0),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			XSSProtection:      getEnv("SECURITY_XSS_PROTECTION", "1; mode=block"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "no-referrer"),
		},
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 64*1024)),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
