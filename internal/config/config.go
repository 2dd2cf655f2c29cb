package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth
	AuthJWTSecret string // HS256 shared secret (default mode)
	AuthJWKSURL   string // when set, tokens are verified against this JWKS instead
	// Rate limiting (requests per sliding minute)
	RateLimitRead  int
	RateLimitWrite int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:    getTablePrefix(env),
		AuthJWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
		AuthJWKSURL:    getEnv("AUTH_JWKS_URL", ""),
		RateLimitRead:  getEnvInt("RATE_LIMIT_READ", DefaultReadRequestsPerMinute),
		RateLimitWrite: getEnvInt("RATE_LIMIT_WRITE", DefaultWriteRequestsPerMinute),
	}
}

// getTablePrefix returns the table prefix based on environment.
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
