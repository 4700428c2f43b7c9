package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	AuthMode               string
	IdentityBaseURL        string
	IdentityServiceKey     string
	IdentityTimeoutSeconds int

	AdminAPIKey string
	PolicyPath  string

	RateLimitRequests   int
	RateLimitWindowMs   int
	RateLimitFailClosed bool
	RateLimitMaxKeys    int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:               addr,
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		LogLevel:               envDefault("LOG_LEVEL", "info"),
		AuthMode:               envDefault("AUTH_MODE", "identity"),
		IdentityBaseURL:        os.Getenv("IDENTITY_BASE_URL"),
		IdentityServiceKey:     os.Getenv("IDENTITY_SERVICE_KEY"),
		IdentityTimeoutSeconds: envIntDefault("IDENTITY_TIMEOUT_SECONDS", 5),
		AdminAPIKey:            os.Getenv("ADMIN_API_KEY"),
		PolicyPath:             os.Getenv("POLICY_PATH"),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowMs:      envIntDefault("RATE_LIMIT_WINDOW_MS", 60000),
		RateLimitFailClosed:    envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:       envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowMs <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowMs) * time.Millisecond
}

func (c Config) IdentityTimeout() time.Duration {
	if c.IdentityTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.IdentityTimeoutSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
