package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv       string
	IsProduction bool
	ProdOrigins  []string
	HTTPAddr     string

	DBDSN     string
	DBMigrate bool

	LogLevel  string
	LogFormat string

	// GatewaySecret enables gateway token verification when non-empty.
	GatewaySecret string

	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateLimitWindow time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
// It reports whether a .env file was found so the caller can log it once a logger exists.
func Load() (*Config, bool, error) {
	// Load .env file if it exists
	envLoaded := godotenv.Load() == nil

	cfg, err := FromEnv()
	if err != nil {
		return nil, envLoaded, err
	}
	return cfg, envLoaded, nil
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	// Application environment (default: dev)
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	// Production origins, comma separated (default: empty)
	cfg.ProdOrigins = splitList(getEnv("PROD_ORIGINS", ""))

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.DBMigrate, err = getEnvAsBool("DB_MIGRATE", true)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	cfg.GatewaySecret = os.Getenv("GATEWAY_SECRET")

	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	cfg.RateLimit, err = getEnvAsInt("RATE_LIMIT_REQUESTS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimit)
	}

	// Rate limit window, parsed as time.Duration (e.g. "30s", "1m").
	windowStr := getEnv("RATE_LIMIT_WINDOW", "1m")
	cfg.RateLimitWindow, err = time.ParseDuration(windowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", windowStr)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}

	return val, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
