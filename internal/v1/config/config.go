package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds validated environment configuration for the broadcast hub.
type Config struct {
	Port           int
	AllowedOrigins string
	LogLevel       string
	GoEnv          string
	ChatRetain     int
}

// ValidateEnv validates all environment variables and returns a Config.
// Every variable has a default, so a bare environment is valid; this only
// returns an error when a variable is present but malformed.
func ValidateEnv() (*Config, error) {
	cfg := &Config{}
	var errors []string

	portStr := getEnvOrDefault("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("PORT must be a valid port number between 1 and 65535 (got '%s')", portStr))
	}
	cfg.Port = port

	cfg.AllowedOrigins = getEnvOrDefault("ALLOWED_ORIGINS", "*")

	cfg.LogLevel = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of debug|info|warn|error (got '%s')", cfg.LogLevel))
	}

	cfg.GoEnv = getEnvOrDefault("GO_ENV", "production")

	retainStr := getEnvOrDefault("CHAT_HISTORY_RETAIN", "100")
	retain, err := strconv.Atoi(retainStr)
	if err != nil || retain < 1 {
		errors = append(errors, fmt.Sprintf("CHAT_HISTORY_RETAIN must be a positive integer (got '%s')", retainStr))
	}
	cfg.ChatRetain = retain

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	logValidatedConfig(cfg)
	return cfg, nil
}

// IsDevelopment reports whether GO_ENV selects the development logging mode.
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func logValidatedConfig(cfg *Config) {
	slog.Info("environment configuration validated",
		"port", cfg.Port,
		"allowed_origins", cfg.AllowedOrigins,
		"go_env", cfg.GoEnv,
		"log_level", cfg.LogLevel,
		"chat_history_retain", cfg.ChatRetain,
	)
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
