package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"adventcalendar/internal/validation"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort       string
	DatabaseType     string
	DatabasePath     string
	DatabaseURL      string
	MigrationsPath   string
	CalendarPath     string
	Timezone         string
	SessionSecret    string
	SessionDuration  time.Duration
	PenaltyThreshold int
	PenaltyDuration  time.Duration
	TimeGateInterval time.Duration
	AWSRegion        string
	SESFromEmail     string
	SESFromName      string
	NotifyEmail      string
	AppBaseURL       string
	LogMode          string

	// parseErrs holds malformed numeric and duration values seen by Load
	parseErrs []error
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabasePath:     getEnv("DB_PATH", "./advent.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		CalendarPath:     getEnv("CALENDAR_PATH", ""),
		Timezone:         getEnv("TIMEZONE", "UTC"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionDuration:  getEnvDuration(&errs, "SESSION_DURATION", 720*time.Hour),
		PenaltyThreshold: getEnvInt(&errs, "PENALTY_THRESHOLD", 3),
		PenaltyDuration:  getEnvDuration(&errs, "PENALTY_DURATION", 2*time.Second),
		TimeGateInterval: getEnvDuration(&errs, "TIME_GATE_INTERVAL", time.Minute),
		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "Advent Calendar"),
		NotifyEmail:      getEnv("NOTIFY_EMAIL", ""),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		LogMode:          getEnv("LOG_MODE", "dev"),
	}
	cfg.parseErrs = errs
	return cfg
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return errors.Join(c.parseErrs...)
	}
	switch c.DatabaseType {
	case "sqlite", "sqlite3", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "sqlite3" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
	}
	if c.PenaltyThreshold <= 0 {
		return fmt.Errorf("PENALTY_THRESHOLD must be positive, got %d", c.PenaltyThreshold)
	}
	if c.PenaltyDuration <= 0 {
		return fmt.Errorf("PENALTY_DURATION must be positive, got %s", c.PenaltyDuration)
	}
	if c.TimeGateInterval <= 0 {
		return fmt.Errorf("TIME_GATE_INTERVAL must be positive, got %s", c.TimeGateInterval)
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.SessionDuration)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for key, addr := range map[string]string{"SES_FROM_EMAIL": c.SESFromEmail, "NOTIFY_EMAIL": c.NotifyEmail} {
		if addr == "" {
			continue
		}
		if err := validation.ValidateEmail(addr); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

// Location resolves the configured time zone for unlock dates
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer variable. A malformed value is recorded in errs
// and the default is returned.
func getEnvInt(errs *[]error, key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: not an integer", key, value))
		return defaultValue
	}
	return n
}

func getEnvDuration(errs *[]error, key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return d
}
