// Package config loads pipeline configuration from environment variables.
// Configuration is passed explicitly into constructors; nothing reads
// ambient global state after Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all pipeline configuration.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Log        LogConfig
	Ingest     IngestConfig
	Validation ValidationConfig
	Sweep      SweepConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// IngestConfig holds ingestion driver configuration.
type IngestConfig struct {
	// Atomic wraps a repository's whole ingestion in one transaction
	// instead of committing per scanner. Default false: a broken scanner
	// report discards only its own findings.
	Atomic bool

	// ScanType recorded on scan runs.
	ScanType string
}

// ValidationConfig holds secret-activity validation configuration.
type ValidationConfig struct {
	// GitHubEndpoint is the token-owner endpoint used for live lookups.
	GitHubEndpoint string
	// GitHubTimeout bounds each live lookup.
	GitHubTimeout time.Duration
	// GitHubRatePerSec / GitHubBurst bound the lookup rate.
	GitHubRatePerSec float64
	GitHubBurst      int
}

// SweepConfig holds corrective-sweep configuration.
type SweepConfig struct {
	// RevalidateLimit caps how many open secret findings one sweep pass
	// re-validates, ordered by severity descending.
	RevalidateLimit int

	// Schedule is the cron expression for the scheduled sweep.
	Schedule string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "repolens-ingest"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "repolens"),
			Password:        getEnv("DB_PASSWORD", "secret"),
			Name:            getEnv("DB_NAME", "repolens"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Ingest: IngestConfig{
			Atomic:   getEnvBool("INGEST_ATOMIC", false),
			ScanType: getEnv("INGEST_SCAN_TYPE", "full"),
		},
		Validation: ValidationConfig{
			GitHubEndpoint:   getEnv("VALIDATION_GITHUB_ENDPOINT", "https://api.github.com/user"),
			GitHubTimeout:    getEnvDuration("VALIDATION_GITHUB_TIMEOUT", 5*time.Second),
			GitHubRatePerSec: getEnvFloat("VALIDATION_GITHUB_RPS", 1),
			GitHubBurst:      getEnvInt("VALIDATION_GITHUB_BURST", 3),
		},
		Sweep: SweepConfig{
			RevalidateLimit: getEnvInt("SWEEP_REVALIDATE_LIMIT", 50),
			Schedule:        getEnv("SWEEP_SCHEDULE", "0 3 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.Validation.GitHubTimeout <= 0 {
		return fmt.Errorf("validation github timeout must be positive")
	}
	if c.Sweep.RevalidateLimit < 0 {
		return fmt.Errorf("sweep revalidate limit must not be negative")
	}
	return nil
}

// Environment helpers.

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
