package database

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string

	// Transaction runner tuning
	TxMaxAttempts    int
	TxAttemptTimeout time.Duration
	TxBaseDelay      time.Duration
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		fmt.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "kaban"),
		Password:   getEnv("DB_PASSWORD", "kaban"),
		DBName:     getEnv("DB_NAME", "kaban"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "data/kaban.db"),
	}
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}

	attempts, err := strconv.Atoi(getEnv("TX_MAX_ATTEMPTS", "5"))
	if err != nil || attempts < 1 {
		return nil, fmt.Errorf("invalid TX_MAX_ATTEMPTS: must be a positive integer")
	}
	cfg.TxMaxAttempts = attempts

	if cfg.TxAttemptTimeout, err = time.ParseDuration(getEnv("TX_ATTEMPT_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid TX_ATTEMPT_TIMEOUT: %w", err)
	}
	if cfg.TxBaseDelay, err = time.ParseDuration(getEnv("TX_BASE_DELAY", "20ms")); err != nil {
		return nil, fmt.Errorf("invalid TX_BASE_DELAY: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// TxOptions returns the transaction runner settings from the configuration.
func (c *Config) TxOptions() TxOptions {
	return TxOptions{
		MaxAttempts:    c.TxMaxAttempts,
		AttemptTimeout: c.TxAttemptTimeout,
		BaseDelay:      c.TxBaseDelay,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
