// Package config loads server and client configuration from the environment
// and an optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration
type Config struct {
	// Server
	Env             string
	Port            string
	LogLevel        string
	CORSOrigin      string
	ShutdownTimeout time.Duration

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string

	// Reports
	ReportLocation *time.Location
}

// ClientConfig holds configuration for the command line client.
type ClientConfig struct {
	APIURL         string
	SessionFile    string
	RequestTimeout time.Duration
	LogLevel       string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	config := &Config{
		Env:        getEnv("ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "expenses"),
		DBPassword: getEnv("DB_PASSWORD", "expenses"),
		DBName:     getEnv("DB_NAME", "expenses"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "./data/expenses.db"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expenses"),
	}

	var err error
	if config.JWTExpirationDur, err = parseDuration("JWT_EXPIRES_IN", "24h"); err != nil {
		return nil, err
	}
	if config.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	if config.ReportLocation, err = LoadLocation(getEnv("REPORT_TZ", "")); err != nil {
		return nil, fmt.Errorf("invalid REPORT_TZ: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", c.DBDriver)
	}
	if c.Env == "production" && c.JWTSecret == "fallback-secret-key-for-dev-only" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// LoadClient loads the command line client configuration.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cfg := &ClientConfig{
		APIURL:   strings.TrimRight(getEnv("EXPENSES_API_URL", "http://localhost:8080"), "/"),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}

	cfg.SessionFile = getEnv("EXPENSES_SESSION_FILE", "")
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "expensetracker", "session.json")
	}

	timeout, err := parseDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", timeout)
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

// LoadLocation resolves an IANA zone name. An empty name selects the local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
