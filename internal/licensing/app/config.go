package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/licensing/pkg/jwtx"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./licensing.db)
	DatabaseURL    string // Required for postgres: connection string
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	OperatorAPIKey      string        // Optional: operator endpoints are disabled when empty
	OperatorTokenSecret string        // Optional: HS256 secret, random per process when empty
	OperatorTokenTTL    time.Duration // Optional: operator token lifetime (default: 15m)

	MaxKeyAttempts       int           // Optional: key regeneration bound (default: 5)
	LicenseShelfLife     time.Duration // Optional: unredeemed codes older than this are expired (default: 0, disabled)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	NATSURL string // Optional: events are dropped when empty

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "licensing.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),

		OperatorAPIKey:      os.Getenv("OPERATOR_API_KEY"),
		OperatorTokenSecret: os.Getenv("OPERATOR_TOKEN_SECRET"),
		OperatorTokenTTL:    getEnvDurationOrDefault("OPERATOR_TOKEN_TTL", jwtx.DefaultOperatorTokenTTL),

		MaxKeyAttempts:       getEnvIntOrDefault("LICENSE_MAX_KEY_ATTEMPTS", 5),
		LicenseShelfLife:     getEnvDurationOrDefault("LICENSE_SHELF_LIFE", 0),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		NATSURL: os.Getenv("NATS_URL"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports configuration that would fail at startup anyway.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.OperatorTokenSecret != "" && len(c.OperatorTokenSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("OPERATOR_TOKEN_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.MaxKeyAttempts <= 0 {
		errs = append(errs, errors.New("LICENSE_MAX_KEY_ATTEMPTS must be positive"))
	}
	if c.LicenseShelfLife < 0 {
		errs = append(errs, errors.New("LICENSE_SHELF_LIFE must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
