package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string
	DataDir      string
	CacheSize    int
	CacheTTL     time.Duration

	// AMQP notification publisher (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Ledger
	CarryOverInterval time.Duration
	AdviceLimit       int
	MinimalBackupSize int

	LogLevel string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finledger.db"),
		DataDir:      getEnv("DATA_DIR", "data"),
		CacheSize:    getEnvInt("CACHE_SIZE", 128),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		CarryOverInterval: getEnvDuration("CARRYOVER_INTERVAL", time.Hour),
		AdviceLimit:       getEnvInt("ADVICE_LIMIT", 3),
		MinimalBackupSize: getEnvInt("MINIMAL_BACKUP_SIZE", 10),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must be positive when cache is enabled", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CarryOverInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid carry-over interval %v: must be at least 1 minute", c.CarryOverInterval))
	} else if c.CarryOverInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid carry-over interval %v: must be at most 24 hours", c.CarryOverInterval))
	}
	// the cache is per process; a shorter ttl makes every carry-over tick
	// read what other processes wrote to the same database
	if c.CacheSize > 0 && c.CacheTTL >= c.CarryOverInterval {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must be shorter than the carry-over interval %v", c.CacheTTL, c.CarryOverInterval))
	}

	if c.AdviceLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid advice limit %d: must be at least 1", c.AdviceLimit))
	}
	if c.MinimalBackupSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid minimal backup size %d: must be at least 1", c.MinimalBackupSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
