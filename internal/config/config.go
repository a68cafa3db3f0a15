package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Bus      BusConfig
	Customer CustomerConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// BusConfig holds Redis-streams message bus configuration
type BusConfig struct {
	Addr           string
	RequestStream  string
	ResponseStream string
	AccountStream  string
	ConsumerGroup  string
	ConsumerName   string
	BlockTimeout   time.Duration
	Enabled        bool
}

// CustomerConfig holds the customer-lookup service client configuration
type CustomerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	// TransferTargetPolicy enforces the movement-limit policy on the target
	// account of a transfer as well as the source.
	TransferTargetPolicy bool
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "accountsvc"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Bus: BusConfig{
			Addr:           getEnv("BUS_ADDR", "localhost:6379"),
			RequestStream:  getEnv("BUS_REQUEST_STREAM", "account-validation-request"),
			ResponseStream: getEnv("BUS_RESPONSE_STREAM", "account-validation-response"),
			AccountStream:  getEnv("BUS_ACCOUNT_STREAM", "account-opened"),
			ConsumerGroup:  getEnv("BUS_CONSUMER_GROUP", "account-service"),
			ConsumerName:   getEnv("BUS_CONSUMER_NAME", "account-service-1"),
			BlockTimeout:   getEnvAsDuration("BUS_BLOCK_TIMEOUT", "5s"),
			Enabled:        getEnvAsBool("BUS_ENABLED", true),
		},
		Customer: CustomerConfig{
			BaseURL: getEnv("CUSTOMER_SERVICE_URL", "http://localhost:8081"),
			Timeout: getEnvAsDuration("CUSTOMER_SERVICE_TIMEOUT", "5s"),
		},
		App: AppConfig{
			TransferTargetPolicy: getEnvAsBool("TRANSFER_TARGET_POLICY", true),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Bus.Enabled {
		if c.Bus.Addr == "" {
			return fmt.Errorf("bus address cannot be empty when the bus is enabled")
		}
		if c.Bus.RequestStream == "" || c.Bus.ResponseStream == "" {
			return fmt.Errorf("bus stream names cannot be empty when the bus is enabled")
		}
		if c.Bus.ConsumerGroup == "" || c.Bus.ConsumerName == "" {
			return fmt.Errorf("bus consumer identity cannot be empty when the bus is enabled")
		}
	}

	if c.Customer.BaseURL == "" {
		return fmt.Errorf("customer service URL cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
