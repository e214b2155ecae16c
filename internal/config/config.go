package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Unconfigured is the sentinel credential value that routes every call for a
// provider to its fallback or disabled path.
const Unconfigured = "unconfigured"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Search     ProviderConfig
	Status     ProviderConfig
	Rates      RatesConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	Booking    BookingConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ProviderConfig holds one external provider's credentials and limits
type ProviderConfig struct {
	APIKey     string
	APIBase    string
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
	Enabled    bool
}

// RatesConfig holds fixed currency conversion rates
type RatesConfig struct {
	USDToMAD float64
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// RedisConfig holds the offer snapshot store connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// BookingConfig holds booking flow settings
type BookingConfig struct {
	SnapshotTTL     time.Duration
	ReferencePrefix string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Env    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	rateLimit := getEnvAsFloat("PROVIDER_RATE_PER_SEC", 2)
	rateBurst := getEnvAsInt("PROVIDER_RATE_BURST", 4)

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 5055),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Search: ProviderConfig{
			APIKey:     getEnv("SEARCH_API_KEY", Unconfigured),
			APIBase:    getEnv("SEARCH_API_BASE", "https://serpapi.com"),
			Timeout:    time.Duration(getEnvAsInt("SEARCH_TIMEOUT", 15)) * time.Second,
			RatePerSec: rateLimit,
			RateBurst:  rateBurst,
		},
		Status: ProviderConfig{
			APIKey:     getEnv("FLIGHT_STATUS_API_KEY", Unconfigured),
			APIBase:    getEnv("FLIGHT_STATUS_API_BASE", "http://api.aviationstack.com"),
			Timeout:    time.Duration(getEnvAsInt("STATUS_TIMEOUT", 10)) * time.Second,
			RatePerSec: rateLimit,
			RateBurst:  rateBurst,
		},
		Rates: RatesConfig{
			USDToMAD: getEnvAsFloat("USD_TO_MAD_RATE", 10.0),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", ""),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "travel_reference"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			SnapshotTTL:     time.Duration(getEnvAsInt("OFFER_SNAPSHOT_TTL", 1800)) * time.Second,
			ReferencePrefix: getEnv("BOOKING_REFERENCE_PREFIX", "RSV"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Env:    getEnv("APP_ENV", "development"),
		},
	}

	cfg.Search.Enabled = isConfigured(cfg.Search.APIKey)
	cfg.Status.Enabled = isConfigured(cfg.Status.APIKey)
	cfg.PostgreSQL.Enabled = cfg.PostgreSQL.DSN != "" || cfg.PostgreSQL.Host != ""
	cfg.Redis.Enabled = cfg.Redis.Addr != ""

	if cfg.Rates.USDToMAD <= 0 {
		return nil, fmt.Errorf("USD_TO_MAD_RATE must be positive, got %f", cfg.Rates.USDToMAD)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

func isConfigured(key string) bool {
	return key != "" && key != Unconfigured
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
