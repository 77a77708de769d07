package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service.
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Kafka configuration
	Kafka KafkaConfig

	// Weather provider configuration
	Weather WeatherConfig

	// Assignment and catalog behavior
	Venue VenueConfig

	// Waitlist behavior
	Waitlist WaitlistConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// LedgerKeyTTL bounds how long an occupancy key may live in Redis.
	// Holds are only released explicitly; the TTL protects against keys
	// orphaned by a dead process.
	LedgerKeyTTL time.Duration
}

// KafkaConfig holds the messaging channel configuration. Empty brokers
// disable Kafka and fall back to the log-only sender.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// WeatherConfig holds the external weather provider configuration. An
// empty BaseURL disables the provider; the advisor then always answers
// with the neutral favorable default.
type WeatherConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// VenueConfig holds assignment and catalog tuning for the single venue.
type VenueConfig struct {
	Name                   string
	AutoAssignCeiling      int
	HoldRetryLimit         int
	CatalogRefreshInterval time.Duration
	UseRedisLedger         bool
}

// WaitlistConfig holds waitlist timing configuration.
type WaitlistConfig struct {
	ConfirmWindow time.Duration
	SweepInterval time.Duration
	SweepBatch    int
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "tably_db"),
			User:     getEnv("DB_USER", "tably_user"),
			Password: getEnv("DB_PASSWORD", "tably_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			LedgerKeyTTL: getDurationEnv("REDIS_LEDGER_KEY_TTL", 24*time.Hour),
		},

		// Kafka configuration
		Kafka: KafkaConfig{
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{}),
			Topic:   getEnv("KAFKA_WAITLIST_TOPIC", "waitlist-notifications"),
		},

		// Weather provider
		Weather: WeatherConfig{
			BaseURL:   getEnv("WEATHER_BASE_URL", ""),
			Latitude:  getFloatEnv("WEATHER_LATITUDE", 0),
			Longitude: getFloatEnv("WEATHER_LONGITUDE", 0),
			Timeout:   getDurationEnv("WEATHER_TIMEOUT", 5*time.Second),
			CacheTTL:  getDurationEnv("WEATHER_CACHE_TTL", 30*time.Minute),
		},

		// Venue / assignment
		Venue: VenueConfig{
			Name:                   getEnv("VENUE_NAME", "main"),
			AutoAssignCeiling:      getIntEnv("AUTO_ASSIGN_CEILING", 10),
			HoldRetryLimit:         getIntEnv("HOLD_RETRY_LIMIT", 3),
			CatalogRefreshInterval: getDurationEnv("CATALOG_REFRESH_INTERVAL", 5*time.Minute),
			UseRedisLedger:         getBoolEnv("USE_REDIS_LEDGER", false),
		},

		// Waitlist
		Waitlist: WaitlistConfig{
			ConfirmWindow: getDurationEnv("WAITLIST_CONFIRM_WINDOW", 15*time.Minute),
			SweepInterval: getDurationEnv("WAITLIST_SWEEP_INTERVAL", 1*time.Minute),
			SweepBatch:    getIntEnv("WAITLIST_SWEEP_BATCH", 100),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getFloatEnv gets a float environment variable with a fallback value
func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
