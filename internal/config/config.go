package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/post-recommendations-api/internal/models"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Recommendation engine configuration
	Recommend RecommendConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	// EmbeddingModel is the model whose post_embeddings rows the
	// text-similarity feature joins against.
	EmbeddingModel string
	// RecordTimeout bounds the asynchronous recommendation-record upsert.
	RecordTimeout time.Duration
	// MaxRequestCount caps how many posts one request may ask for.
	MaxRequestCount int
	// FallbackStrategy is retried by the API layer when a strategy returns
	// fewer posts than requested. Fallback lives at this orchestration
	// layer, not inside the engine.
	FallbackStrategy models.StrategyName
	// DisableFallback turns the fallback retry off entirely.
	DisableFallback bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "post_recommendations"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Recommend: RecommendConfig{
			EmbeddingModel:   getEnv("RECOMMEND_EMBEDDING_MODEL", "text-embedding-ada-002"),
			RecordTimeout:    getDurationEnv("RECOMMEND_RECORD_TIMEOUT", 10*time.Second),
			MaxRequestCount:  getIntEnv("RECOMMEND_MAX_REQUEST_COUNT", 50),
			FallbackStrategy: models.StrategyName(getEnv("RECOMMEND_FALLBACK_STRATEGY", string(models.StrategyBestOf))),
			DisableFallback:  getBoolEnv("RECOMMEND_DISABLE_FALLBACK", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Recommend.MaxRequestCount <= 0 {
		return fmt.Errorf("RECOMMEND_MAX_REQUEST_COUNT must be positive")
	}
	if !models.ValidStrategies[c.Recommend.FallbackStrategy] {
		return fmt.Errorf("RECOMMEND_FALLBACK_STRATEGY %q is not a known strategy", c.Recommend.FallbackStrategy)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
