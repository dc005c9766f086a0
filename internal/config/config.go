package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	APIID   int64
	APIHash string
	Phone   string

	DatabaseDirectory string // TDLib local database
	FilesDirectory    string // TDLib downloaded files
	EncryptionKey     string

	MessageLog     string
	ResolveTimeout time.Duration
	QueueSize      int
	HTTPAddr       string

	Database DatabaseConfig
}

// DatabaseConfig holds message archive connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	apiID, err := getEnvInt64("API_ID", 0)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt64("QUEUE_SIZE", 0)
	if err != nil {
		return nil, err
	}
	resolveTimeout, err := getEnvDuration("RESOLVE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIID:             apiID,
		APIHash:           os.Getenv("API_HASH"),
		Phone:             os.Getenv("PHONE"),
		DatabaseDirectory: getEnv("TD_DATABASE_DIRECTORY", "tdlib"),
		FilesDirectory:    getEnv("TD_FILES_DIRECTORY", "tdlib"),
		EncryptionKey:     os.Getenv("TD_ENCRYPTION_KEY"),
		MessageLog:        getEnv("MESSAGE_LOG", "messages.log"),
		ResolveTimeout:    resolveTimeout,
		QueueSize:         int(queueSize),
		HTTPAddr:          getEnv("HTTP_ADDR", "127.0.0.1:8000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "teleterm"),
			User:     getEnv("DB_USER", "teleterm"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	return cfg, nil
}

// Validate checks the fields a session cannot start without. The web
// console receives credentials over its socket, so validation is separate
// from Load.
func (c *Config) Validate() error {
	if c.APIID == 0 {
		return fmt.Errorf("API_ID is required")
	}
	if c.APIHash == "" {
		return fmt.Errorf("API_HASH is required")
	}
	return nil
}

// ArchiveEnabled reports whether the message archive is configured
func (c *Config) ArchiveEnabled() bool {
	return c.Database.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s: %w", key, err)
	}
	return parsed, nil
}
