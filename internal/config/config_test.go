package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv unsets a key for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_WithDefaults(t *testing.T) {
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "abcdef")
	clearEnv(t,
		"PHONE", "TD_DATABASE_DIRECTORY", "TD_FILES_DIRECTORY", "TD_ENCRYPTION_KEY",
		"MESSAGE_LOG", "RESOLVE_TIMEOUT", "QUEUE_SIZE", "HTTP_ADDR",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, int64(12345), cfg.APIID)
	assert.Equal(t, "abcdef", cfg.APIHash)
	assert.Equal(t, "tdlib", cfg.DatabaseDirectory)
	assert.Equal(t, "tdlib", cfg.FilesDirectory)
	assert.Equal(t, "messages.log", cfg.MessageLog)
	assert.Equal(t, 10*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, "127.0.0.1:8000", cfg.HTTPAddr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "teleterm", cfg.Database.Name)
	assert.Equal(t, "teleterm", cfg.Database.User)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_InvalidAPIID(t *testing.T) {
	t.Setenv("API_ID", "not-a-number")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "API_ID")
}

func TestLoad_InvalidResolveTimeout(t *testing.T) {
	t.Setenv("API_ID", "12345")
	t.Setenv("RESOLVE_TIMEOUT", "banana")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "RESOLVE_TIMEOUT")
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("API_ID", "777")
	t.Setenv("API_HASH", "hash")
	t.Setenv("PHONE", "+15550001111")
	t.Setenv("RESOLVE_TIMEOUT", "3s")
	t.Setenv("QUEUE_SIZE", "64")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "+15550001111", cfg.Phone)
	assert.Equal(t, 3*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		apiID         int64
		apiHash       string
		expectedError string
	}{
		{
			name:          "missing api id",
			apiID:         0,
			apiHash:       "hash",
			expectedError: "API_ID",
		},
		{
			name:          "missing api hash",
			apiID:         123,
			apiHash:       "",
			expectedError: "API_HASH",
		},
		{
			name:    "valid",
			apiID:   123,
			apiHash: "hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIID: tt.apiID, APIHash: tt.apiHash}

			err := cfg.Validate()
			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
