package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name: "Success with minimal required config",
			envVars: map[string]string{
				"MONGO_URI":    "mongodb://localhost:27017",
				"JWT_SECRET":   "test-secret",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"SERVER_HOST":     "localhost",
				"PORT":            "9090",
				"MONGO_URI":       "mongodb://db.example.com:27017",
				"MONGO_DATABASE":  "storetest",
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "console",
				"JWT_SECRET":      "test-secret",
				"TOKEN_TTL_HOURS": "24",
				"IMAGE_BUCKET":    "test-bucket",
				"IMAGE_REGION":    "eu-west-1",
				"IMAGE_KEY":       "key",
				"IMAGE_SECRET":    "secret",
			},
			expectError: false,
		},
		{
			name: "Error - missing Mongo URI",
			envVars: map[string]string{
				"JWT_SECRET":   "test-secret",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: true,
			errorMsg:    "MONGO_URI is required",
		},
		{
			name: "Error - missing JWT secret",
			envVars: map[string]string{
				"MONGO_URI":    "mongodb://localhost:27017",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: true,
			errorMsg:    "JWT secret is required",
		},
		{
			name: "Error - missing image bucket",
			envVars: map[string]string{
				"MONGO_URI":  "mongodb://localhost:27017",
				"JWT_SECRET": "test-secret",
			},
			expectError: true,
			errorMsg:    "image bucket is required",
		},
		{
			name: "Error - invalid server port",
			envVars: map[string]string{
				"PORT":         "99999",
				"MONGO_URI":    "mongodb://localhost:27017",
				"JWT_SECRET":   "test-secret",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL":    "invalid",
				"MONGO_URI":    "mongodb://localhost:27017",
				"JWT_SECRET":   "test-secret",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT":   "xml",
				"MONGO_URI":    "mongodb://localhost:27017",
				"JWT_SECRET":   "test-secret",
				"IMAGE_BUCKET": "test-bucket",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}

			// Clean up
			os.Clearenv()
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("MONGO_URI", "mongodb://localhost:27017")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("IMAGE_BUCKET", "test-bucket")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "coze_store", cfg.Mongo.Database)
	assert.Equal(t, 8*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "us-east-1", cfg.Images.Region)
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected string
	}{
		{
			name: "Standard configuration",
			config: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			expected: "localhost:8080",
		},
		{
			name: "All interfaces",
			config: ServerConfig{
				Host: "0.0.0.0",
				Port: 9090,
			},
			expected: "0.0.0.0:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.Address())
		})
	}
}

func TestImageStoreConfig_PublicURL(t *testing.T) {
	cfg := ImageStoreConfig{Bucket: "shop-images", Region: "eu-west-1"}
	assert.Equal(t, "https://shop-images.s3.eu-west-1.amazonaws.com", cfg.PublicURL())

	cfg.BaseURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com", cfg.PublicURL())
}

func TestGetEnv(t *testing.T) {
	os.Clearenv()

	// Test with environment variable set
	os.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnv("TEST_VAR", "default"))

	// Test with environment variable not set
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))

	os.Clearenv()
}

func TestGetEnvAsInt(t *testing.T) {
	os.Clearenv()

	// Test with valid integer
	os.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))

	// Test with invalid integer (should return default)
	os.Setenv("TEST_INVALID", "not_a_number")
	assert.Equal(t, 10, getEnvAsInt("TEST_INVALID", 10))

	// Test with non-existent variable
	assert.Equal(t, 10, getEnvAsInt("NON_EXISTENT_INT", 10))

	os.Clearenv()
}
