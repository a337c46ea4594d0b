package config

import (
	"os"
	"strconv"
	"time"

	"beqc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Paths     PathConfig
	Predictor PredictorConfig
	History   HistoryConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths
type PathConfig struct {
	LookupDir    string
	ModelDir     string
	DatabasePath string
}

// PredictorConfig selects and tunes the scoring backend
type PredictorConfig struct {
	Mode         string
	ServiceURL   string
	ServiceToken string
	Timeout      time.Duration
	BandCoverage float64
}

// HistoryConfig holds run-history settings
type HistoryConfig struct {
	Enabled bool
	Limit   int
}

// Predictor modes
const (
	ModeQuantile = "quantile"
	ModeRemote   = "remote"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Paths: PathConfig{
			LookupDir:    getEnvOrDefault("LOOKUP_DIR", "lookup"),
			ModelDir:     getEnvOrDefault("MODEL_DIR", "be_qc_models"),
			DatabasePath: getEnvOrDefault("DATABASE_PATH", "data/beqc.db"),
		},
		Predictor: PredictorConfig{
			Mode:         getEnvOrDefault("PREDICTOR_MODE", ModeQuantile),
			ServiceURL:   getEnvOrDefault("PREDICT_SERVICE_URL", ""),
			ServiceToken: getEnvOrDefault("PREDICT_SERVICE_TOKEN", ""),
			Timeout:      getEnvDurationOrDefault("PREDICT_TIMEOUT", 60*time.Second),
			BandCoverage: getEnvFloatOrDefault("BAND_COVERAGE", 0.90),
		},
		History: HistoryConfig{
			Enabled: getEnvBoolOrDefault("HISTORY_ENABLED", true),
			Limit:   getEnvIntOrDefault("HISTORY_LIMIT", 20),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Predictor.Mode {
	case ModeQuantile, ModeRemote:
	default:
		return errors.ConfigInvalid("PREDICTOR_MODE must be quantile or remote")
	}
	if config.Predictor.Mode == ModeRemote && config.Predictor.ServiceURL == "" {
		return errors.ConfigInvalid("PREDICT_SERVICE_URL is required for remote predictor")
	}
	if c := config.Predictor.BandCoverage; c <= 0 || c >= 1 {
		return errors.ConfigInvalid("BAND_COVERAGE must be between 0 and 1 exclusive")
	}
	if config.Paths.LookupDir == "" {
		return errors.ConfigInvalid("LOOKUP_DIR is required")
	}
	if config.History.Limit < 1 {
		return errors.ConfigInvalid("HISTORY_LIMIT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
