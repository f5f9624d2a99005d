package config

import (
	"os"
	"strconv"
	"strings"

	"edakit/internal/errors"
	"edakit/internal/stattest"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
	LogLevel string
}

// AnalysisConfig holds defaults for the statistical operations
type AnalysisConfig struct {
	Alpha       float64
	OutlierK    float64
	Workers     int
	MannWhitney stattest.UMethod
}

// DataConfig holds data loading settings
type DataConfig struct {
	Sheet string
}

// DatabaseConfig holds database connection settings. An empty URL disables persistence.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: loadAnalysisConfig(),
		Data:     DataConfig{Sheet: getEnvOrDefault("EDA_SHEET", "")},
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Server:   ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Alpha:       getEnvFloatOrDefault("EDA_ALPHA", 0.05),
		OutlierK:    getEnvFloatOrDefault("EDA_OUTLIER_K", 1.5),
		Workers:     getEnvIntOrDefault("EDA_WORKERS", 1),
		MannWhitney: stattest.UMethod(strings.ToLower(getEnvOrDefault("EDA_MW_METHOD", string(stattest.MethodAsymptotic)))),
	}
}

func validateConfig(config *Config) error {
	a := config.Analysis
	if a.Alpha <= 0 || a.Alpha >= 1 {
		return errors.ConfigInvalid("EDA_ALPHA must be in (0, 1)")
	}
	if a.OutlierK < 0 {
		return errors.ConfigInvalid("EDA_OUTLIER_K must be non-negative")
	}
	if a.Workers < 1 {
		return errors.ConfigInvalid("EDA_WORKERS must be at least 1")
	}
	if _, err := stattest.ParseUMethod(string(a.MannWhitney)); err != nil {
		return errors.ConfigInvalid("EDA_MW_METHOD must be asymptotic or exact")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault keeps unparsable values visible to validation by mapping them to 0.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return intValue
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return -1
		}
		return floatValue
	}
	return defaultValue
}
