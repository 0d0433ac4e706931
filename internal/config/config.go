package config

import (
	"os"
	"strconv"

	"morpho/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Paths    PathConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds store backend settings. An empty URL selects the
// file-backed SQLite store at Path.
type DatabaseConfig struct {
	URL  string
	Path string
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir     string
	ProfilesDir string
	ExportDir   string
}

// AnalysisConfig holds statistical defaults
type AnalysisConfig struct {
	Alpha    float64
	BinWidth float64
	PlotDPI  int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:  getEnvOrDefault("DATABASE_URL", ""),
			Path: getEnvOrDefault("MORPHO_DB_PATH", "morpho.db"),
		},
		Paths: PathConfig{
			DataDir:     getEnvOrDefault("DATA_DIR", "."),
			ProfilesDir: getEnvOrDefault("PROFILES_DIR", "./profiles"),
			ExportDir:   getEnvOrDefault("EXPORT_DIR", "./export"),
		},
		Analysis: AnalysisConfig{
			Alpha:    getEnvFloatOrDefault("ALPHA", 0.05),
			BinWidth: getEnvFloatOrDefault("BIN_WIDTH", 10.0),
			PlotDPI:  getEnvIntOrDefault("PLOT_DPI", 800),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if config.Analysis.BinWidth <= 0 {
		return errors.ConfigInvalid("BIN_WIDTH must be positive")
	}
	if config.Analysis.PlotDPI <= 0 {
		return errors.ConfigInvalid("PLOT_DPI must be positive")
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
