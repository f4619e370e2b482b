// Package config loads ECG MCP server settings from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigPath      = "ECG_MCP_CONFIG"
	EnvProjectionModel = "ECG_MCP_PROJECTION_MODEL"
	EnvClassifierModel = "ECG_MCP_CLASSIFIER_MODEL"
	EnvExportDir       = "ECG_MCP_EXPORT_DIR"
	EnvWorkers         = "ECG_MCP_WORKERS"
	EnvCacheEntries    = "ECG_MCP_CACHE_ENTRIES"
	EnvLogLevel        = "ECG_MCP_LOG_LEVEL"
)

// DefaultPath is the config file used when EnvConfigPath is unset.
const DefaultPath = "ecg-mcp.yaml"

// MaxWorkers caps per-lead parallelism at one goroutine per model lead.
const MaxWorkers = 12

// Config represents the server configuration loaded from YAML
type Config struct {
	// Model artifact locations
	Models struct {
		// Projection is the path of the dimensionality reduction artifact
		Projection string `yaml:"projection"`

		// Classifier is the path of the discriminant classifier artifact
		Classifier string `yaml:"classifier"`
	} `yaml:"models"`

	// Labels maps raw classifier codes to label names
	Labels struct {
		Codes    map[int]string `yaml:"codes"`
		Fallback string         `yaml:"fallback"`
	} `yaml:"labels"`

	// Processing parameters
	Processing struct {
		// Workers is how many leads are processed at once
		Workers int `yaml:"workers"`

		// MissingLeadPolicy is "zero-pad" or "fail"
		MissingLeadPolicy string `yaml:"missingLeadPolicy"`

		// CacheEntries bounds how many canonical images stay in memory
		CacheEntries int `yaml:"cacheEntries"`
	} `yaml:"processing"`

	// Export parameters
	Export struct {
		// Dir is the base directory for per-run preview exports
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Models.Projection = filepath.Join("models", "projection.yaml")
	cfg.Models.Classifier = filepath.Join("models", "classifier.yaml")

	cfg.Labels.Codes = map[int]string{
		0: "AbnormalHeartbeat",
		1: "MyocardialInfarction",
		2: "Normal",
	}
	cfg.Labels.Fallback = "HistoryOfMI"

	cfg.Processing.Workers = defaultWorkers()
	cfg.Processing.MissingLeadPolicy = "zero-pad"
	cfg.Processing.CacheEntries = 4

	cfg.Export.Dir = filepath.Join(os.TempDir(), "ecg-mcp")
	cfg.Log.Level = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// A configured label table replaces the default one instead of merging
	defaults := cfg.Labels.Codes
	cfg.Labels.Codes = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.Labels.Codes == nil {
		cfg.Labels.Codes = defaults
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Load resolves the config path from the environment, loads the file and
// applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadConfig(getEnv(EnvConfigPath, DefaultPath))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.Normalize()
	return cfg, nil
}

// ApplyEnv overrides settings with any environment variables that are set.
func (c *Config) ApplyEnv() {
	c.Models.Projection = getEnv(EnvProjectionModel, c.Models.Projection)
	c.Models.Classifier = getEnv(EnvClassifierModel, c.Models.Classifier)
	c.Export.Dir = getEnv(EnvExportDir, c.Export.Dir)
	c.Processing.Workers = getEnvAsInt(EnvWorkers, c.Processing.Workers)
	c.Processing.CacheEntries = getEnvAsInt(EnvCacheEntries, c.Processing.CacheEntries)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
}

// Normalize clamps the worker count into [1, MaxWorkers] and keeps at least
// one cached image.
func (c *Config) Normalize() {
	if c.Processing.CacheEntries < 1 {
		c.Processing.CacheEntries = 1
	}
	if c.Processing.Workers <= 0 {
		c.Processing.Workers = defaultWorkers()
	}
	if c.Processing.Workers > MaxWorkers {
		c.Processing.Workers = MaxWorkers
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
