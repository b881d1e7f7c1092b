package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage backends the persisted store can be configured with.
const (
	StorageMemory   = "memory"
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	// Storage selects the persisted store backend.
	Storage string `yaml:"storage" validate:"required,oneof=memory badger postgres"`
	// DataDir is the BadgerDB directory for the badger backend.
	DataDir string `yaml:"dataDir,omitempty"`
	// DatabaseURL is the connection string for the postgres backend.
	DatabaseURL string `yaml:"databaseURL,omitempty"`
	// PeakThreshold is the inclusive incident count that marks a peak
	// hour. Defaults to 5.
	PeakThreshold int `yaml:"peakThreshold,omitempty" validate:"omitempty,min=1"`
	// DefaultPosition is the position id used when commands take an
	// optional position filter.
	DefaultPosition string `yaml:"defaultPosition,omitempty"`
	// ExportDir is where export files are written. Defaults to the
	// current directory.
	ExportDir string `yaml:"exportDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from patrol_roster_config.yaml
// It looks for the config file in the current directory first, then in the
// user's home directory. A missing file yields the defaults.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no config file exists:
// a badger store in ~/.patrol-roster, default peak threshold.
func Default() *Config {
	dataDir := ".patrol-roster"
	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(homeDir, ".patrol-roster")
	}
	return &Config{
		Storage:       StorageBadger,
		DataDir:       dataDir,
		PeakThreshold: 5,
		ExportDir:     ".",
	}
}

// Validate validates the configuration struct and backend requirements
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Storage {
	case StorageBadger:
		if cfg.DataDir == "" {
			return fmt.Errorf("dataDir is required for badger storage")
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("databaseURL is required for postgres storage")
		}
	}

	return nil
}

// findConfigFile searches for patrol_roster_config.yaml in current
// directory and home directory
func findConfigFile() (string, error) {
	configFileName := "patrol_roster_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
