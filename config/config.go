// Package config handles loading and managing application configuration
// from YAML files, an optional .env file, and environment variable
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	Port            int      `yaml:"port"`
	DataDir         string   `yaml:"data_dir"`
	LogLevel        string   `yaml:"log_level"`
	DefaultSize     int      `yaml:"default_size"`
	MaxSize         int      `yaml:"max_size"`
	MaxContent      int      `yaml:"max_content"`
	ErrorCorrection string   `yaml:"error_correction"`
	HistoryEnabled  bool     `yaml:"history_enabled"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Port:            8090,
		DataDir:         filepath.Join(homeDir, ".qrimage"),
		LogLevel:        "info",
		DefaultSize:     250,
		MaxSize:         4096,
		MaxContent:      2048,
		ErrorCorrection: "medium",
		HistoryEnabled:  true,
		ReadTimeout:     Duration{30 * time.Second},
		WriteTimeout:    Duration{60 * time.Second},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first, then environment variables with the QRIMG_ prefix
// override any file or default values.
func Load(path string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRIMG_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRIMG_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRIMG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRIMG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRIMG_DEFAULT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultSize = n
		}
	}
	if v := os.Getenv("QRIMG_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSize = n
		}
	}
	if v := os.Getenv("QRIMG_MAX_CONTENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxContent = n
		}
	}
	if v := os.Getenv("QRIMG_ERROR_CORRECTION"); v != "" {
		cfg.ErrorCorrection = v
	}
	if v := os.Getenv("QRIMG_HISTORY_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.HistoryEnabled = true
		case "false", "0", "no":
			cfg.HistoryEnabled = false
		}
	}
}

// validate rejects configurations that would make every request fail.
func (c *Config) validate() error {
	if c.DefaultSize <= 0 {
		return fmt.Errorf("default_size must be positive, got %d", c.DefaultSize)
	}
	if c.MaxSize > 0 && c.DefaultSize > c.MaxSize {
		return fmt.Errorf("default_size %d exceeds max_size %d", c.DefaultSize, c.MaxSize)
	}
	return nil
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
