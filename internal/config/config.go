// Package config loads the vdom command's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dannyswat/vdom"
	"github.com/pelletier/go-toml/v2"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds command configuration
type Config struct {
	Author         string `toml:"author"`
	Format         string `toml:"format"` // json | yaml, or any alias vdom.ParseFormat accepts
	Color          string `toml:"color"`  // auto | always | never
	Sanitize       bool   `toml:"sanitize"`
	KeepWhitespace bool   `toml:"keep_whitespace"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return config, nil
}

// Save writes the config to a file, creating its directory if needed.
func (c *Config) Save(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := vdom.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format must be json or yaml: %w", err)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

func defaultConfig() *Config {
	author := os.Getenv("USER")
	if author == "" {
		author = "anonymous"
	}
	return &Config{
		Author: author,
		Format: "json",
		Color:  ColorAuto,
	}
}

// getConfigPath returns the standard config file path
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vdom", "config.toml"), nil
}
