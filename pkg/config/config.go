package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vicschmitt/blxtract/pkg/delim"
)

// Config represents the blxtract configuration
type Config struct {
	OutputDir  string   `yaml:"output_dir"`
	ChunkSize  int      `yaml:"chunk_size"`
	Rotation   int      `yaml:"rotation"`
	Delimiters []string `yaml:"delimiters"`
	EndMarker  string   `yaml:"end_marker"`
	Decode     bool     `yaml:"decode"`
}

// DefaultConfig returns the configuration for stock BLX files: the four
// known start marks, rotation 3 and the standard end marker.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  ".",
		ChunkSize:  16 * 1024 * 1024,
		Rotation:   delim.BLXRotation,
		Delimiters: append([]string(nil), delim.BLXStartMarks...),
		EndMarker:  delim.BLXEndMarker,
		Decode:     false,
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can drive an extraction run.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if len(c.Delimiters) == 0 {
		return fmt.Errorf("at least one delimiter candidate is required")
	}
	for i, d := range c.Delimiters {
		if d == "" {
			return fmt.Errorf("delimiter %d is empty", i)
		}
	}
	return nil
}

// DelimiterSet builds the scan set from the configured plaintext
// candidates, rotating each by Rotation to obtain the on-disk pattern.
func (c *Config) DelimiterSet() (*delim.Set, error) {
	cands := make([]delim.Delimiter, 0, len(c.Delimiters))
	for _, s := range c.Delimiters {
		d, err := delim.New(s, delim.Rot([]byte(s), c.Rotation))
		if err != nil {
			return nil, fmt.Errorf("delimiter %q: %w", s, err)
		}
		cands = append(cands, d)
	}
	return delim.NewSet(cands...)
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
