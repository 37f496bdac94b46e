package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	PalFile    string `yaml:"-"`
	LUTFile    string `yaml:"lut_file"`
	LUTWidth   int    `yaml:"lut_width"`
	LUTHeight  int    `yaml:"lut_height"`
	Quality    int    `yaml:"quality"`
	Lossless   bool   `yaml:"lossless"`
	OutputFile string `yaml:"catalog_file"`
	Verbose    bool   `yaml:"verbose"`
}

const (
	DefaultLUTHeight = 16
	DefaultQuality   = 90
)

func DefaultConfig() *Config {
	return &Config{
		LUTHeight: DefaultLUTHeight,
		Quality:   DefaultQuality,
	}
}

// Load reads a YAML config file. Fields left out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.LUTHeight == 0 {
		cfg.LUTHeight = defaults.LUTHeight
	}
	if cfg.Quality == 0 {
		cfg.Quality = defaults.Quality
	}
}

func (c *Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	if c.LUTWidth < 0 || c.LUTHeight < 0 {
		return fmt.Errorf("LUT size must not be negative")
	}
	return nil
}
