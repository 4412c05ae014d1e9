// Package config loads wardmap settings from YAML with defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTeamID is the team shown when none is configured.
const DefaultTeamID = 9247354

type Config struct {
	DataDir string        `yaml:"data_dir"`
	TeamID  int64         `yaml:"team_id"`
	Surface SurfaceConfig `yaml:"surface"`
	Server  ServerConfig  `yaml:"server"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

type SurfaceConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type IngestConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	OutDir      string        `yaml:"out_dir"`
	Concurrency int           `yaml:"concurrency"`
	Attempts    int           `yaml:"attempts"`
	Backoff     time.Duration `yaml:"backoff"`   // e.g. "500ms"
	MinDelay    time.Duration `yaml:"min_delay"` // spacing between request starts, e.g. "120ms"
	Compress    bool          `yaml:"compress"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir: "public/matches",
		TeamID:  DefaultTeamID,
		Surface: SurfaceConfig{Width: 800, Height: 800},
		Server:  ServerConfig{Addr: ":8080"},
		Ingest: IngestConfig{
			OutDir:      "matches_full",
			Concurrency: 4,
			Attempts:    3,
			Backoff:     500 * time.Millisecond,
		},
	}
}

// Load reads configPath over the defaults. Keys missing from the file keep their default.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if c.Surface.Width < 0 || c.Surface.Height < 0 {
		return fmt.Errorf("surface size must not be negative")
	}
	if c.Ingest.Concurrency < 0 || c.Ingest.Attempts < 0 {
		return fmt.Errorf("ingest concurrency and attempts must not be negative")
	}
	if c.Ingest.Backoff < 0 || c.Ingest.MinDelay < 0 {
		return fmt.Errorf("ingest delays must not be negative")
	}
	return nil
}
