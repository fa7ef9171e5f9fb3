// Package config loads the optional abix.toml tool configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up next to the invocation.
const FileName = "abix.toml"

// Config controls tool behavior outside the reader itself.
type Config struct {
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// OutputConfig controls CLI presentation.
type OutputConfig struct {
	// Color is "auto", "on" or "off".
	Color string `toml:"color"`
	// MaxDiagnostics caps how many diagnostics a run prints.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// CacheConfig controls the parse-summary disk cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no abix.toml exists.
func Default() Config {
	return Config{
		Output: OutputConfig{Color: "auto", MaxDiagnostics: 100},
		Cache:  CacheConfig{Enabled: true},
	}
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("load %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Discover walks from startDir upward looking for abix.toml and loads the
// first hit, falling back to defaults when none exists.
func Discover(startDir string) (Config, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Default(), nil
}

func (c Config) validate() error {
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("output.color must be auto, on or off, got %q", c.Output.Color)
	}
	if c.Output.MaxDiagnostics < 1 {
		return fmt.Errorf("output.max_diagnostics must be positive, got %d", c.Output.MaxDiagnostics)
	}
	return nil
}
