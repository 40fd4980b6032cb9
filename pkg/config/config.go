// Package config loads application configuration from a TOML file.
//
// The config file supplies defaults for the layout engine (algorithm,
// margins, fixed leaf dimensions), the render sinks, and the server. CLI
// flags override file values; absent files yield pure defaults.
//
// Default location: $XDG_CONFIG_HOME/boxtree/config.toml, falling back to
// ~/.config/boxtree/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/model"
)

// Config is the application configuration.
type Config struct {
	// Algorithm is the default layout algorithm name.
	Algorithm string `toml:"algorithm"`

	Margins model.Margins         `toml:"margins"`
	Leaf    model.FixedDimensions `toml:"leaf"`
	Render  RenderConfig          `toml:"render"`
	Server  ServerConfig          `toml:"server"`
}

// RenderConfig configures the render sinks.
type RenderConfig struct {
	// GridSize is the pixel size of one grid unit in raster output.
	GridSize float64 `toml:"grid_size"`

	// Style selects the visual style ("simple" or "blueprint").
	Style string `toml:"style"`
}

// ServerConfig configures `boxtree serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// RedisAddr enables the Redis cache backend when non-empty.
	RedisAddr string `toml:"redis_addr"`

	// MongoURI enables the MongoDB diagram store when non-empty;
	// otherwise diagrams are stored on disk.
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Algorithm: "mixed-flow",
		Margins:   model.DefaultMargins(),
		Render: RenderConfig{
			GridSize: 10,
			Style:    "simple",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "boxtree", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "boxtree", "config.toml"), nil
}

// Load reads the config file at path, layered over Default.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Margins.Margin < 0 || c.Margins.LabelMargin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margins must be non-negative, got margin=%v label_margin=%v",
			c.Margins.Margin, c.Margins.LabelMargin)
	}
	if c.Render.GridSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"render grid_size must be positive, got %v", c.Render.GridSize)
	}
	return nil
}

// Fprint writes the config as TOML, for `boxtree config show`.
func (c Config) Fprint(w *os.File) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
