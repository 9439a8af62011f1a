// Package config loads the lrgb TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mrjoshuak/go-lrgb/compression"
	"github.com/mrjoshuak/go-lrgb/internal/logging"
)

// EnvVar names the environment variable that overrides the config location.
const EnvVar = "LRGB_CONFIG"

// Config is the decoded configuration file.
type Config struct {
	Logging logging.Config
	Compose ComposeConfig
	Output  OutputConfig
	Preview PreviewConfig

	// path is the file the configuration was read from, if any.
	path string
}

type ComposeConfig struct {
	// Workers is the number of goroutines used per composite; 0 uses every CPU.
	Workers int
}

type OutputConfig struct {
	GzipLevel int  `toml:"gzip_level"`
	History   bool `toml:"history"`
}

type PreviewConfig struct {
	// Width of the preview in pixels; 0 keeps the composite size.
	Width  int
	Filter string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Logging: logging.Config{MaxSize: 100, MaxAge: 30, Level: "info"},
		Output: OutputConfig{
			GzipLevel: int(compression.LevelDefault),
			History:   true,
		},
		Preview: PreviewConfig{Filter: "lanczos3"},
	}
}

// Path returns the file the configuration was read from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.path
}

// Locate returns the configuration file path: $LRGB_CONFIG if set, else
// lrgb/config.toml under the user configuration directory.
func Locate() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lrgb", "config.toml"), nil
}

// LoadDefault loads the file returned by Locate. A missing file yields the
// defaults.
func LoadDefault() (*Config, error) {
	path, err := Locate()
	if err != nil {
		return Default(), nil
	}
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Load decodes the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("could not decode TOML config %s: %w", path, err)
	}
	c.path = path
	if err := c.convertPathsToAbsolute(path); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Settings given as relative paths are relative to the TOML file's own
// directory.
func (c *Config) convertPathsToAbsolute(configPath string) error {
	// [logging].logfile
	if c.Logging.Logfile != "" && !filepath.IsAbs(c.Logging.Logfile) {
		abs, err := filepath.Abs(filepath.Join(filepath.Dir(configPath), c.Logging.Logfile))
		if err != nil {
			return fmt.Errorf("error converting logfile setting to absolute path: %w", err)
		}
		c.Logging.Logfile = abs
	}
	return nil
}

var previewFilters = map[string]bool{
	"nearest": true, "bilinear": true, "bicubic": true,
	"mitchell": true, "lanczos2": true, "lanczos3": true,
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := logging.ParseMode(c.Logging.Level); c.Logging.Level != "" && err != nil {
		return err
	}
	if c.Compose.Workers < 0 {
		return fmt.Errorf("compose.workers must not be negative, got %d", c.Compose.Workers)
	}
	if !compression.Level(c.Output.GzipLevel).Valid() {
		return fmt.Errorf("%w: output.gzip_level = %d", compression.ErrInvalidLevel, c.Output.GzipLevel)
	}
	if c.Preview.Width < 0 {
		return fmt.Errorf("preview.width must not be negative, got %d", c.Preview.Width)
	}
	if !previewFilters[c.Preview.Filter] {
		return fmt.Errorf("unknown preview.filter %q", c.Preview.Filter)
	}
	return nil
}
