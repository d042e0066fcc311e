// Package config loads git-surgeon's optional YAML configuration file.
//
// The file lives at the path reported by paths.ConfigFilePath (by default
// ~/.config/git-surgeon/config.yaml). A missing file is not an error:
// every setting has a usable default so the tool works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/surgeonkit/surgeon/paths"
)

// DefaultPreviewLines is the number of changed lines shown under each
// hunk in the default listing.
const DefaultPreviewLines = 4

// Config holds the user-adjustable settings.
type Config struct {
	// GitBinary overrides the git executable name or path. Empty means
	// "git" resolved from PATH.
	GitBinary string `yaml:"git_binary,omitempty"`

	// Debug enables debug-level logging to the state-directory log file.
	Debug bool `yaml:"debug,omitempty"`

	// PreviewLines is the number of changed lines previewed per hunk in
	// listings. Zero or negative falls back to DefaultPreviewLines.
	PreviewLines int `yaml:"preview_lines,omitempty"`
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	return &Config{
		GitBinary:    "git",
		PreviewLines: DefaultPreviewLines,
	}
}

// Load reads the config file from the standard location. A missing file
// yields defaults; a malformed file is an error so typos don't silently
// disable settings.
func Load() (*Config, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.GitBinary == "" {
		cfg.GitBinary = "git"
	}
	if cfg.PreviewLines <= 0 {
		cfg.PreviewLines = DefaultPreviewLines
	}
	return cfg, nil
}

// Save writes the config to the standard location, creating the config
// directory if needed.
func (c *Config) Save() error {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
