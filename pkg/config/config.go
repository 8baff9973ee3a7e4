// Package config loads apiguide settings from YAML.
//
// Lookup order: .apiguide/config.yaml in the nearest enclosing project,
// then $XDG_CONFIG_HOME/apiguide/config.yaml. Environment variables
// override file values; command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// DefaultCopyAck is the copy acknowledgment window.
const DefaultCopyAck = 2000 * time.Millisecond

// Config holds user preferences.
type Config struct {
	// DefaultGuide is the guide opened on start (quick, detailed, practical).
	DefaultGuide string `yaml:"default_guide,omitempty" json:"default_guide,omitempty"`

	// ContentDir replaces the built-in guides with YAML files from a
	// directory. Relative paths resolve against the project root.
	ContentDir string `yaml:"content_dir,omitempty" json:"content_dir,omitempty"`

	// Watch reloads ContentDir when its files change.
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`

	// ShowTOC opens guides with the table of contents visible.
	ShowTOC bool `yaml:"show_toc,omitempty" json:"show_toc,omitempty"`

	// CopyAckMS is how long "copied" stays visible (default 2000).
	CopyAckMS int `yaml:"copy_ack_ms,omitempty" json:"copy_ack_ms,omitempty"`

	// Source is the file the config was read from ("" for defaults).
	Source string `yaml:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultGuide: "quick",
		CopyAckMS:    int(DefaultCopyAck / time.Millisecond),
	}
}

// CopyAck returns the acknowledgment window, falling back to the default
// for unset or non-positive values.
func (c Config) CopyAck() time.Duration {
	if c.CopyAckMS <= 0 {
		return DefaultCopyAck
	}
	return time.Duration(c.CopyAckMS) * time.Millisecond
}

// Load reads a config file, layering it over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path

	if cfg.ContentDir != "" {
		cfg.ContentDir = expandHome(cfg.ContentDir)
		if !filepath.IsAbs(cfg.ContentDir) {
			// .apiguide/config.yaml -> project root
			root := filepath.Dir(filepath.Dir(path))
			cfg.ContentDir = filepath.Join(root, cfg.ContentDir)
		}
	}
	return cfg, nil
}

// Discover finds and loads the nearest config. A missing config is not an
// error: defaults are returned.
func Discover() (Config, error) {
	var candidates []string
	if root, ok := DetectProjectRoot(); ok {
		candidates = append(candidates, filepath.Join(root, DirName, FileName))
	}
	if p := userConfigPath(); p != "" {
		candidates = append(candidates, p)
	}

	for _, path := range candidates {
		cfg, err := Load(path)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// ApplyEnv overrides fields from APIGUIDE_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("APIGUIDE_GUIDE")); v != "" {
		c.DefaultGuide = v
	}
	if v := strings.TrimSpace(getenv("APIGUIDE_CONTENT_DIR")); v != "" {
		c.ContentDir = expandHome(v)
	}
}
