// Package config loads tiparm settings from TOML or YAML files with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	EnvTerm     = "TIPARM_TERM"
	EnvLogLevel = "TIPARM_LOG_LEVEL"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the settings shared by the CLI and embedders.
type Config struct {
	// Term names the terminal description used for capability lookups.
	Term      string `toml:"term" yaml:"term"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`

	// StaticVariables keeps %PA..%PZ values between renders of one session.
	StaticVariables bool `toml:"static_variables" yaml:"static_variables"`

	// Capabilities are templates that take precedence over the terminal
	// database, keyed by capability name.
	Capabilities map[string]string `toml:"capabilities" yaml:"capabilities"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	term := os.Getenv("TERM")
	if term == "" {
		term = "xterm-256color"
	}
	return &Config{
		Term:      term,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads path over the defaults and applies environment overrides. The
// format follows the extension: .yaml and .yml are YAML, anything else TOML.
// An empty path loads only defaults and environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(content, path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(content []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(content, cfg)
	default:
		_, err := toml.Decode(string(content), cfg)
		return err
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTerm); v != "" {
		c.Term = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Term) == "" {
		return fmt.Errorf("%w: term must not be empty", ErrInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}
	for name, tmpl := range c.Capabilities {
		if name == "" || tmpl == "" {
			return fmt.Errorf("%w: empty capability %q", ErrInvalid, name)
		}
	}
	return nil
}
