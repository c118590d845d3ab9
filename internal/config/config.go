// Package config handles editor configuration loading from TOML files. The
// editor core never parses configuration text itself; it receives a resolved
// Config from here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the resolved editor settings.
type Config struct {
	// TabStop is the rendered width of a tab stop, in columns.
	TabStop int `toml:"tab_stop"`

	// QuitTimes is how many consecutive quit presses a dirty buffer needs.
	QuitTimes int `toml:"quit_times"`

	// MessageDuration is how long status messages stay visible, in seconds.
	MessageDuration int `toml:"message_duration"`

	// ShowLineNumbers toggles the line-number gutter.
	ShowLineNumbers bool `toml:"show_line_numbers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TabStop:         4,
		QuitTimes:       2,
		MessageDuration: 3,
		ShowLineNumbers: true,
	}
}

// MessageTimeout returns MessageDuration as a time.Duration.
func (c *Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageDuration) * time.Second
}

// Load reads configuration from a TOML file, starting from the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.TabStop <= 0 {
		errs = append(errs, fmt.Errorf("tab_stop=%d must be greater than 0", c.TabStop))
	}
	if c.QuitTimes <= 0 {
		errs = append(errs, fmt.Errorf("quit_times=%d must be greater than 0", c.QuitTimes))
	}
	if c.MessageDuration < 0 {
		errs = append(errs, fmt.Errorf("message_duration=%d must not be negative", c.MessageDuration))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Path returns the default configuration file path inside the data dir.
func Path() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the path to the quill data directory (~/.config/quill).
func DataDir() (string, error) {
	if v := os.Getenv("QUILL_CONFIG_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quill"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
