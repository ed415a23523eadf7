// Package config handles configuration loading and validation for comanda.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/comanda/internal/core/styles"
)

// Environment variables that override the config file. Deployments usually
// set only these two.
const (
	EnvAPIURL          = "COMANDA_API_URL"
	EnvNotificationURL = "COMANDA_NOTIFICATION_URL"
	EnvTheme           = "COMANDA_THEME"
)

// Defaults used when the config file is absent or a field is unset.
const (
	DefaultAPIBaseURL      = "http://localhost:3000"
	DefaultStreamURL       = "http://localhost:3003/notifications/stream"
	DefaultRefreshInterval = 30 * time.Second
)

// Config holds the application configuration.
type Config struct {
	API           API           `yaml:"api"`
	Notifications Notifications `yaml:"notifications"`
	Kitchen       Kitchen       `yaml:"kitchen"`
	TUI           TUI           `yaml:"tui"`
}

// API configures the REST gateway endpoint.
type API struct {
	BaseURL string `yaml:"base_url"`
}

// Notifications configures the SSE stream endpoint.
type Notifications struct {
	StreamURL string `yaml:"stream_url"`
}

// Kitchen configures the kitchen board.
type Kitchen struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// TUI configures presentation.
type TUI struct {
	Theme string `yaml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API:           API{BaseURL: DefaultAPIBaseURL},
		Notifications: Notifications{StreamURL: DefaultStreamURL},
		Kitchen:       Kitchen{RefreshInterval: DefaultRefreshInterval},
		TUI:           TUI{Theme: styles.DefaultTheme},
	}
}

// Load reads the config file at path, fills unset fields with defaults, and
// applies environment overrides. A missing file is not an error; defaults
// are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Fall through to env overrides.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.fillDefaults()
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.Notifications.StreamURL == "" {
		c.Notifications.StreamURL = DefaultStreamURL
	}
	if c.Kitchen.RefreshInterval <= 0 {
		c.Kitchen.RefreshInterval = DefaultRefreshInterval
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = styles.DefaultTheme
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvNotificationURL); v != "" {
		c.Notifications.StreamURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.TUI.Theme = v
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}
	if c.Kitchen.RefreshInterval < time.Second {
		return fmt.Errorf("kitchen refresh_interval %s is below the 1s minimum", c.Kitchen.RefreshInterval)
	}
	return nil
}
