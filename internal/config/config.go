package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

// Config represents the application configuration.
type Config struct {
	// API client configuration
	API APIConfig `toml:"api"`

	// Collection reload configuration
	Reload ReloadConfig `toml:"reload"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// APIConfig contains catalog service settings.
type APIConfig struct {
	BaseURL     string `toml:"base_url"`      // Catalog service root URL
	Timeout     string `toml:"timeout"`       // Request timeout (e.g., "10s")
	WireVersion int    `toml:"wire_version"`  // Wishlist endpoint generation (1 or 2)
	RateLimitMs int    `toml:"rate_limit_ms"` // Minimum spacing between requests
}

// ReloadConfig contains list-load retry settings.
type ReloadConfig struct {
	Retries    int    `toml:"retries"`     // Extra attempts when the service is unavailable
	RetryDelay string `toml:"retry_delay"` // Pause before each retry (e.g., "5s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     lorcana.DefaultBaseURL,
			Timeout:     "10s",
			WireVersion: int(lorcana.WireV2),
			RateLimitMs: 100,
		},
		Reload: ReloadConfig{
			Retries:    3,
			RetryDelay: "5s",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Path returns the path to the configuration file, creating the config
// directory if needed.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".lorcana-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Reload.RetryDelay); err != nil {
		return fmt.Errorf("invalid reload retry delay %q: %w", c.Reload.RetryDelay, err)
	}
	if c.API.WireVersion != int(lorcana.WireV1) && c.API.WireVersion != int(lorcana.WireV2) {
		return fmt.Errorf("invalid wire version %d: must be 1 or 2", c.API.WireVersion)
	}
	if c.API.RateLimitMs < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", c.API.RateLimitMs)
	}
	if c.Reload.Retries < 0 {
		return fmt.Errorf("reload retries cannot be negative: %d", c.Reload.Retries)
	}
	return nil
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// GetRetryDelay returns the reload retry delay as a duration.
func (c *Config) GetRetryDelay() (time.Duration, error) {
	return time.ParseDuration(c.Reload.RetryDelay)
}

// ClientConfig converts the API section into a catalog client config.
func (c *Config) ClientConfig() (*lorcana.ClientConfig, error) {
	timeout, err := c.GetAPITimeout()
	if err != nil {
		return nil, err
	}
	return &lorcana.ClientConfig{
		BaseURL:        c.API.BaseURL,
		Timeout:        timeout,
		WireVersion:    lorcana.WireVersion(c.API.WireVersion),
		RateLimitDelay: time.Duration(c.API.RateLimitMs) * time.Millisecond,
	}, nil
}
