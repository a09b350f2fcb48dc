package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != lorcana.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Reload.Retries != 3 || cfg.Reload.RetryDelay != "5s" {
		t.Errorf("unexpected reload defaults: %+v", cfg.Reload)
	}
}

func TestLoadFrom_ParsesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://localhost:8080/api"
wire_version = 1

[app]
debug_mode = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.WireVersion != 1 || !cfg.App.DebugMode {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.API.Timeout != "10s" {
		t.Errorf("unset field should keep default, Timeout = %q", cfg.API.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }, true},
		{"bad retry delay", func(c *Config) { c.Reload.RetryDelay = "later" }, true},
		{"bad wire version", func(c *Config) { c.API.WireVersion = 7 }, true},
		{"negative retries", func(c *Config) { c.Reload.Retries = -1 }, true},
		{"negative rate limit", func(c *Config) { c.API.RateLimitMs = -5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "3s"
	cfg.API.RateLimitMs = 50

	cc, err := cfg.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if cc.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cc.Timeout)
	}
	if cc.RateLimitDelay != 50*time.Millisecond {
		t.Errorf("RateLimitDelay = %v", cc.RateLimitDelay)
	}
	if cc.WireVersion != lorcana.WireV2 {
		t.Errorf("WireVersion = %v", cc.WireVersion)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[app]\ndebug_mode = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan *Config, 1)
	go func() {
		_ = Watch(ctx, path, nil, func(cfg *Config) {
			select {
			case changed <- cfg:
			default:
			}
		})
	}()

	// Give the watcher a moment to install before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[app]\ndebug_mode = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changed:
		if !cfg.App.DebugMode {
			t.Error("reloaded config should have debug_mode = true")
		}
	case <-ctx.Done():
		t.Fatal("watcher did not report the change in time")
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, filepath.Join(dir, "config.toml"), nil, func(*Config) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not stop after cancel")
	}
}
