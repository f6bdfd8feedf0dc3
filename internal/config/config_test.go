package config

import (
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected log_level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to be false")
	}

	// Rendering defaults
	if cfg.Rendering.Mode != "auto" {
		t.Errorf("Expected rendering mode 'auto', got %s", cfg.Rendering.Mode)
	}
	if cfg.Rendering.DPI != 203 {
		t.Errorf("Expected dpi 203, got %d", cfg.Rendering.DPI)
	}
	if cfg.Rendering.LabelWidthInches != 4.0 || cfg.Rendering.LabelHeightInches != 6.0 {
		t.Errorf("Expected 4x6 default label, got %gx%g",
			cfg.Rendering.LabelWidthInches, cfg.Rendering.LabelHeightInches)
	}
	if cfg.Rendering.FontScaleDivisor != 2 {
		t.Errorf("Expected font_scale_divisor 2, got %d", cfg.Rendering.FontScaleDivisor)
	}

	// Remote defaults
	if cfg.Remote.BaseURL != defaultLabelaryURL {
		t.Errorf("Expected remote base_url %s, got %s", defaultLabelaryURL, cfg.Remote.BaseURL)
	}
	if cfg.Remote.TimeoutSec != 10 {
		t.Errorf("Expected remote timeout 10s, got %d", cfg.Remote.TimeoutSec)
	}

	// Server defaults
	if cfg.Server.Host != "localhost" {
		t.Errorf("Expected server host 'localhost', got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", cfg.Server.Port)
	}

	// Output defaults
	if cfg.Output.Format != "png" {
		t.Errorf("Expected output format 'png', got %s", cfg.Output.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate, got: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"local mode", func(c *Config) { c.Rendering.Mode = "local" }, false},
		{"remote mode", func(c *Config) { c.Rendering.Mode = "remote" }, false},
		{"unknown mode", func(c *Config) { c.Rendering.Mode = "hybrid" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"dpi too low", func(c *Config) { c.Rendering.DPI = 100 }, true},
		{"dpi too high", func(c *Config) { c.Rendering.DPI = 1200 }, true},
		{"zero width", func(c *Config) { c.Rendering.LabelWidthInches = 0 }, true},
		{"oversized label", func(c *Config) { c.Rendering.LabelHeightInches = 13 }, true},
		{"zero divisor", func(c *Config) { c.Rendering.FontScaleDivisor = 0 }, true},
		{"empty remote url", func(c *Config) { c.Remote.BaseURL = "" }, true},
		{"zero remote timeout", func(c *Config) { c.Remote.TimeoutSec = 0 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero request limit", func(c *Config) { c.Server.MaxRequestMB = 0 }, true},
		{"pdf output", func(c *Config) { c.Output.Format = "pdf" }, false},
		{"bad output format", func(c *Config) { c.Output.Format = "gif" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid config, got: %v", err)
			}
		})
	}
}

func TestConfigMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rendering.Mode = "remote"
	if got := cfg.Mode().String(); got != "remote" {
		t.Errorf("Expected mode 'remote', got %s", got)
	}
}
