package config

import (
	"fmt"
	"time"

	"github.com/labelkit/zplview/internal/render"
)

const (
	infoLevel = "info"

	defaultLabelaryURL = "http://api.labelary.com"
)

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value. Defaults mirror the most common
// thermal printer setup: 4x6 inch labels at 203 dpi.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: infoLevel,
		Verbose:  false,
		Rendering: RenderingConfig{
			Mode:              "auto",
			DPI:               203,
			LabelWidthInches:  4.0,
			LabelHeightInches: 6.0,
			FontScaleDivisor:  2,
		},
		Remote: RemoteConfig{
			BaseURL:    defaultLabelaryURL,
			TimeoutSec: 10,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxRequestMB:    1,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		Output: OutputConfig{
			Format: render.FormatPNG,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot work
// with. It reports the first violation found.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", infoLevel, "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn, or error)", c.LogLevel)
	}

	if _, err := render.ParseMode(c.Rendering.Mode); err != nil {
		return fmt.Errorf("invalid rendering.mode: %w", err)
	}
	if c.Rendering.DPI < render.MinDPI || c.Rendering.DPI > render.MaxDPI {
		return fmt.Errorf("rendering.dpi %d outside supported range [%d, %d]",
			c.Rendering.DPI, render.MinDPI, render.MaxDPI)
	}
	if c.Rendering.LabelWidthInches <= 0 || c.Rendering.LabelHeightInches <= 0 {
		return fmt.Errorf("label size must be positive, got %gx%g",
			c.Rendering.LabelWidthInches, c.Rendering.LabelHeightInches)
	}
	if c.Rendering.LabelWidthInches > 12 || c.Rendering.LabelHeightInches > 12 {
		return fmt.Errorf("label size too large (max 12 inches), got %gx%g",
			c.Rendering.LabelWidthInches, c.Rendering.LabelHeightInches)
	}
	if c.Rendering.FontScaleDivisor < 1 {
		return fmt.Errorf("rendering.font_scale_divisor must be >= 1, got %d", c.Rendering.FontScaleDivisor)
	}

	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url must not be empty")
	}
	if c.Remote.TimeoutSec < 1 {
		return fmt.Errorf("remote.timeout_sec must be >= 1, got %d", c.Remote.TimeoutSec)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxRequestMB < 1 {
		return fmt.Errorf("server.max_request_mb must be >= 1, got %d", c.Server.MaxRequestMB)
	}

	switch c.Output.Format {
	case render.FormatPNG, render.FormatPDF:
	default:
		return fmt.Errorf("invalid output.format %q (want png or pdf)", c.Output.Format)
	}

	return nil
}

// Mode returns the parsed rendering mode. Call Validate first.
func (c *Config) Mode() render.Mode {
	mode, _ := render.ParseMode(c.Rendering.Mode)
	return mode
}

// RemoteTimeout returns the remote timeout as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSec) * time.Second
}
