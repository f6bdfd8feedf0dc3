package config

// Config is the complete configuration for zplview. It covers all commands
// (render, check, serve) and supports loading from configuration files,
// environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Rendering pipeline settings
	Rendering RenderingConfig `mapstructure:"rendering" yaml:"rendering" json:"rendering"`

	// Remote rendering service settings
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote" json:"remote"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Output configuration (for render command)
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// RenderingConfig contains interpreter and rasterizer settings.
type RenderingConfig struct {
	// Mode is local, remote, or auto (local with remote fallback).
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// DPI is the default print density when a request does not set one.
	DPI int `mapstructure:"dpi" yaml:"dpi" json:"dpi"`

	// Default label size in inches.
	LabelWidthInches  float64 `mapstructure:"label_width_inches" yaml:"label_width_inches" json:"label_width_inches"`
	LabelHeightInches float64 `mapstructure:"label_height_inches" yaml:"label_height_inches" json:"label_height_inches"`

	// FontScaleDivisor converts declared ^CF heights to pixel face sizes.
	// A calibration constant with no documented derivation; tune against
	// real printed output.
	FontScaleDivisor int `mapstructure:"font_scale_divisor" yaml:"font_scale_divisor" json:"font_scale_divisor"`
}

// RemoteConfig contains settings for the external rendering service.
type RemoteConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxRequestMB    int    `mapstructure:"max_request_mb" yaml:"max_request_mb" json:"max_request_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// OutputConfig contains render command output settings.
type OutputConfig struct {
	// Format is png or pdf.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// File is the output path; empty derives it from the input name.
	File string `mapstructure:"file" yaml:"file" json:"file"`
}
