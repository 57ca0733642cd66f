// Package config provides configuration management for DeepWrite with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (DEEPWRITE_* prefix)
//  3. Project config (.deepwrite.yaml in the working directory)
//  4. Global config (~/.deepwrite/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for DeepWrite.
type Config struct {
	// Gateway contains settings for the persistence gateway REST API.
	Gateway GatewayConfig `yaml:"gateway" json:"gateway" mapstructure:"gateway"`

	// AI contains settings for the text generation and analysis service.
	AI AIConfig `yaml:"ai" json:"ai" mapstructure:"ai"`

	// Image contains settings for image generation and editing.
	Image ImageConfig `yaml:"image" json:"image" mapstructure:"image"`

	// Logging contains settings for log output.
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// GatewayConfig contains settings for the backend persistence gateway.
// The gateway owns project records and the topic generate/analyze/confirm
// endpoints; DeepWrite itself persists nothing locally.
type GatewayConfig struct {
	// BaseURL is the gateway API root, e.g. "http://localhost:8080/api/core/v1".
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Timeout is the maximum duration for a single gateway request.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// UserID optionally scopes project listing to one user.
	UserID int64 `yaml:"user_id" json:"user_id" mapstructure:"user_id"`
}

// AIConfig contains settings for the generation/analysis service.
type AIConfig struct {
	// BaseURL is the generation service endpoint root.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Model is the text model used for topics, outlines, rewrites, and critique.
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKeyEnvVar names the environment variable holding the API key.
	// The key itself is never stored in config files.
	APIKeyEnvVar string `yaml:"api_key_env_var" json:"api_key_env_var" mapstructure:"api_key_env_var"`

	// Timeout is the maximum duration for a single generation request.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// ImageConfig contains settings for image generation and editing.
type ImageConfig struct {
	// GenerateModel is the model used for image generation.
	GenerateModel string `yaml:"generate_model" json:"generate_model" mapstructure:"generate_model"`

	// EditModel is the model used for image editing.
	EditModel string `yaml:"edit_model" json:"edit_model" mapstructure:"edit_model"`

	// DefaultSize is the image quality requested when none is specified.
	// One of "1K", "2K", "4K".
	DefaultSize string `yaml:"default_size" json:"default_size" mapstructure:"default_size"`

	// AspectRatio is the aspect ratio for generated figures. Papers default
	// to "4:3".
	AspectRatio string `yaml:"aspect_ratio" json:"aspect_ratio" mapstructure:"aspect_ratio"`

	// Timeout is the maximum duration for a single image request.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// LoggingConfig contains settings for log output.
type LoggingConfig struct {
	// File enables writing logs to ~/.deepwrite/logs/deepwrite.log.
	File bool `yaml:"file" json:"file" mapstructure:"file"`

	// MaxSizeMB is the log file size at which rotation occurs.
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated log files to retain.
	MaxBackups int `yaml:"max_backups" json:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is the maximum age of rotated log files.
	MaxAgeDays int `yaml:"max_age_days" json:"max_age_days" mapstructure:"max_age_days"`
}
