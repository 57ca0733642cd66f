package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/constants"
)

// writeConfigFile writes a YAML config into dir and returns its path.
func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromPathsDefaults(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultGatewayBaseURL, cfg.Gateway.BaseURL)
	assert.Equal(t, DefaultAIModel, cfg.AI.Model)
	assert.Equal(t, DefaultAPIKeyEnvVar, cfg.AI.APIKeyEnvVar)
	assert.Equal(t, constants.DefaultGenerationTimeout, cfg.AI.Timeout)
	assert.Equal(t, string(constants.ImageSize1K), cfg.Image.DefaultSize)
}

func TestLoadFromPathsGlobalConfig(t *testing.T) {
	dir := t.TempDir()
	global := writeConfigFile(t, dir, "config.yaml", `
gateway:
  base_url: https://gateway.example.com/api/core/v1
ai:
  model: gemini-2.5-pro
  timeout: 90s
`)

	cfg, err := LoadFromPaths(context.Background(), "", global)
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com/api/core/v1", cfg.Gateway.BaseURL)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	// Untouched values keep defaults.
	assert.Equal(t, DefaultImageGenerateModel, cfg.Image.GenerateModel)
}

func TestLoadFromPathsProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeConfigFile(t, dir, "global.yaml", `
ai:
  model: gemini-2.5-pro
`)
	project := writeConfigFile(t, dir, "project.yaml", `
ai:
  model: gemini-2.5-flash
`)

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
}

func TestLoadFromPathsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	bad := writeConfigFile(t, dir, "config.yaml", `
image:
  default_size: "8K"
`)

	_, err := LoadFromPaths(context.Background(), "", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_size")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"empty gateway url", func(c *Config) { c.Gateway.BaseURL = "" }, "gateway.base_url"},
		{"relative gateway url", func(c *Config) { c.Gateway.BaseURL = "/api" }, "absolute URL"},
		{"zero gateway timeout", func(c *Config) { c.Gateway.Timeout = 0 }, "gateway.timeout"},
		{"empty model", func(c *Config) { c.AI.Model = "" }, "ai.model"},
		{"empty key env var", func(c *Config) { c.AI.APIKeyEnvVar = "" }, "api_key_env_var"},
		{"negative ai timeout", func(c *Config) { c.AI.Timeout = -time.Second }, "ai.timeout"},
		{"bad image size", func(c *Config) { c.Image.DefaultSize = "16K" }, "default_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	require.Error(t, Validate(nil))
}
