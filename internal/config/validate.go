package config

import (
	"net/url"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Gateway base URL must be a valid absolute URL
//   - Gateway and AI timeouts must be positive
//   - AI model and API key env var must not be empty
//   - Image default size must be one of 1K, 2K, 4K
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateGatewayConfig(&cfg.Gateway); err != nil {
		return err
	}
	if err := validateAIConfig(&cfg.AI); err != nil {
		return err
	}
	return validateImageConfig(&cfg.Image)
}

// validateGatewayConfig checks gateway-specific configuration values.
func validateGatewayConfig(cfg *GatewayConfig) error {
	if cfg.BaseURL == "" {
		return errors.Wrap(errors.ErrConfigInvalidGateway, "gateway.base_url must not be empty")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || !u.IsAbs() {
		return errors.Wrapf(errors.ErrConfigInvalidGateway,
			"gateway.base_url must be an absolute URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGateway,
			"gateway.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// validateAIConfig checks generation-service configuration values.
func validateAIConfig(cfg *AIConfig) error {
	if cfg.Model == "" {
		return errors.Wrap(errors.ErrConfigInvalidAI, "ai.model must not be empty")
	}
	if cfg.APIKeyEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidAI, "ai.api_key_env_var must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// validateImageConfig checks image-service configuration values.
func validateImageConfig(cfg *ImageConfig) error {
	if !constants.ImageSize(cfg.DefaultSize).Valid() {
		return errors.Wrapf(errors.ErrConfigInvalidImage,
			"image.default_size must be one of 1K, 2K, 4K, got %q", cfg.DefaultSize)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidImage,
			"image.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}
