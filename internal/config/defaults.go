package config

import "github.com/deepwrite/deepwrite/internal/constants"

// Default configuration values. These mirror setDefaults in load.go;
// keep the two in sync when adding settings.
const (
	// DefaultGatewayBaseURL is the gateway API root used when none is configured.
	DefaultGatewayBaseURL = "http://localhost:8080/api/core/v1"

	// DefaultAIModel is the text model used for topics, outlines, and critique.
	DefaultAIModel = "gemini-2.5-flash"

	// DefaultAPIKeyEnvVar names the environment variable read for the
	// generation-service API key.
	DefaultAPIKeyEnvVar = "GEMINI_API_KEY"

	// DefaultImageGenerateModel is the model used for image generation.
	DefaultImageGenerateModel = "gemini-3-pro-image-preview"

	// DefaultImageEditModel is the model used for image editing.
	DefaultImageEditModel = "gemini-2.5-flash-image"

	// DefaultAspectRatio is the aspect ratio for generated figures.
	DefaultAspectRatio = "4:3"
)

// DefaultConfig returns a Config populated with built-in defaults.
// Load applies the same values through viper; this constructor exists for
// tests and for callers that need a valid config without touching the
// filesystem.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL: DefaultGatewayBaseURL,
			Timeout: constants.DefaultGatewayTimeout,
		},
		AI: AIConfig{
			BaseURL:      "https://generativelanguage.googleapis.com",
			Model:        DefaultAIModel,
			APIKeyEnvVar: DefaultAPIKeyEnvVar,
			Timeout:      constants.DefaultGenerationTimeout,
		},
		Image: ImageConfig{
			GenerateModel: DefaultImageGenerateModel,
			EditModel:     DefaultImageEditModel,
			DefaultSize:   string(constants.ImageSize1K),
			AspectRatio:   DefaultAspectRatio,
			Timeout:       constants.DefaultImageTimeout,
		},
		Logging: LoggingConfig{
			File:       true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}
