// Package logging provides logging utilities including sensitive data filtering.
// This package contains hooks and utilities for zerolog that help ensure
// API keys and gateway credentials are never written to log files.
package logging

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns contains compiled regular expressions for detecting
// sensitive values. These match the credential formats DeepWrite handles:
// generation-service API keys, gateway bearer tokens, and generic secrets.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Google AI Studio / Gemini API keys
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),

	// OpenAI-style API keys (sk-...)
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),

	// Generic API keys (api_key, apikey, api-key followed by a value)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_.-]{20,}`),

	// Generic secret patterns
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
}

// sensitiveFieldNames contains field names whose values are always redacted.
// Matching is case-insensitive.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level list for reuse
	"api_key",
	"apikey",
	"api-key",
	"auth_token",
	"authorization",
	"bearer",
	"credential",
	"credentials",
	"gemini_api_key",
	"password",
	"secret",
	"token",
}

// SensitiveDataHook is a zerolog hook that flags log entries containing
// sensitive data. Zerolog hooks cannot rewrite the message, so the hook marks
// the entry and the actual filtering happens at call sites via
// FilterSensitiveValue.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces any sensitive matches in s with RedactedValue.
// Use this when logging values that may embed credentials (request URLs,
// config dumps, error strings from HTTP clients).
func FilterSensitiveValue(s string) string {
	out := s
	for _, pattern := range sensitivePatterns {
		out = pattern.ReplaceAllString(out, RedactedValue)
	}
	return out
}

// IsSensitiveFieldName reports whether a config or log field name should have
// its value redacted regardless of content.
func IsSensitiveFieldName(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFieldNames {
		if lower == field || strings.HasSuffix(lower, "_"+field) {
			return true
		}
	}
	return false
}
