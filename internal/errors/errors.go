// Package errors provides centralized error handling for DeepWrite.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidProjectID indicates that no numeric gateway project id could
	// be derived from a task id. Operations that need the gateway abort
	// locally with this error before any network call.
	ErrInvalidProjectID = errors.New("invalid project id")

	// ErrTaskNotFound indicates the requested task does not exist in the
	// session collection.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSectionNotFound indicates a section id did not match any outline entry.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmptyInstruction indicates a regeneration request was submitted
	// without an instruction.
	ErrEmptyInstruction = errors.New("instruction cannot be empty")

	// ErrNoAnalysisInput indicates the existing-topic flow was submitted with
	// neither a document nor a prompt.
	ErrNoAnalysisInput = errors.New("document or prompt required")

	// ErrNoTopicSelected indicates confirm was requested with no candidate
	// selected in the new-topic flow.
	ErrNoTopicSelected = errors.New("no topic selected")

	// ErrGatewayRequest indicates a persistence-gateway call failed
	// (network error, non-2xx status, or an error envelope).
	ErrGatewayRequest = errors.New("gateway request failed")

	// ErrGenerationRequest indicates a generation-service call failed.
	ErrGenerationRequest = errors.New("generation request failed")

	// ErrMalformedResponse indicates a service returned content that could
	// not be parsed as the expected structured data.
	ErrMalformedResponse = errors.New("malformed service response")

	// ErrImageUnavailable indicates the image service returned no image data.
	ErrImageUnavailable = errors.New("no image data returned")

	// ErrInvalidImageSize indicates an unsupported image size was requested.
	ErrInvalidImageSize = errors.New("invalid image size")

	// ErrAPIKeyMissing indicates the generation-service API key environment
	// variable is not set.
	ErrAPIKeyMissing = errors.New("api key missing")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGateway indicates an invalid gateway configuration value.
	ErrConfigInvalidGateway = errors.New("invalid gateway configuration")

	// ErrConfigInvalidAI indicates an invalid AI configuration value.
	ErrConfigInvalidAI = errors.New("invalid AI configuration")

	// ErrConfigInvalidImage indicates an invalid image configuration value.
	ErrConfigInvalidImage = errors.New("invalid image configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrMenuCanceled indicates the user canceled an interactive prompt.
	ErrMenuCanceled = errors.New("menu canceled")
)
