// Package constants provides centralized constant values used throughout DeepWrite.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by DeepWrite for organizing data.
const (
	// DeepWriteHome is the hidden directory name where DeepWrite stores its data.
	// This directory is created in the user's home directory.
	DeepWriteHome = ".deepwrite"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.deepwrite/logs/deepwrite.log
	CLILogFileName = "deepwrite.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global DeepWrite configuration file.
	// This file is located in the DeepWrite home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file.
	// This file is located in the working directory.
	ProjectConfigName = ".deepwrite.yaml"

	// EnvPrefix is the prefix for DeepWrite environment variables.
	EnvPrefix = "DEEPWRITE"
)

// Timeout configurations for external service calls.
const (
	// DefaultGenerationTimeout is the default maximum duration for a single
	// text-generation request (topics, outline, rewrite, critique).
	DefaultGenerationTimeout = 2 * time.Minute

	// DefaultImageTimeout is the default maximum duration for image
	// generation and editing requests, which run noticeably longer than text.
	DefaultImageTimeout = 5 * time.Minute

	// DefaultGatewayTimeout is the default maximum duration for a single
	// persistence-gateway request.
	DefaultGatewayTimeout = 30 * time.Second
)

// Retry configuration defaults for recoverable operations.
const (
	// MaxRetryAttempts is the maximum number of retry attempts for
	// rate-limited external calls.
	MaxRetryAttempts = 3

	// InitialBackoff is the initial backoff duration before the first retry.
	// Subsequent retries use exponential backoff based on this value.
	InitialBackoff = 1 * time.Second
)

// Default task titles. The UI shows these until a topic is confirmed.
const (
	// DefaultTaskTitle is the placeholder title for the initial task.
	DefaultTaskTitle = "Untitled Thesis"

	// DefaultNewTaskTitle is the placeholder title for tasks added after the first.
	DefaultNewTaskTitle = "New Untitled Thesis"

	// FallbackExistingTitle is the title recorded when the existing-topic flow
	// confirms without a usable filename or prior task title.
	FallbackExistingTitle = "Custom Thesis Proposal"
)

// TopicCandidateCount is the number of topic candidates requested from the
// generation service in the new-topic flow.
const TopicCandidateCount = 3

// RefinementTextLimit caps the amount of draft text sent for critique.
// Longer drafts are truncated before the request is issued.
const RefinementTextLimit = 5000

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated log file.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)
