package errors

import "errors"

// ErrorInfo holds a user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing
// messages. This single source of truth keeps UserMessage and Actionable in sync.
// Using a slice (not a map) because errors.Is() requires error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrInvalidProjectID,
		info: ErrorInfo{
			Message: "This task is not linked to a gateway project yet.",
			Action:  "Re-open the task so a project can be created, then retry.",
		},
	},
	{
		err: ErrEmptyInstruction,
		info: ErrorInfo{
			Message: "A rewrite instruction is required.",
			Action:  "Describe how the section should change, then regenerate.",
		},
	},
	{
		err: ErrNoAnalysisInput,
		info: ErrorInfo{
			Message: "Nothing to analyze yet.",
			Action:  "Upload a proposal document or enter a topic summary first.",
		},
	},
	{
		err: ErrNoTopicSelected,
		info: ErrorInfo{
			Message: "No topic candidate is selected.",
			Action:  "Pick one of the generated topics before confirming.",
		},
	},
	{
		err: ErrGatewayRequest,
		info: ErrorInfo{
			Message: "The persistence gateway could not be reached.",
			Action:  "Check your network connection and the gateway base URL, then retry.",
		},
	},
	{
		err: ErrGenerationRequest,
		info: ErrorInfo{
			Message: "The generation service call failed.",
			Action:  "Check your network connection and API key, then retry.",
		},
	},
	{
		err: ErrMalformedResponse,
		info: ErrorInfo{
			Message: "The service returned content that could not be parsed.",
			Action:  "Retry the operation; repeated failures may indicate a service issue.",
		},
	},
	{
		err: ErrImageUnavailable,
		info: ErrorInfo{
			Message: "The image service returned no image.",
			Action:  "Adjust the prompt and retry.",
		},
	},
	{
		err: ErrInvalidImageSize,
		info: ErrorInfo{
			Message: "Unsupported image size.",
			Action:  "Use one of: 1K, 2K, 4K.",
		},
	},
	{
		err: ErrAPIKeyMissing,
		info: ErrorInfo{
			Message: "The generation-service API key is not configured.",
			Action:  "Set the API key environment variable (see 'deepwrite config show').",
		},
	},
}

// UserMessage returns a user-friendly message for a known sentinel error.
// Unknown errors fall back to the raw error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Message
		}
	}
	return err.Error()
}

// Actionable returns the suggested action for a known sentinel error,
// or an empty string if no action is recorded.
func Actionable(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Action
		}
	}
	return ""
}
