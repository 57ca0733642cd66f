// Package genai provides the client for the generative text/image service.
//
// The service is consumed, not owned: every call is an opaque request/response
// exchange and any of them may fail. Failures are categorized with the
// sentinel errors in internal/errors; malformed payloads degrade to empty
// results rather than propagating parse panics into the workflow.
package genai

import (
	"context"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
)

// Service defines the generation operations the workflow controllers need.
// The interface exists so controller tests can substitute a fake.
type Service interface {
	// GenerateOutline produces a structured outline for the given topic.
	// Each item carries a section header and a short overview of the section.
	GenerateOutline(ctx context.Context, title, overview string) ([]domain.OutlineItem, error)

	// RegenerateSection rewrites section content according to an instruction
	// and returns the new content.
	RegenerateSection(ctx context.Context, currentContent, instruction string) (string, error)

	// GenerateRefinementSuggestions reviews the full draft text and returns
	// an ordered list of critique suggestions.
	GenerateRefinementSuggestions(ctx context.Context, fullText string) ([]domain.Suggestion, error)

	// GenerateImage produces an image for the prompt at the requested size.
	// The returned string is a data URI; empty means no image was produced.
	GenerateImage(ctx context.Context, prompt string, size constants.ImageSize) (string, error)

	// EditImage applies an edit instruction to an existing image supplied as
	// a data URI and returns the edited image as a data URI.
	EditImage(ctx context.Context, imageData, prompt string) (string, error)
}
