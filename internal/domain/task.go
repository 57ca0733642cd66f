// Package domain provides shared domain types for the DeepWrite writing assistant.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case per architecture requirements.
package domain

import (
	"strconv"

	"github.com/deepwrite/deepwrite/internal/constants"
)

// Task represents one thesis-writing project and its full workflow state.
// A task is created at step 1 (topic selection) and moves forward one step at
// a time as the user completes each stage. All mutation goes through Apply;
// nothing else writes to a Task.
//
// Example JSON representation:
//
//	{
//	    "id": "42",
//	    "title": "Untitled Thesis",
//	    "current_step": 2,
//	    "topic_mode": "new",
//	    "outline": [...],
//	    "images": [],
//	    "created_seq": 1
//	}
type Task struct {
	// ID is the unique identifier for the task. When the task is backed by a
	// gateway project this is the decimal project id; otherwise it is an
	// opaque local id and gateway operations are rejected.
	ID string `json:"id"`

	// Title is the display title. It holds a placeholder until a topic is
	// confirmed, at which point the confirmed title is recorded.
	Title string `json:"title"`

	// CurrentStep is the workflow stage the task has reached. It never
	// decreases; revisiting an earlier step is a display concern only.
	CurrentStep constants.WorkflowStep `json:"current_step"`

	// TopicMode records which topic-acquisition path the user picked.
	// Empty until the choice is made.
	TopicMode constants.TopicMode `json:"topic_mode,omitempty"`

	// SelectedTopic is the candidate the user committed to in the new-topic
	// flow. It holds a copy of the candidate, never a live reference, so
	// regenerating the candidate list cannot mutate a confirmed selection.
	SelectedTopic *Topic `json:"selected_topic,omitempty"`

	// TopicPrompt is the free-text context supplied for existing-mode analysis.
	TopicPrompt string `json:"topic_prompt,omitempty"`

	// Outline is the ordered list of sections. Array position is document
	// order. Empty until generated on first entry to the outline step.
	Outline []Section `json:"outline"`

	// RefinementSuggestions holds the critique produced at the refinement
	// step. Append-only; suggestions are never deleted.
	RefinementSuggestions []Annotation `json:"refinement_suggestions,omitempty"`

	// Images is the append-only list of generated image assets.
	Images []GeneratedImage `json:"images"`

	// CreatedSeq is the creation order within the session, used for stable
	// sidebar ordering.
	CreatedSeq int `json:"created_seq"`
}

// Topic is an AI-proposed thesis topic. Immutable once created by generation;
// a selected topic is copied into the task, so later candidate-list churn
// never affects a confirmed selection.
type Topic struct {
	// ID is a locally generated unique id. It is not stable across
	// re-generation of the candidate list.
	ID string `json:"id"`

	// Title is the proposed thesis title.
	Title string `json:"title"`

	// Overview is a short description of the proposed research.
	Overview string `json:"overview"`

	// FullDetail optionally carries a longer description.
	FullDetail string `json:"full_detail,omitempty"`
}

// Section is one titled content block of the outline/draft. Section ids are
// stable within a task; ordering is array position in Task.Outline.
type Section struct {
	// ID identifies the section within its task.
	ID string `json:"id"`

	// Title is the section header.
	Title string `json:"title"`

	// Content is the section body. Rewritten in place by regeneration.
	Content string `json:"content"`
}

// Annotation records an instruction-and-outcome pair tied to a section.
// The history is append-only; annotations are never deleted.
type Annotation struct {
	// ID is the unique identifier for the annotation.
	ID string `json:"id"`

	// TargetID references the Section this annotation applies to. It is a
	// non-owning back-reference and is never used to mutate the section.
	TargetID string `json:"target_id"`

	// Text is the highlighted text or context the annotation refers to.
	Text string `json:"text"`

	// Comment is the user's or AI's instruction or suggestion.
	Comment string `json:"comment"`

	// Type records who authored the annotation.
	Type constants.AnnotationType `json:"type"`

	// Status tracks whether the annotation has been acted on.
	Status constants.AnnotationStatus `json:"status"`
}

// GeneratedImage is one generated or edited image asset. The asset list on a
// task is append-only.
type GeneratedImage struct {
	// ID is the unique identifier for the image.
	ID string `json:"id"`

	// URL is the image location. May be a data URI for inline payloads.
	URL string `json:"url"`

	// Prompt is the text prompt that produced the image.
	Prompt string `json:"prompt"`

	// Model names the image model used.
	Model string `json:"model"`

	// Params optionally records generation parameters (size, aspect ratio).
	Params string `json:"params,omitempty"`
}

// TopicPhase is the derived sub-state of the topic-selection step. It is a
// read-only projection of the task's optional fields; transitions are enforced
// by the workflow state machine so contradictory combinations never arise.
type TopicPhase int

// Topic phase values, in the order the user encounters them.
const (
	// PhaseUnset means no topic-acquisition path has been chosen.
	PhaseUnset TopicPhase = iota

	// PhaseModeChosen means a path was chosen but nothing is confirmed yet.
	PhaseModeChosen

	// PhaseTopicSelected means a generated candidate is open in detail view.
	PhaseTopicSelected
)

// TopicPhase derives the topic-selection sub-state from the task's fields.
func (t *Task) TopicPhase() TopicPhase {
	switch {
	case t.SelectedTopic != nil:
		return PhaseTopicSelected
	case t.TopicMode != constants.TopicModeNone:
		return PhaseModeChosen
	default:
		return PhaseUnset
	}
}

// ProjectID derives the numeric gateway project id from the task id.
// The second return is false when the id is not a decimal number, in which
// case gateway-backed operations must abort locally.
func (t *Task) ProjectID() (int64, bool) {
	id, err := strconv.ParseInt(t.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// SectionIndex returns the outline index of the section with the given id,
// or -1 if no section matches.
func (t *Task) SectionIndex(sectionID string) int {
	for i := range t.Outline {
		if t.Outline[i].ID == sectionID {
			return i
		}
	}
	return -1
}
