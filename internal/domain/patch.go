package domain

import "github.com/deepwrite/deepwrite/internal/constants"

// TaskPatch describes a partial update to a Task. Nil pointer fields are left
// untouched; set fields override the prior value wholesale. The outline slice
// is replaced as a unit (never merged element-wise), and annotation/image
// fields only ever append.
//
// ClearTopicMode and ClearSelectedTopic exist because those two fields are the
// only ones back-navigation needs to unset; a nil pointer alone cannot
// distinguish "leave alone" from "clear".
type TaskPatch struct {
	// Title, when set, replaces the task title.
	Title *string

	// CurrentStep, when set, replaces the workflow step. Only the state
	// machine issues step patches.
	CurrentStep *constants.WorkflowStep

	// TopicMode, when set, replaces the topic-acquisition mode.
	TopicMode *constants.TopicMode

	// ClearTopicMode unsets the topic mode (back to the mode-choice screen).
	ClearTopicMode bool

	// SelectedTopic, when set, replaces the selected topic with a copy.
	SelectedTopic *Topic

	// ClearSelectedTopic unsets the selected topic (back to the candidate list).
	ClearSelectedTopic bool

	// TopicPrompt, when set, replaces the existing-mode analysis prompt.
	TopicPrompt *string

	// Outline, when set, replaces the entire outline.
	Outline []Section

	// AppendSuggestions appends to the refinement suggestion history.
	AppendSuggestions []Annotation

	// AppendImages appends to the image asset list.
	AppendImages []GeneratedImage
}

// Apply produces a new Task value with the patch's fields overriding the
// receiver's; all unspecified fields are retained. The receiver is not
// modified, so readers holding the old value never observe a half-applied
// patch. Slices in the result are freshly allocated where the patch touches
// them; untouched slices are shared, which is safe because tasks are treated
// as immutable snapshots.
func (t Task) Apply(p TaskPatch) Task {
	out := t

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.CurrentStep != nil {
		out.CurrentStep = *p.CurrentStep
	}

	switch {
	case p.ClearTopicMode:
		out.TopicMode = constants.TopicModeNone
	case p.TopicMode != nil:
		out.TopicMode = *p.TopicMode
	}

	switch {
	case p.ClearSelectedTopic:
		out.SelectedTopic = nil
	case p.SelectedTopic != nil:
		topic := *p.SelectedTopic
		out.SelectedTopic = &topic
	}

	if p.TopicPrompt != nil {
		out.TopicPrompt = *p.TopicPrompt
	}

	if p.Outline != nil {
		out.Outline = make([]Section, len(p.Outline))
		copy(out.Outline, p.Outline)
	}

	if len(p.AppendSuggestions) > 0 {
		merged := make([]Annotation, 0, len(t.RefinementSuggestions)+len(p.AppendSuggestions))
		merged = append(merged, t.RefinementSuggestions...)
		merged = append(merged, p.AppendSuggestions...)
		out.RefinementSuggestions = merged
	}

	if len(p.AppendImages) > 0 {
		merged := make([]GeneratedImage, 0, len(t.Images)+len(p.AppendImages))
		merged = append(merged, t.Images...)
		merged = append(merged, p.AppendImages...)
		out.Images = merged
	}

	return out
}

// StringPtr returns a pointer to s, for concise patch construction.
func StringPtr(s string) *string { return &s }

// StepPtr returns a pointer to the step, for concise patch construction.
func StepPtr(s constants.WorkflowStep) *constants.WorkflowStep { return &s }

// ModePtr returns a pointer to the mode, for concise patch construction.
func ModePtr(m constants.TopicMode) *constants.TopicMode { return &m }
