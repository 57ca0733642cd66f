package constants

// WorkflowStep identifies one of the four ordered stages of the writing
// workflow. Steps are ordered by integer value; a larger value means a later
// stage. Step values are stable and appear in persisted task snapshots.
type WorkflowStep int

// Workflow step constants define the ordered stages a task moves through.
// Advancement is strictly sequential (N → N+1) and StepRefinement is terminal.
const (
	// StepTopicSelection is the first stage: choosing or analyzing a topic.
	StepTopicSelection WorkflowStep = 1

	// StepOutlineOverview is the second stage: generating and shaping the outline.
	StepOutlineOverview WorkflowStep = 2

	// StepDrafting is the third stage: writing section content. It shares the
	// outline's section list; the distinction from StepOutlineOverview is
	// presentational only.
	StepDrafting WorkflowStep = 3

	// StepRefinement is the fourth and terminal stage: AI critique of the draft.
	StepRefinement WorkflowStep = 4
)

// FirstStep and LastStep bound the workflow step range.
const (
	FirstStep = StepTopicSelection
	LastStep  = StepRefinement
)

// stepNames maps workflow steps to their display names.
//
//nolint:gochecknoglobals // Read-only lookup table
var stepNames = map[WorkflowStep]string{
	StepTopicSelection:  "topic_selection",
	StepOutlineOverview: "outline_overview",
	StepDrafting:        "drafting",
	StepRefinement:      "refinement",
}

// String returns the snake_case name of the step.
// This implements fmt.Stringer for convenient logging and debugging.
func (s WorkflowStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the step value is inside the defined range.
func (s WorkflowStep) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// TopicMode selects which topic-acquisition sub-flow is active within
// StepTopicSelection. The zero value means the user has not chosen yet.
type TopicMode string

// Topic mode constants.
const (
	// TopicModeNone indicates no acquisition path has been chosen.
	TopicModeNone TopicMode = ""

	// TopicModeExisting analyzes an uploaded proposal document or free text.
	TopicModeExisting TopicMode = "existing"

	// TopicModeNew generates fresh topic candidates from study parameters.
	TopicModeNew TopicMode = "new"
)

// String returns the string representation of the TopicMode.
func (m TopicMode) String() string {
	return string(m)
}

// AnnotationType distinguishes who authored an annotation.
type AnnotationType string

// Annotation type constants.
const (
	// AnnotationUser marks an annotation created from a user instruction.
	AnnotationUser AnnotationType = "user"

	// AnnotationAI marks an annotation produced by the generation service.
	AnnotationAI AnnotationType = "ai"
)

// AnnotationStatus tracks whether an annotation has been acted on.
type AnnotationStatus string

// Annotation status constants.
const (
	// AnnotationOpen marks a suggestion that has not been addressed.
	AnnotationOpen AnnotationStatus = "open"

	// AnnotationResolved marks a suggestion that has been applied or dismissed.
	AnnotationResolved AnnotationStatus = "resolved"
)

// ImageSize is the requested output quality for image generation.
type ImageSize string

// Image size constants supported by the image generation service.
const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// ValidImageSizes returns the accepted image sizes in ascending quality order.
func ValidImageSizes() []ImageSize {
	return []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K}
}

// Valid reports whether the size is one of the supported values.
func (s ImageSize) Valid() bool {
	switch s {
	case ImageSize1K, ImageSize2K, ImageSize4K:
		return true
	}
	return false
}
