// Package task implements the thesis-writing workflow: the task collection,
// the step state machine, and the per-step content controllers.
//
// This file implements the workflow state machine. Transitions that are not
// allowed (advancing past the terminal step, navigating to a locked step) are
// silent no-ops rather than errors: they are reachable only through disabled
// or guarded affordances, so surfacing them would punish the UI for rendering
// a click target.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/tui, internal/cli
package task

import (
	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
)

// ValidAdvances maps each workflow step to its advance target.
// Steps absent from the map are terminal.
//
// The workflow follows this flow:
//
//	TopicSelection → OutlineOverview → Drafting → Refinement
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidAdvances = map[constants.WorkflowStep]constants.WorkflowStep{
	constants.StepTopicSelection:  constants.StepOutlineOverview,
	constants.StepOutlineOverview: constants.StepDrafting,
	constants.StepDrafting:        constants.StepRefinement,
}

// NextStep returns the advance target for the given step. The second return
// is false at the terminal step.
func NextStep(s constants.WorkflowStep) (constants.WorkflowStep, bool) {
	next, ok := ValidAdvances[s]
	return next, ok
}

// IsTerminalStep returns true for the step with no advance target.
func IsTerminalStep(s constants.WorkflowStep) bool {
	_, ok := ValidAdvances[s]
	return !ok
}

// CanNavigate reports whether the step indicator for step s is clickable for
// the given task: completed steps and the current step may be revisited,
// locked (future) steps may not.
func CanNavigate(t *domain.Task, s constants.WorkflowStep) bool {
	return s.Valid() && s <= t.CurrentStep
}

// BackTarget names the destination of a back navigation. The three-tier
// precedence only applies while the task sits at topic selection; every other
// step backs out to the workflow overview.
type BackTarget int

// Back-navigation destinations, outermost first.
const (
	// BackToOverview returns to the top-level workflow map.
	BackToOverview BackTarget = iota

	// BackToModeChoice returns to the topic-acquisition mode cards.
	BackToModeChoice

	// BackToCandidateList returns from a topic's detail view to the
	// generated candidate list.
	BackToCandidateList
)

// backLabels gives the user-facing label for each back destination.
//
//nolint:gochecknoglobals // Read-only lookup table
var backLabels = map[BackTarget]string{
	BackToOverview:      "返回流程图",
	BackToModeChoice:    "返回选题方式",
	BackToCandidateList: "返回列表",
}

// Label returns the user-facing label for the back destination.
func (b BackTarget) Label() string {
	return backLabels[b]
}

// BackTargetFor derives where back navigation leads from the task's state:
//  1. a selected topic is open in detail view → back to the candidate list
//  2. a topic mode is chosen → back to the mode choice
//  3. otherwise → back to the workflow overview
func BackTargetFor(t *domain.Task) BackTarget {
	if t.CurrentStep == constants.StepTopicSelection {
		if t.SelectedTopic != nil {
			return BackToCandidateList
		}
		if t.TopicMode != constants.TopicModeNone {
			return BackToModeChoice
		}
	}
	return BackToOverview
}
