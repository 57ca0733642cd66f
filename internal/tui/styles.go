// Package tui provides the terminal interface for the DeepWrite workflow.
//
// This file provides the centralized style system using Lip Gloss. All colors
// use AdaptiveColor for light/dark terminal support, and every status display
// keeps triple redundancy: icon + color + text.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/deepwrite/deepwrite/internal/constants"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and primary actions.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for in-flight operations.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed operations.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for locked steps and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleTitle renders the active task's title in the header.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// StyleSidebar frames the task list.
	StyleSidebar = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	// StyleContent frames the step view.
	StyleContent = lipgloss.NewStyle().Padding(0, 2)

	// StyleActiveItem highlights the selected sidebar entry.
	StyleActiveItem = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)

// StepStatus classifies a workflow step relative to a task's progress.
type StepStatus int

// Step display states.
const (
	// StepStatusCompleted marks steps the task has moved past.
	StepStatusCompleted StepStatus = iota

	// StepStatusCurrent marks the step the task sits at.
	StepStatusCurrent

	// StepStatusLocked marks future steps that cannot be opened yet.
	StepStatusLocked
)

// StepStatusOf classifies step s against the task's current step.
func StepStatusOf(s, current constants.WorkflowStep) StepStatus {
	switch {
	case s < current:
		return StepStatusCompleted
	case s == current:
		return StepStatusCurrent
	default:
		return StepStatusLocked
	}
}

// stepIcons maps step display states to their icons.
//
//nolint:gochecknoglobals // Read-only lookup table
var stepIcons = map[StepStatus]string{
	StepStatusCompleted: "✓",
	StepStatusCurrent:   "●",
	StepStatusLocked:    "○",
}

// stepColors maps step display states to their semantic colors.
//
//nolint:gochecknoglobals // Read-only lookup table
var stepColors = map[StepStatus]lipgloss.AdaptiveColor{
	StepStatusCompleted: ColorSuccess,
	StepStatusCurrent:   ColorPrimary,
	StepStatusLocked:    ColorMuted,
}

// StepIcon returns the icon for a step display state.
func StepIcon(s StepStatus) string {
	return stepIcons[s]
}

// StepColor returns the semantic color for a step display state.
func StepColor(s StepStatus) lipgloss.AdaptiveColor {
	return stepColors[s]
}

// CheckNoColor disables color output when NO_COLOR is set or TERM=dumb.
func CheckNoColor() {
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Truncate shortens s to at most width terminal cells, appending an ellipsis
// when it is cut. Widths are measured in cells, not runes, so CJK titles
// truncate correctly.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}
