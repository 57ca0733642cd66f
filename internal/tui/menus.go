// This file provides the interactive prompt helpers used by the CLI commands
// that run outside the full workflow program (image studio, confirmations).
package tui

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/deepwrite/deepwrite/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is the number of characters to leave between
	// prompt content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the minimum usable width for prompt content.
	MinMenuWidth = 40

	// DefaultMenuWidth is used when the terminal width cannot be determined.
	DefaultMenuWidth = 80
)

// Option represents a selectable prompt option.
type Option struct {
	// Label is the display text shown to the user.
	Label string

	// Value is the value returned when this option is selected.
	Value string
}

// Theme returns the huh theme mapped onto the package's semantic colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	return t
}

// adaptWidth fits prompt content to the terminal, leaving an edge margin.
func adaptWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultMenuWidth
	}
	available := width - TerminalEdgeMargin
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// runField runs a single-field form. Non-terminal environments and user
// aborts both surface as ErrMenuCanceled so callers have one cancel path.
func runField(field huh.Field, errorContext string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.ErrMenuCanceled
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithWidth(adaptWidth())

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return errors.ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// Select presents a single-selection prompt and returns the selected value.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.Wrap(errors.ErrEmptyValue, "menu options")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runField(field, "select prompt failed"); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt.
func Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runField(field, "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Input presents a single-line text prompt.
func Input(prompt, defaultValue string) (string, error) {
	value := defaultValue
	field := huh.NewInput().
		Title(prompt).
		Value(&value)

	if err := runField(field, "input prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}
