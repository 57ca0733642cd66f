package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/errors"
)

// go test runs without a TTY on stdin, so every prompt takes the
// non-interactive path and cancels.

func TestSelectRequiresOptions(t *testing.T) {
	t.Parallel()

	_, err := Select("选择", nil)
	require.ErrorIs(t, err, errors.ErrEmptyValue)
}

func TestSelectNonInteractiveCancels(t *testing.T) {
	_, err := Select("选择", []Option{{Label: "一", Value: "1"}})
	require.ErrorIs(t, err, errors.ErrMenuCanceled)
}

func TestConfirmNonInteractiveCancels(t *testing.T) {
	_, err := Confirm("继续？", true)
	require.ErrorIs(t, err, errors.ErrMenuCanceled)
}

func TestInputNonInteractiveCancels(t *testing.T) {
	_, err := Input("标题", "默认值")
	require.ErrorIs(t, err, errors.ErrMenuCanceled)
}
