package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/logging"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected zerolog.Level
	}{
		{"default is info", false, false, zerolog.InfoLevel},
		{"verbose is debug", true, false, zerolog.DebugLevel},
		{"quiet is warn", false, true, zerolog.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter_FieldNames(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := InitLoggerWithWriter(false, false, buf)

	logger.Info().Str("task_id", "42").Msg("task selected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Contains(t, entry, "ts")
	assert.Equal(t, "task selected", entry["event"])
	assert.Equal(t, "42", entry["task_id"])
}

func TestInitLoggerWithWriter_QuietSuppressesInfo(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := InitLoggerWithWriter(false, true, buf)

	logger.Info().Msg("should be suppressed")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestInitLoggerWithWriter_VerboseEnablesDebug(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := InitLoggerWithWriter(true, false, buf)

	logger.Debug().Msg("debug detail")
	assert.Contains(t, buf.String(), "debug detail")
}

func TestInitLoggerWithWriter_FlagsSensitiveMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := InitLoggerWithWriter(false, false, buf)

	logger.Info().Msg("loaded key AIzaSyA1234567890abcdefghijklmnopqrstu")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, true, entry["contains_filtered_data"])
}

func TestFilteringWriteCloser_RedactsFileOutput(t *testing.T) {
	tracker := &closeTracker{}
	buf := new(bytes.Buffer)
	fwc := &filteringWriteCloser{
		filter: logging.NewFilteringWriter(buf),
		closer: tracker,
	}

	n, err := fwc.Write([]byte("token sk-abcdefghijklmnopqrstuvwxyz123456\n"))
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NotContains(t, buf.String(), "sk-abcdefghijklmnopqrstuvwxyz123456")
	assert.Contains(t, buf.String(), logging.RedactedValue)

	require.NoError(t, fwc.Close())
	assert.True(t, tracker.closed)
}

func TestCloseLogFile_NilWriterIsSafe(t *testing.T) {
	logFileWriter = nil
	CloseLogFile()
}

type closeTracker struct {
	closed bool
}

func (c *closeTracker) Write(p []byte) (int, error) { return len(p), nil }
func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCloseLogFile_ClosesWriter(t *testing.T) {
	tracker := &closeTracker{}
	logFileWriter = tracker

	CloseLogFile()

	assert.True(t, tracker.closed)
	assert.Nil(t, logFileWriter)
}
