package logging

import "io"

// FilteringWriter wraps an io.Writer and redacts sensitive values from every
// write. It sits in front of the log file so credentials never reach disk
// even when a call site logs them by accident.
type FilteringWriter struct {
	target io.Writer
}

// NewFilteringWriter creates a FilteringWriter around the target writer.
func NewFilteringWriter(target io.Writer) *FilteringWriter {
	return &FilteringWriter{target: target}
}

// Write implements io.Writer. The reported length is that of the original
// input so callers see the write they issued, not the redacted one.
func (w *FilteringWriter) Write(p []byte) (int, error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err := w.target.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
