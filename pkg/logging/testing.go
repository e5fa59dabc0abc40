package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// Recorder captures JSON log lines written during a test.
type Recorder struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewRecorder creates a trace-level logger writing into a buffer. The
// global level is lowered for the test and restored on cleanup.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()

	buf := &bytes.Buffer{}
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(oldLevel)
	})

	logger := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &Recorder{Logger: &logger, Buffer: buf}
}

// Output returns everything logged so far.
func (r *Recorder) Output() string {
	return r.Buffer.String()
}

// Lines returns one entry per log event.
func (r *Recorder) Lines() []string {
	out := strings.TrimSpace(r.Output())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Contains reports whether any event contains substr.
func (r *Recorder) Contains(substr string) bool {
	return strings.Contains(r.Output(), substr)
}

// Reset drops captured output.
func (r *Recorder) Reset() {
	r.Buffer.Reset()
}

// CaptureForTest installs a Recorder as the default logger until the
// test ends.
func CaptureForTest(t testing.TB) *Recorder {
	t.Helper()
	original := *Default()
	rec := NewRecorder(t)
	SetDefault(*rec.Logger)
	t.Cleanup(func() {
		SetDefault(original)
	})
	return rec
}
