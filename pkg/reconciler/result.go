package reconciler

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/nbctx/pkg/codec"
)

// PullResult describes the files written by a pull.
type PullResult struct {
	// Directory the files were written to.
	Directory string `json:"directory" yaml:"directory"`

	// Written lists one entry per object, sorted by name.
	Written []WrittenFile `json:"written" yaml:"written"`

	// Skipped lists objects whose names cannot be used as file names.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Ambiguous lists names carried by more than one remote object.
	Ambiguous []string `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`

	StartTime utc.Time      `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// WrittenFile is one file produced by a pull.
type WrittenFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Names returns the names written, in order.
func (r *PullResult) Names() []string {
	names := make([]string, len(r.Written))
	for i, w := range r.Written {
		names[i] = w.Name
	}
	return names
}

// Change is a local file whose text differs from the rendering of the
// remote context for the same name.
type Change struct {
	Name    string      `json:"name" yaml:"name"`
	Path    string      `json:"path" yaml:"path"`
	Context codec.Value `json:"context" yaml:"context"`
}

// Paths returns the paths of changes, in order.
func Paths(changes []Change) []string {
	paths := make([]string, len(changes))
	for i, c := range changes {
		paths[i] = c.Path
	}
	return paths
}
