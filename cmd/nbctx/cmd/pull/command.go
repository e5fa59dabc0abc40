// Package pull provides the pull command, which writes every object's
// context to a directory.
package pull

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/internal/cmd/output"
	"github.com/agentstation/nbctx/internal/cmd/table"
	"github.com/agentstation/nbctx/pkg/reconciler"
)

// NewCommand creates the pull command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "pull <dir>",
		GroupID: "sync",
		Short:   "Write every object's context to a directory",
		Long: `Pull fetches every object of the selected kind from NetBox and writes
its local_context_data to <dir>/<name>.<ext>, overwriting existing files.

Files of objects that no longer exist in NetBox are left alone. The
directory must already exist.`,
		Example: `  nbctx pull contexts/              # virtual machines as YAML
  nbctx -k device pull devices/     # devices
  nbctx --codec json pull ctx/      # JSON files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, args[0], cmd.OutOrStdout())
		},
	}
}

// Run pulls into dir and reports the result to w.
func Run(ctx context.Context, app application.Application, dir string, w io.Writer) error {
	kind, err := app.Kind()
	if err != nil {
		return err
	}
	r, err := app.Reconciler(ctx, dir)
	if err != nil {
		return err
	}

	res, err := r.Pull(ctx)
	if err != nil {
		return err
	}

	directory := res.Directory
	if abs, err := filepath.Abs(directory); err == nil {
		directory = abs
	}

	return output.Write(w, output.DetectFormat(app.OutputFormat()), &Result{
		Kind:      kind.Name,
		Directory: directory,
		Written:   res.Written,
		Skipped:   res.Skipped,
		Ambiguous: res.Ambiguous,
		singular:  kind.Singular,
	})
}

// Result is the outcome of a pull.
type Result struct {
	Kind      string                   `json:"kind" yaml:"kind"`
	Directory string                   `json:"directory" yaml:"directory"`
	Written   []reconciler.WrittenFile `json:"written" yaml:"written"`
	Skipped   []string                 `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Ambiguous []string                 `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`

	singular string
}

// WriteText implements output.Texter.
func (r *Result) WriteText(w io.Writer) error {
	if len(r.Skipped) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %d objects whose names cannot be used as file names: %s\n",
			len(r.Skipped), strings.Join(r.Skipped, ", ")); err != nil {
			return err
		}
	}
	if len(r.Ambiguous) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %d names shared by several objects: %s\n",
			len(r.Ambiguous), strings.Join(r.Ambiguous, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Wrote %s contexts to %s.\n", r.singular, r.Directory)
	return err
}

// TableData implements output.Tabler.
func (r *Result) TableData() output.Data {
	paths := make([]string, len(r.Written))
	for i, f := range r.Written {
		paths[i] = f.Path
	}
	return table.FilesToTableData(paths)
}
