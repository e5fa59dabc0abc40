// Package check provides the check command, which lists the files that
// differ from NetBox.
package check

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/internal/cmd/output"
	"github.com/agentstation/nbctx/internal/cmd/table"
	"github.com/agentstation/nbctx/pkg/constants"
)

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "check <dir>",
		GroupID: "sync",
		Short:   "List files that differ from NetBox",
		Long: `Check compares every file in <dir> with the current context of its object
in NetBox and lists the files that differ. Files are only read; nothing is
written locally or in NetBox.

Files without a matching object are ignored.`,
		Example: `  nbctx check contexts/
  nbctx -o json check contexts/     # machine-readable list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, args[0], cmd.OutOrStdout())
		},
	}
}

// Run checks dir and reports the changed files to w.
func Run(ctx context.Context, app application.Application, dir string, w io.Writer) error {
	kind, err := app.Kind()
	if err != nil {
		return err
	}
	c, err := app.Codec()
	if err != nil {
		return err
	}
	r, err := app.Reconciler(ctx, dir)
	if err != nil {
		return err
	}

	changed, err := r.Check(ctx)
	if err != nil {
		return err
	}

	// Repeat the flags that select what was checked.
	usage := []string{"nbctx"}
	if kind.Name != constants.DefaultKind {
		usage = append(usage, "--kind", kind.Name)
	}
	if c.Name() != constants.DefaultCodec {
		usage = append(usage, "--codec", c.Name())
	}
	usage = append(usage, "push", dir)

	return output.Write(w, output.DetectFormat(app.OutputFormat()), &Result{
		Kind:      kind.Name,
		Directory: dir,
		Changed:   changed,
		pushUsage: strings.Join(usage, " "),
	})
}

// Result lists the files that differ from NetBox.
type Result struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Directory string   `json:"directory" yaml:"directory"`
	Changed   []string `json:"changed" yaml:"changed"`

	pushUsage string
}

// WriteText implements output.Texter.
func (r *Result) WriteText(w io.Writer) error {
	if len(r.Changed) == 0 {
		_, err := fmt.Fprintln(w, "No changes detected.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d changed files:\n", len(r.Changed))
	for _, path := range r.Changed {
		fmt.Fprintf(&b, "  - %s\n", path)
	}
	fmt.Fprintf(&b, "Run %s to push your changes to netbox.\n", r.pushUsage)
	_, err := io.WriteString(w, b.String())
	return err
}

// TableData implements output.Tabler.
func (r *Result) TableData() output.Data {
	return table.FilesToTableData(r.Changed)
}
