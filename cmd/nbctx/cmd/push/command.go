// Package push provides the push command, which sends changed files back
// to NetBox.
package push

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/internal/cmd/output"
	"github.com/agentstation/nbctx/internal/cmd/table"
)

// NewCommand creates the push command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "push <dir>",
		GroupID: "sync",
		Short:   "Send changed files back to NetBox",
		Long: `Push updates the local_context_data of every object whose file in <dir>
differs from NetBox, in file name order. Unchanged files and files without
a matching object are skipped.

The first update NetBox refuses stops the push. Objects updated before it
stay updated; fix the file and run push again.`,
		Example: `  nbctx check contexts/ && nbctx push contexts/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, args[0], cmd.OutOrStdout())
		},
	}
}

// Run pushes the changed files in dir and reports the result to w.
func Run(ctx context.Context, app application.Application, dir string, w io.Writer) error {
	kind, err := app.Kind()
	if err != nil {
		return err
	}
	r, err := app.Reconciler(ctx, dir)
	if err != nil {
		return err
	}

	pushed, err := r.Push(ctx)
	if err != nil {
		if len(pushed) > 0 {
			app.Logger().Warn().Strs("pushed", pushed).Msgf("%d files were pushed before the failure", len(pushed))
		}
		return err
	}

	return output.Write(w, output.DetectFormat(app.OutputFormat()), &Result{
		Kind:      kind.Name,
		Directory: dir,
		Pushed:    pushed,
		singular:  kind.Singular,
		plural:    strings.ToLower(kind.Plural),
	})
}

// Result lists the files pushed to NetBox.
type Result struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Directory string   `json:"directory" yaml:"directory"`
	Pushed    []string `json:"pushed" yaml:"pushed"`

	singular string
	plural   string
}

// WriteText implements output.Texter.
func (r *Result) WriteText(w io.Writer) error {
	items := r.plural
	if len(r.Pushed) == 1 {
		items = r.singular
	}
	_, err := fmt.Fprintf(w, "%d %s pushed to netbox.\n", len(r.Pushed), items)
	return err
}

// TableData implements output.Tabler.
func (r *Result) TableData() output.Data {
	return table.FilesToTableData(r.Pushed)
}
