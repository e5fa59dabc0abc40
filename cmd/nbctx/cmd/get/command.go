// Package get provides the get command, which prints one object's
// context as it would be written by pull.
package get

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/internal/cmd/application"
	"github.com/agentstation/nbctx/internal/cmd/output"
	"github.com/agentstation/nbctx/internal/cmd/table"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/logging"
)

// NewCommand creates the get command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:     "get [name]",
		GroupID: "inspect",
		Short:   "Print one object's context",
		Long: `Get prints the context of a single object, addressed by name or by
--id, in the same form pull would write it to disk.`,
		Example: `  nbctx get vm-a
  nbctx get --id 42
  nbctx -o table get vm-a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel inventory.Selector
			if len(args) == 1 {
				sel.Name = args[0]
			}
			if cmd.Flags().Changed("id") {
				sel.ID = id
				if sel.ID <= 0 {
					return errors.NewValidationError("id", id, "must be a positive number")
				}
			}
			return Run(cmd.Context(), app, sel, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "select the object by id instead of name")

	return cmd
}

// Run fetches the object selected by sel and writes it to w.
func Run(ctx context.Context, app application.Application, sel inventory.Selector, w io.Writer) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	kind, err := app.Kind()
	if err != nil {
		return err
	}
	c, err := app.Codec()
	if err != nil {
		return err
	}
	inv, err := app.Inventory(ctx)
	if err != nil {
		return err
	}

	ctx = logging.WithKind(ctx, kind.Name)
	obj, err := inv.GetOne(ctx, sel)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Str("object", obj.Name).Int("id", obj.ID).Msg("Fetched object")

	return output.Write(w, output.DetectFormat(app.OutputFormat()), &Result{
		Kind:   kind.Name,
		Object: obj,
		codec:  c,
	})
}

// Result is one object and its context.
type Result struct {
	Kind string `json:"kind" yaml:"kind"`
	inventory.Object

	codec codec.Codec
}

// WriteText implements output.Texter. The context is rendered exactly
// as pull writes it.
func (r *Result) WriteText(w io.Writer) error {
	data, err := r.codec.Encode(r.Context)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// TableData implements output.Tabler.
func (r *Result) TableData() output.Data {
	return table.ContextToTableData(r.Context)
}
