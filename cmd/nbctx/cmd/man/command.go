// Package man provides the hidden man command.
package man

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/nbctx/internal/cmd/application"
)

// NewCommand creates the man command, which writes a man page for the
// whole command tree.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Long:   `Generate man page for nbctx CLI tool.`,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "NBCTX",
				Section: "1",
				Source:  "nbctx " + app.Version(),
				Manual:  "nbctx Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
