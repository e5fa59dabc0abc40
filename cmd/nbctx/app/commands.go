package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/cmd/nbctx/cmd/check"
	"github.com/agentstation/nbctx/cmd/nbctx/cmd/get"
	"github.com/agentstation/nbctx/cmd/nbctx/cmd/man"
	"github.com/agentstation/nbctx/cmd/nbctx/cmd/pull"
	"github.com/agentstation/nbctx/cmd/nbctx/cmd/push"
	"github.com/agentstation/nbctx/cmd/nbctx/cmd/version"
	"github.com/agentstation/nbctx/internal/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Sync commands
	rootCmd.AddCommand(pull.NewCommand(a))
	rootCmd.AddCommand(check.NewCommand(a))
	rootCmd.AddCommand(push.NewCommand(a))

	// Inspection commands
	rootCmd.AddCommand(get.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(man.NewCommand(a))
}
