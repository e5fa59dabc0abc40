package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbctx/internal/cmd/output"
	"github.com/agentstation/nbctx/internal/netbox"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/constants"
	"github.com/agentstation/nbctx/pkg/logging"
)

// Execute runs the nbctx CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "nbctx",
		Short:   "Sync NetBox config contexts with a directory of files",
		Version: a.version,
		Long: `nbctx keeps the local_context_data of NetBox virtual machines or devices
in a directory of files, one file per object.

  pull   writes every object's context to <dir>/<name>.yml
  check  lists the files that differ from NetBox
  push   sends the changed files back to NetBox

The NetBox URL and API token are read from --url/--token, the
NETBOX_URL/NETBOX_API_TOKEN environment variables (also loaded from .env
files), or url/token in ~/.nbctx.yaml.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sync",
		Title: "Sync Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands:",
	})

	// Values are applied in setupCommand only when a flag is set, so that
	// defaults never shadow the environment or config file.
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/"+constants.ConfigFileName+".yaml)")
	flags.StringP("url", "u", "", "NetBox base URL (env "+constants.EnvNetboxURL+")")
	flags.StringP("token", "t", "", "NetBox API token (env "+constants.EnvNetboxToken+")")
	flags.StringP("kind", "k", constants.DefaultKind, "object kind: "+strings.Join(netbox.KindNames(), ", "))
	flags.String("codec", constants.DefaultCodec, "file format: "+strings.Join(codec.Names(), ", "))
	flags.Bool("skip-status", false, "do not verify the URL and token before running")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: text, table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("nbctx {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit config file replaces the one found at startup.
	if cmd.Flags().Changed("config") {
		config, err := loadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = config
	}

	a.applyFlags(cmd)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// applyFlags copies every flag the user set onto the configuration.
// These flags are defined as persistent flags in createRootCommand, so
// lookup errors indicate programming errors.
func (a *App) applyFlags(cmd *cobra.Command) {
	c := a.config
	changed := cmd.Flags().Changed

	if changed("url") {
		c.URL = strings.TrimSpace(mustGetString(cmd, "url"))
	}
	if changed("token") {
		c.Token = strings.TrimSpace(mustGetString(cmd, "token"))
	}
	if changed("kind") {
		c.Kind = mustGetString(cmd, "kind")
	}
	if changed("codec") {
		c.Codec = mustGetString(cmd, "codec")
	}
	if changed("skip-status") {
		c.SkipStatus = mustGetBool(cmd, "skip-status")
	}
	if changed("format") {
		c.Format = mustGetString(cmd, "format")
	}
	if changed("log-level") {
		c.LogLevel = mustGetString(cmd, "log-level")
	}
	c.Verbose = mustGetBool(cmd, "verbose")
	c.Quiet = mustGetBool(cmd, "quiet")
	c.NoColor = mustGetBool(cmd, "no-color")
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
