// Package application defines what commands need from the CLI
// application, so that commands can be tested against a Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            r, err := app.Reconciler(cmd.Context(), args[0])
//	            if err != nil {
//	                return err
//	            }
//	            // ... use r
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbctx/internal/netbox"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/reconciler"
)

// Application provides the dependencies commands need. The App struct
// from cmd/nbctx/app implements it.
type Application interface {
	// Kind returns the configured object kind.
	Kind() (netbox.Kind, error)

	// Codec returns the configured file codec.
	Codec() (codec.Codec, error)

	// Inventory connects to the remote inventory for the configured kind,
	// probing its status first unless disabled.
	Inventory(ctx context.Context) (inventory.Inventory, error)

	// Reconciler builds a reconciler for dir. The directory is checked
	// before any remote call is made.
	Reconciler(ctx context.Context, dir string) (reconciler.Reconciler, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format.
	OutputFormat() string

	// Version information
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
