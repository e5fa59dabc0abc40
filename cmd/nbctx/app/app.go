// Package app provides the application context and dependency management
// for the nbctx CLI. It centralizes configuration, logging, and the
// construction of NetBox clients and reconcilers for commands.
package app

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbctx/internal/netbox"
	"github.com/agentstation/nbctx/internal/transport"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/constants"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/filestore"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/reconciler"
)

// App represents the nbctx application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// HTTP client shared by every NetBox client (lazy-initialized)
	mu   sync.Mutex
	http *http.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from .env files, the environment, and the
// config file, and can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Kind returns the configured object kind.
func (a *App) Kind() (netbox.Kind, error) {
	return netbox.LookupKind(a.config.Kind)
}

// Codec returns the configured file codec.
func (a *App) Codec() (codec.Codec, error) {
	return codec.New(a.config.Codec)
}

// Inventory connects to NetBox for the configured kind. Unless status
// checks are disabled, the URL and token are verified first.
func (a *App) Inventory(ctx context.Context) (inventory.Inventory, error) {
	kind, err := a.Kind()
	if err != nil {
		return nil, err
	}
	baseURL, token, err := a.config.Credentials()
	if err != nil {
		return nil, err
	}

	t, err := transport.New(baseURL, token,
		transport.WithHTTPClient(a.httpClient()),
		transport.WithUserAgent("nbctx/"+a.version),
	)
	if err != nil {
		return nil, err
	}
	client := netbox.New(t, kind)

	if a.config.SkipStatus {
		return client, nil
	}
	version, err := client.Status(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("url", t.BaseURL()).
		Str("netbox_version", version).
		Str("auth", t.Method()).
		Msg("Connected to NetBox")

	return client, nil
}

// Reconciler builds a reconciler for dir. The directory and codec are
// validated before NetBox is contacted.
func (a *App) Reconciler(ctx context.Context, dir string) (reconciler.Reconciler, error) {
	c, err := a.Codec()
	if err != nil {
		return nil, err
	}
	store, err := filestore.New(dir, c)
	if err != nil {
		return nil, err
	}
	inv, err := a.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	return reconciler.New(inv, store, reconciler.WithLogger(a.logger))
}

// Shutdown releases idle connections held by the HTTP client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.http != nil {
		a.http.CloseIdleConnections()
	}
	return nil
}

// httpClient returns the shared HTTP client, creating it on first use.
func (a *App) httpClient() *http.Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.http == nil {
		a.http = &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: constants.DialTimeout}).DialContext,
				TLSHandshakeTimeout: constants.DialTimeout,
				MaxIdleConns:        10,
			},
		}
	}
	return a.http
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to reach NetBox.
func WithHTTPClient(client *http.Client) Option {
	return func(a *App) error {
		a.http = client
		return nil
	}
}
