// Package constants provides shared constants used throughout the nbctx codebase.
// This includes timeouts, file permissions, environment variable names, and
// NetBox API details that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the NetBox API
	DefaultHTTPTimeout = 30 * time.Second

	// DialTimeout is the timeout for establishing network connections
	DialTimeout = 10 * time.Second

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Environment variable names
const (
	// EnvNetboxURL holds the NetBox base URL
	EnvNetboxURL = "NETBOX_URL"

	// EnvNetboxToken holds the NetBox API token
	EnvNetboxToken = "NETBOX_API_TOKEN"
)

// NetBox API constants
const (
	// APIPrefix is the path prefix of every NetBox REST endpoint
	APIPrefix = "/api/"

	// StatusPath is the endpoint probed to verify the URL and token
	StatusPath = "status/"

	// PageSize is the number of objects requested per page when listing
	PageSize = 1000

	// ContextField is the JSON field holding an object's config context
	ContextField = "local_context_data"
)

// Default values
const (
	// DefaultKind is the object kind used when none is specified
	DefaultKind = "vm"

	// DefaultCodec is the file format used when none is specified
	DefaultCodec = "yaml"

	// ConfigFileName is the config file searched in $HOME and the working directory
	ConfigFileName = ".nbctx"
)
