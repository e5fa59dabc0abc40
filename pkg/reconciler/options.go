package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/nbctx/pkg/errors"
)

// options configures a reconciler.
type options struct {
	logger *zerolog.Logger
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

// newOptions returns reconciler options with opts applied.
func newOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithLogger sets the logger used for every operation. Without it the
// logger carried by the operation's context is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}
