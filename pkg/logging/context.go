package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// WithLogger returns a copy of ctx carrying logger. A nil logger stores
// the default one.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithKind tags the context logger with the object kind (vm, device).
func WithKind(ctx context.Context, kind string) context.Context {
	return withStr(ctx, "kind", kind)
}

// WithObject tags the context logger with a remote object name.
func WithObject(ctx context.Context, name string) context.Context {
	return withStr(ctx, "object", name)
}

// WithDirectory tags the context logger with the synchronized directory.
func WithDirectory(ctx context.Context, dir string) context.Context {
	return withStr(ctx, "directory", dir)
}

// WithOperation tags the context logger with the running operation.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
