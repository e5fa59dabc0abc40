package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbctx/internal/netbox"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/filestore"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/reconciler"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ReconcilerFunc: func(ctx context.Context, dir string) (reconciler.Reconciler, error) {
//	        return reconciler.New(memory.New(), store)
//	    },
//	}
//	cmd := pull.NewCommand(mock)
type Mock struct {
	KindFunc         func() (netbox.Kind, error)
	CodecFunc        func() (codec.Codec, error)
	InventoryFunc    func(ctx context.Context) (inventory.Inventory, error)
	ReconcilerFunc   func(ctx context.Context, dir string) (reconciler.Reconciler, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// NewMock returns a Mock serving inv, with reconcilers over real
// directories using the mock's codec.
func NewMock(inv inventory.Inventory) *Mock {
	m := &Mock{}
	m.InventoryFunc = func(context.Context) (inventory.Inventory, error) {
		return inv, nil
	}
	m.ReconcilerFunc = func(ctx context.Context, dir string) (reconciler.Reconciler, error) {
		c, err := m.Codec()
		if err != nil {
			return nil, err
		}
		store, err := filestore.New(dir, c)
		if err != nil {
			return nil, err
		}
		i, err := m.Inventory(ctx)
		if err != nil {
			return nil, err
		}
		return reconciler.New(i, store, reconciler.WithLogger(m.Logger()))
	}
	return m
}

// Kind returns the kind using the mock function or the vm kind.
func (m *Mock) Kind() (netbox.Kind, error) {
	if m.KindFunc != nil {
		return m.KindFunc()
	}
	return netbox.LookupKind("vm")
}

// Codec returns the codec using the mock function or YAML.
func (m *Mock) Codec() (codec.Codec, error) {
	if m.CodecFunc != nil {
		return m.CodecFunc()
	}
	return codec.YAML{}, nil
}

// Inventory returns an inventory using the mock function or nil.
func (m *Mock) Inventory(ctx context.Context) (inventory.Inventory, error) {
	if m.InventoryFunc != nil {
		return m.InventoryFunc(ctx)
	}
	return nil, nil
}

// Reconciler returns a reconciler using the mock function or nil.
func (m *Mock) Reconciler(ctx context.Context, dir string) (reconciler.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc(ctx, dir)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "text".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "text"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
