// Package memory provides an in-process Inventory used in place of the
// remote system by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/inventory"
)

// Inventory is a map-backed inventory.Inventory.
type Inventory struct {
	mu       sync.RWMutex
	resource string
	objects  map[string]inventory.Object
	nextID   int
	rejects  map[string]error
	getErr   error
	updates  []inventory.Selector
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithResource sets the resource noun used in error messages.
func WithResource(resource string) Option {
	return func(inv *Inventory) {
		inv.resource = resource
	}
}

// New creates an empty inventory.
func New(opts ...Option) *Inventory {
	inv := &Inventory{
		resource: "object",
		objects:  make(map[string]inventory.Object),
		rejects:  make(map[string]error),
		nextID:   1,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// FromSnapshot creates an inventory holding one object per snapshot entry,
// with ids assigned in name order.
func FromSnapshot(s inventory.Snapshot, opts ...Option) *Inventory {
	inv := New(opts...)
	for _, name := range s.Names() {
		inv.Add(name, s[name])
	}
	return inv
}

// Add inserts or replaces an object and returns its id.
func (m *Inventory) Add(name string, value codec.Value) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if obj, ok := m.objects[name]; ok {
		obj.Context = contextOrEmpty(value)
		obj.LastUpdated = utc.Now()
		m.objects[name] = obj
		return obj.ID
	}
	obj := inventory.Object{
		Name:        name,
		ID:          m.nextID,
		Context:     contextOrEmpty(value),
		LastUpdated: utc.Now(),
	}
	m.nextID++
	m.objects[name] = obj
	return obj.ID
}

// Reject makes every update to name fail with err. A nil err clears it.
func (m *Inventory) Reject(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.rejects, name)
		return
	}
	m.rejects[name] = err
}

// FailReads makes GetAll and GetOne fail with err. A nil err clears it.
func (m *Inventory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// Updates returns the selectors of all successful updates, in call order.
func (m *Inventory) Updates() []inventory.Selector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]inventory.Selector(nil), m.updates...)
}

// GetAll implements inventory.Inventory.
func (m *Inventory) GetAll(ctx context.Context) ([]inventory.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}

	objects := make([]inventory.Object, 0, len(m.objects))
	for _, obj := range m.objects {
		objects = append(objects, obj)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].ID < objects[j].ID })
	return objects, nil
}

// GetOne implements inventory.Inventory.
func (m *Inventory) GetOne(ctx context.Context, sel inventory.Selector) (inventory.Object, error) {
	if err := sel.Validate(); err != nil {
		return inventory.Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return inventory.Object{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return inventory.Object{}, m.getErr
	}
	return m.lookup(sel)
}

// Update implements inventory.Inventory.
func (m *Inventory) Update(ctx context.Context, sel inventory.Selector, value codec.Value) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, err := m.lookup(sel)
	if err != nil {
		return err
	}
	if reject, ok := m.rejects[obj.Name]; ok {
		return reject
	}
	obj.Context = contextOrEmpty(value)
	obj.LastUpdated = utc.Now()
	m.objects[obj.Name] = obj
	m.updates = append(m.updates, sel)
	return nil
}

// lookup must be called with the lock held.
func (m *Inventory) lookup(sel inventory.Selector) (inventory.Object, error) {
	if sel.Name != "" {
		if obj, ok := m.objects[sel.Name]; ok {
			return obj, nil
		}
	} else {
		for _, obj := range m.objects {
			if obj.ID == sel.ID {
				return obj, nil
			}
		}
	}
	return inventory.Object{}, errors.NewNotFoundError(m.resource, sel.String())
}

func contextOrEmpty(value codec.Value) codec.Value {
	if value == nil {
		return map[string]any{}
	}
	return codec.Normalize(value)
}
