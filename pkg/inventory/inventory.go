// Package inventory defines the contract between the reconciler and a
// remote system holding objects that carry a context value.
//
// Objects are created and deleted by the remote system only. Callers read
// them in bulk or one at a time, and replace a single object's context.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentstation/utc"

	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/errors"
)

// Object is a remote record with a context.
type Object struct {
	Name        string      `json:"name" yaml:"name"`
	ID          int         `json:"id" yaml:"id"`
	Context     codec.Value `json:"context" yaml:"context"`
	LastUpdated utc.Time    `json:"last_updated,omitzero" yaml:"last_updated,omitempty"`
}

// Selector addresses a single object by name or by id. Exactly one of the
// two must be set.
type Selector struct {
	Name string
	ID   int
}

// ByName selects an object by name.
func ByName(name string) Selector { return Selector{Name: name} }

// ByID selects an object by id.
func ByID(id int) Selector { return Selector{ID: id} }

// Validate checks that exactly one of Name and ID is set.
func (s Selector) Validate() error {
	switch {
	case s.Name == "" && s.ID == 0:
		return errors.NewValidationError("selector", s, "a name or an id is required")
	case s.Name != "" && s.ID != 0:
		return errors.NewValidationError("selector", s, "name and id are mutually exclusive")
	case s.ID < 0:
		return errors.NewValidationError("selector", s, "id must be positive")
	}
	return nil
}

// String renders the selector for messages.
func (s Selector) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("id %d", s.ID)
}

// Matches reports whether obj is addressed by s.
func (s Selector) Matches(obj Object) bool {
	if s.Name != "" {
		return obj.Name == s.Name
	}
	return obj.ID == s.ID
}

// Inventory is a remote store of objects of one kind.
type Inventory interface {
	// GetAll returns every object. An empty inventory yields an empty slice.
	GetAll(ctx context.Context) ([]Object, error)

	// GetOne returns the object addressed by sel, or a NotFoundError.
	GetOne(ctx context.Context, sel Selector) (Object, error)

	// Update replaces the context of the object addressed by sel. A
	// refused write is reported as an UpdateRejectedError.
	Update(ctx context.Context, sel Selector, value codec.Value) error
}

// Snapshot maps object names to their context at one point in time.
type Snapshot map[string]codec.Value

// NewSnapshot indexes objects by name. A name carried by more than one
// object cannot be addressed unambiguously, so it is left out of the
// snapshot and returned in the sorted list of ambiguous names.
func NewSnapshot(objects []Object) (Snapshot, []string) {
	s := make(Snapshot, len(objects))
	counts := make(map[string]int, len(objects))
	for _, obj := range objects {
		counts[obj.Name]++
		s[obj.Name] = obj.Context
	}

	var ambiguous []string
	for name, n := range counts {
		if n > 1 {
			delete(s, name)
			ambiguous = append(ambiguous, name)
		}
	}
	sort.Strings(ambiguous)
	return s, ambiguous
}

// Fetch reads a fresh snapshot from inv, along with the names shared by
// several objects.
func Fetch(ctx context.Context, inv Inventory) (Snapshot, []string, error) {
	objects, err := inv.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, ambiguous := NewSnapshot(objects)
	return s, ambiguous, nil
}

// Names returns the snapshot's names in lexical order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
