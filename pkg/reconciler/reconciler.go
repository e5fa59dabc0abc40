// Package reconciler keeps a directory of context files in step with a
// remote inventory.
//
// Every operation fetches one fresh snapshot of the inventory and works
// against it. A local file counts as changed only when its bytes differ
// from the codec's rendering of the remote context for the same name, so
// formatting the codec would produce anyway is never reported. Files with
// no remote counterpart are ignored.
package reconciler

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/filestore"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/logging"
)

// Reconciler synchronizes contexts between an inventory and a file store.
type Reconciler interface {
	// Pull writes every remote context to its file, overwriting.
	Pull(ctx context.Context) (*PullResult, error)

	// DetectChanges returns the changed files with their decoded
	// contexts, sorted by path. A changed file that cannot be decoded
	// is an error.
	DetectChanges(ctx context.Context) ([]Change, error)

	// Check returns the paths of changed files, sorted. It never decodes
	// file contents.
	Check(ctx context.Context) ([]string, error)

	// Push updates the remote context of every changed file, in path
	// order, and returns the paths updated. The first failure stops the
	// push; the paths updated before it are still returned.
	Push(ctx context.Context) ([]string, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	inv    inventory.Inventory
	store  *filestore.Store
	logger *zerolog.Logger
}

// New creates a Reconciler over inv and store.
func New(inv inventory.Inventory, store *filestore.Store, opts ...Option) (Reconciler, error) {
	if inv == nil {
		return nil, &errors.ValidationError{Field: "inventory", Message: "cannot be nil"}
	}
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{inv: inv, store: store, logger: options.logger}, nil
}

// begin tags the context logger with the operation and directory.
func (r *reconciler) begin(ctx context.Context, operation string) context.Context {
	if r.logger != nil {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	ctx = logging.WithOperation(ctx, operation)
	return logging.WithDirectory(ctx, r.store.Dir())
}

// Pull implements Reconciler.
func (r *reconciler) Pull(ctx context.Context) (*PullResult, error) {
	ctx = r.begin(ctx, "pull")
	logger := logging.FromContext(ctx)
	start := time.Now()

	snapshot, ambiguous, err := inventory.Fetch(ctx, r.inv)
	if err != nil {
		return nil, fmt.Errorf("fetching remote contexts: %w", err)
	}

	result := &PullResult{
		Directory: r.store.Dir(),
		Written:   make([]WrittenFile, 0, len(snapshot)),
		Ambiguous: ambiguous,
		StartTime: utc.New(start),
	}
	for _, name := range ambiguous {
		logging.FromContext(logging.WithObject(ctx, name)).Warn().Msg("Skipping name shared by several objects")
	}
	for _, name := range snapshot.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		objLogger := logging.FromContext(logging.WithObject(ctx, name))
		if err := filestore.ValidateName(name); err != nil {
			objLogger.Warn().Err(err).Msg("Skipping object")
			result.Skipped = append(result.Skipped, name)
			continue
		}
		path, err := r.store.Write(name, snapshot[name])
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		objLogger.Debug().Str("path", path).Msg("Wrote context")
		result.Written = append(result.Written, WrittenFile{Name: name, Path: path})
	}
	result.Duration = time.Since(start)

	logger.Info().
		Int("written", len(result.Written)).
		Int("skipped", len(result.Skipped)+len(result.Ambiguous)).
		Msg("Pulled contexts")
	return result, nil
}

// DetectChanges implements Reconciler.
func (r *reconciler) DetectChanges(ctx context.Context) ([]Change, error) {
	return r.detect(r.begin(ctx, "detect"), true)
}

// Check implements Reconciler.
func (r *reconciler) Check(ctx context.Context) ([]string, error) {
	changes, err := r.detect(r.begin(ctx, "check"), false)
	if err != nil {
		return nil, err
	}
	return Paths(changes), nil
}

// Push implements Reconciler.
func (r *reconciler) Push(ctx context.Context) ([]string, error) {
	ctx = r.begin(ctx, "push")

	changes, err := r.detect(ctx, true)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(changes))
	for _, change := range changes {
		objCtx := logging.WithObject(ctx, change.Name)
		logger := logging.FromContext(objCtx)
		if err := r.inv.Update(objCtx, inventory.ByName(change.Name), change.Context); err != nil {
			logger.Error().Err(err).Int("updated", len(updated)).Msg("Push stopped")
			return updated, fmt.Errorf("pushing %s: %w", change.Path, err)
		}
		logger.Info().Str("path", change.Path).Msg("Updated context")
		updated = append(updated, change.Path)
	}
	return updated, nil
}

// detect compares every local file against the rendering of its remote
// context. Decoding only happens when decode is set.
func (r *reconciler) detect(ctx context.Context, decode bool) ([]Change, error) {
	logger := logging.FromContext(ctx)
	snapshot, ambiguous, err := inventory.Fetch(ctx, r.inv)
	if err != nil {
		return nil, fmt.Errorf("fetching remote contexts: %w", err)
	}
	shared := make(map[string]bool, len(ambiguous))
	for _, name := range ambiguous {
		shared[name] = true
	}
	c := r.store.Codec()

	var changes []Change
	for file, err := range r.store.ReadAll() {
		if err != nil {
			return nil, err
		}
		remote, ok := snapshot[file.Name]
		if shared[file.Name] {
			logger.Warn().Str("path", file.Path).Msg("Ignoring file named after several remote objects")
			continue
		}
		if !ok {
			logger.Debug().Str("path", file.Path).Msg("Ignoring file without remote object")
			continue
		}
		canonical, err := c.Encode(remote)
		if err != nil {
			return nil, fmt.Errorf("rendering remote context of %s: %w", file.Name, err)
		}
		if bytes.Equal(file.Data, canonical) {
			logger.Debug().Str("path", file.Path).Msg("Unchanged")
			continue
		}

		change := Change{Name: file.Name, Path: file.Path}
		if decode {
			value, err := c.Decode(file.Data)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", file.Path, err)
			}
			change.Context = value
		}
		logging.FromContext(logging.WithObject(ctx, file.Name)).Info().Str("path", file.Path).Msg("Changed")
		changes = append(changes, change)
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}
