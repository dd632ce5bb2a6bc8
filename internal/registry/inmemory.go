package registry

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

// InMemory is a Repository backed by a mutex-guarded map. Enumeration
// follows the order in which ids were first saved.
type InMemory struct {
	routes map[string]route.Definition
	ids    []string
	logger observability.Logger
	mu     sync.RWMutex
}

// InMemoryOption is a functional option for configuring InMemory.
type InMemoryOption func(*InMemory)

// WithInMemoryLogger sets the logger.
func WithInMemoryLogger(logger observability.Logger) InMemoryOption {
	return func(r *InMemory) {
		r.logger = logger
	}
}

// NewInMemory creates an empty in-memory repository.
func NewInMemory(opts ...InMemoryOption) *InMemory {
	r := &InMemory{
		routes: make(map[string]route.Definition),
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Save implements Writer.
func (r *InMemory) Save(ctx context.Context, def async.Deferred[route.Definition]) *async.Completion {
	return async.Go(ctx, func(ctx context.Context) error {
		d, err := def.Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve route definition: %w", err)
		}
		if d.ID == "" {
			return util.NewInvalidDefinitionError("", "id must not be empty")
		}

		r.put(d.Clone())

		r.logger.Debug("route definition saved",
			observability.String("route_id", d.ID),
			observability.String("uri", d.URI),
		)
		return nil
	})
}

// Delete implements Writer.
func (r *InMemory) Delete(ctx context.Context, id async.Deferred[string]) *async.Completion {
	return async.Go(ctx, func(ctx context.Context) error {
		routeID, err := id.Resolve(ctx)
		if err != nil {
			return fmt.Errorf("resolve route id: %w", err)
		}

		if !r.remove(routeID) {
			return util.NewRouteNotFoundError(routeID)
		}

		r.logger.Debug("route definition deleted",
			observability.String("route_id", routeID),
		)
		return nil
	})
}

// List implements Locator. The snapshot is taken when iteration starts, so
// ranging over the same sequence twice may observe different contents.
func (r *InMemory) List(_ context.Context) iter.Seq[route.Definition] {
	return func(yield func(route.Definition) bool) {
		for _, def := range r.snapshot() {
			if !yield(def) {
				return
			}
		}
	}
}

// Len returns the number of stored definitions.
func (r *InMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

func (r *InMemory) put(def route.Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[def.ID]; !exists {
		r.ids = append(r.ids, def.ID)
	}
	r.routes[def.ID] = def
}

func (r *InMemory) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[id]; !exists {
		return false
	}
	delete(r.routes, id)
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
	return true
}

// snapshot copies every stored definition in enumeration order. Stored
// values are replaced, never modified in place, so the deep copy can be
// made outside the lock.
func (r *InMemory) snapshot() []route.Definition {
	r.mu.RLock()
	out := make([]route.Definition, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.routes[id])
	}
	r.mu.RUnlock()

	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
