package routetable

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/registry"
	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// Snapshot is one published view of the routes. It must not be modified.
type Snapshot struct {
	Routes    []route.Definition
	Version   uint64
	UpdatedAt time.Time

	byID map[string]int
}

// Lookup returns the route with the given id.
func (s *Snapshot) Lookup(id string) (route.Definition, bool) {
	i, ok := s.byID[id]
	if !ok {
		return route.Definition{}, false
	}
	return s.Routes[i].Clone(), true
}

// Table holds the current snapshot.
type Table struct {
	source   registry.Locator
	logger   observability.Logger
	current  atomic.Pointer[Snapshot]
	versions atomic.Uint64
}

// Option is a functional option for configuring Table.
type Option func(*Table)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// New creates a table over source. The table is empty until the first
// Refresh.
func New(source registry.Locator, opts ...Option) *Table {
	t := &Table{
		source: registry.NewOrderedLocator(source),
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Refresh lists the source and publishes the result. It returns the new
// snapshot.
func (t *Table) Refresh(ctx context.Context) *Snapshot {
	routes := registry.Collect(ctx, t.source)

	byID := make(map[string]int, len(routes))
	for i, r := range routes {
		byID[r.ID] = i
	}

	snap := &Snapshot{
		Routes:    routes,
		Version:   t.versions.Add(1),
		UpdatedAt: time.Now(),
		byID:      byID,
	}
	t.current.Store(snap)

	t.logger.Debug("route table refreshed",
		observability.Int("routes", len(routes)),
		observability.Uint64("version", snap.Version),
	)

	return snap
}

// Snapshot returns the current snapshot, or nil before the first Refresh.
func (t *Table) Snapshot() *Snapshot {
	return t.current.Load()
}

// Ready reports whether the table has been refreshed at least once.
func (t *Table) Ready() bool {
	return t.current.Load() != nil
}

// Lookup returns the route with the given id from the current snapshot.
func (t *Table) Lookup(id string) (route.Definition, bool) {
	snap := t.current.Load()
	if snap == nil {
		return route.Definition{}, false
	}
	return snap.Lookup(id)
}

// Run refreshes the table once and then again after every change event
// until ctx is done or events is closed. Events that arrive while a
// refresh is pending are coalesced into one refresh.
func (t *Table) Run(ctx context.Context, events <-chan registry.ChangeEvent) {
	t.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.logger.Debug("route change received",
				observability.String("route_id", ev.ID),
				observability.String("kind", string(ev.Kind)),
			)
			open := drain(events)
			t.Refresh(ctx)
			if !open {
				return
			}
		}
	}
}

// drain consumes queued events without blocking. It returns false when
// events was closed.
func drain(events <-chan registry.ChangeEvent) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
