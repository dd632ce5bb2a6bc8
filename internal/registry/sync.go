package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

// defaultSyncConcurrency bounds the number of in-flight registry calls
// issued by one Apply.
const defaultSyncConcurrency = 16

// Syncer loads the routes declared in configuration into a repository and
// keeps them in step across reloads. It only ever deletes ids that an
// earlier Apply saved, so routes created through the admin API survive a
// reload.
type Syncer struct {
	repo        Writer
	logger      observability.Logger
	metrics     *observability.Metrics
	owned       map[string]struct{}
	concurrency int
	mu          sync.Mutex
}

// SyncerOption is a functional option for configuring Syncer.
type SyncerOption func(*Syncer)

// WithSyncLogger sets the logger.
func WithSyncLogger(logger observability.Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithSyncMetrics sets the metrics sink.
func WithSyncMetrics(metrics *observability.Metrics) SyncerOption {
	return func(s *Syncer) {
		s.metrics = metrics
	}
}

// WithSyncConcurrency bounds the number of concurrent registry calls.
func WithSyncConcurrency(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSyncer creates a Syncer writing to repo.
func NewSyncer(repo Writer, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		repo:        repo,
		logger:      observability.NopLogger(),
		owned:       make(map[string]struct{}),
		concurrency: defaultSyncConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Apply saves every definition in defs and deletes the ids a previous
// Apply saved that defs no longer contains. When defs repeats an id the
// last occurrence wins. All failures are returned joined; successful
// writes are kept.
func (s *Syncer) Apply(ctx context.Context, defs []route.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := make(map[string]route.Definition, len(defs))
	order := make([]string, 0, len(defs))
	for _, d := range defs {
		if _, seen := latest[d.ID]; !seen {
			order = append(order, d.ID)
		}
		latest[d.ID] = d
	}

	var (
		errsMu sync.Mutex
		errs   []error
		saved  = make(map[string]struct{}, len(order))
		kept   = make(map[string]struct{})
	)
	record := func(err error) {
		errsMu.Lock()
		errs = append(errs, err)
		errsMu.Unlock()
	}

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, id := range order {
		def := latest[id]
		g.Go(func() error {
			if err := SaveDefinition(ctx, s.repo, def); err != nil {
				record(util.WrapError(err, fmt.Sprintf("save route %q", def.ID)))
				return nil
			}
			errsMu.Lock()
			saved[def.ID] = struct{}{}
			errsMu.Unlock()
			return nil
		})
	}

	for id := range s.owned {
		if _, still := latest[id]; still {
			continue
		}
		g.Go(func() error {
			err := DeleteDefinition(ctx, s.repo, id)
			switch {
			case err == nil, errors.Is(err, util.ErrNotFound):
			default:
				record(util.WrapError(err, fmt.Sprintf("delete stale route %q", id)))
				errsMu.Lock()
				kept[id] = struct{}{}
				errsMu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	removed := 0
	for id := range s.owned {
		if _, still := latest[id]; !still {
			if _, failed := kept[id]; !failed {
				removed++
			}
		}
	}

	// A previously owned route whose save failed stays owned so a later
	// reload can still remove it.
	for id := range s.owned {
		if _, still := latest[id]; still {
			kept[id] = struct{}{}
		}
	}
	s.owned = saved
	for id := range kept {
		s.owned[id] = struct{}{}
	}

	err := errors.Join(errs...)
	s.report(len(saved), removed, err)
	return err
}

// Owned returns the ids currently managed by the syncer.
func (s *Syncer) Owned() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.owned))
	for id := range s.owned {
		ids = append(ids, id)
	}
	return ids
}

func (s *Syncer) report(saved, removed int, err error) {
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSync(observability.ResultError)
		}
		s.logger.Error("configuration routes partially applied",
			observability.Int("saved", saved),
			observability.Int("removed", removed),
			observability.Error(err),
		)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSync(observability.ResultSuccess)
	}
	s.logger.Info("configuration routes applied",
		observability.Int("saved", saved),
		observability.Int("removed", removed),
	)
}
