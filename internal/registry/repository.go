package registry

import (
	"context"
	"iter"
	"slices"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// Locator yields route definitions.
type Locator interface {
	// List returns a finite, restartable sequence of definitions. Each
	// iteration observes a consistent snapshot.
	List(ctx context.Context) iter.Seq[route.Definition]
}

// Writer mutates the stored route definitions.
type Writer interface {
	// Save stores the produced definition under its id, replacing any
	// existing entry. It fails with util.ErrInvalidDefinition when the id
	// is empty.
	Save(ctx context.Context, def async.Deferred[route.Definition]) *async.Completion

	// Delete removes the definition with the produced id. It fails with
	// util.ErrNotFound when no such definition exists.
	Delete(ctx context.Context, id async.Deferred[string]) *async.Completion
}

// Repository is the full registry contract.
type Repository interface {
	Locator
	Writer
}

// SaveDefinition saves def and waits for the outcome.
func SaveDefinition(ctx context.Context, w Writer, def route.Definition) error {
	return w.Save(ctx, async.Just(def)).Wait(ctx)
}

// DeleteDefinition deletes id and waits for the outcome.
func DeleteDefinition(ctx context.Context, w Writer, id string) error {
	return w.Delete(ctx, async.Just(id)).Wait(ctx)
}

// Collect drains one listing into a slice.
func Collect(ctx context.Context, l Locator) []route.Definition {
	return slices.Collect(l.List(ctx))
}

// Find returns the definition with the given id from one listing.
func Find(ctx context.Context, l Locator, id string) (route.Definition, bool) {
	for def := range l.List(ctx) {
		if def.ID == id {
			return def, true
		}
	}
	return route.Definition{}, false
}
