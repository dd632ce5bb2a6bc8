package registry

import (
	"context"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// captureDefinitionID wraps def so the resolved id is written to id. The
// write happens before the consuming operation completes, so id may be
// read once the operation's completion is done.
func captureDefinitionID(def async.Deferred[route.Definition], id *string) async.Deferred[route.Definition] {
	return func(ctx context.Context) (route.Definition, error) {
		d, err := def.Resolve(ctx)
		*id = d.ID
		return d, err
	}
}

// captureID wraps a deferred id the same way.
func captureID(d async.Deferred[string], id *string) async.Deferred[string] {
	return func(ctx context.Context) (string, error) {
		v, err := d.Resolve(ctx)
		*id = v
		return v, err
	}
}

// then returns a completion that finishes after c with the same error,
// running fn with that error first.
func then(ctx context.Context, c *async.Completion, fn func(err error)) *async.Completion {
	return async.Go(ctx, func(context.Context) error {
		<-c.Done()
		err := c.Err()
		fn(err)
		return err
	})
}
