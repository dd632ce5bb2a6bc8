// Package registry holds the set of active route definitions.
//
// The Repository contract has three operations. Save and Delete accept
// lazily produced input and return immediately with an async.Completion
// that reports the outcome. List returns a restartable sequence; every
// range over it takes a fresh snapshot.
//
//	repo := registry.NewInMemory()
//	if err := repo.Save(ctx, async.Just(def)).Wait(ctx); err != nil {
//	    // util.ErrInvalidDefinition for an empty id
//	}
//	for def := range repo.List(ctx) {
//	    ...
//	}
//	err := repo.Delete(ctx, async.Just("orders")).Wait(ctx)
//	// errors.Is(err, util.ErrNotFound) when no such route exists
//
// InMemory is the reference implementation. Instrumented and Publisher
// wrap any Repository with logs, metrics, spans and change events, and
// Syncer keeps the routes loaded from configuration in step with reloads.
package registry
