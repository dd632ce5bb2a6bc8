package routetable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routeregistry/internal/registry"
	"github.com/vyrodovalexey/routeregistry/internal/route"
)

func routeIDs(defs []route.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}

func TestTable_EmptyBeforeRefresh(t *testing.T) {
	t.Parallel()

	table := New(registry.NewInMemory())

	assert.False(t, table.Ready())
	assert.Nil(t, table.Snapshot())
	_, ok := table.Lookup("r1")
	assert.False(t, ok)
}

func TestTable_Refresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := registry.NewInMemory()
	for _, d := range []route.Definition{
		{ID: "late", URI: "http://late", Order: 10},
		{ID: "early", URI: "http://early", Order: -1},
		{ID: "mid", URI: "http://mid"},
	} {
		require.NoError(t, registry.SaveDefinition(ctx, repo, d))
	}

	table := New(repo)
	first := table.Refresh(ctx)

	assert.True(t, table.Ready())
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, []string{"early", "mid", "late"}, routeIDs(table.Snapshot().Routes))

	got, ok := table.Lookup("mid")
	require.True(t, ok)
	assert.Equal(t, "http://mid", got.URI)

	require.NoError(t, registry.DeleteDefinition(ctx, repo, "mid"))
	assert.Equal(t, []string{"early", "mid", "late"}, routeIDs(table.Snapshot().Routes), "snapshot is stable until refresh")

	second := table.Refresh(ctx)
	assert.Equal(t, uint64(2), second.Version)
	assert.Equal(t, []string{"early", "late"}, routeIDs(table.Snapshot().Routes))
	_, ok = table.Lookup("mid")
	assert.False(t, ok)

	assert.Len(t, first.Routes, 3, "old snapshot is not modified")
}

func TestTable_LookupReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := registry.NewInMemory()
	require.NoError(t, registry.SaveDefinition(ctx, repo, route.Definition{
		ID:       "r1",
		URI:      "http://a",
		Metadata: map[string]string{"k": "v"},
	}))

	table := New(repo)
	table.Refresh(ctx)

	first, ok := table.Lookup("r1")
	require.True(t, ok)
	first.Metadata["k"] = "changed"

	got, ok := table.Lookup("r1")
	require.True(t, ok)
	assert.Equal(t, "v", got.Metadata["k"])
	assert.Equal(t, "v", table.Snapshot().Routes[0].Metadata["k"])
}

func TestTable_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := registry.NewPublisher(registry.NewInMemory())
	events, unsubscribe := pub.Subscribe(16)
	defer unsubscribe()

	table := New(pub)
	done := make(chan struct{})
	go func() {
		table.Run(ctx, events)
		close(done)
	}()

	require.Eventually(t, table.Ready, time.Second, 5*time.Millisecond)

	require.NoError(t, registry.SaveDefinition(ctx, pub, route.Definition{ID: "r1", URI: "http://a"}))
	require.Eventually(t, func() bool {
		_, ok := table.Lookup("r1")
		return ok
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, registry.DeleteDefinition(ctx, pub, "r1"))
	require.Eventually(t, func() bool {
		_, ok := table.Lookup("r1")
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestTable_RunStopsWhenEventsClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := registry.NewInMemory()
	table := New(repo)

	events := make(chan registry.ChangeEvent, 4)
	require.NoError(t, registry.SaveDefinition(ctx, repo, route.Definition{ID: "r1", URI: "http://a"}))
	events <- registry.ChangeEvent{Kind: registry.ChangeSaved, ID: "r1"}
	events <- registry.ChangeEvent{Kind: registry.ChangeSaved, ID: "r1"}
	close(events)

	done := make(chan struct{})
	go func() {
		table.Run(ctx, events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the event channel closed")
	}

	assert.Equal(t, []string{"r1"}, routeIDs(table.Snapshot().Routes))
	assert.Equal(t, uint64(2), table.Snapshot().Version, "queued events coalesce into one refresh")
}
