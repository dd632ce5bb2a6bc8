package registry

import (
	"context"
	"iter"
	"sync"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// ChangeKind describes a registry mutation.
type ChangeKind string

// Change kinds.
const (
	ChangeSaved   ChangeKind = "saved"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent is broadcast after a mutation completed successfully.
type ChangeEvent struct {
	Kind ChangeKind
	ID   string
}

// Publisher wraps a Repository and notifies subscribers of successful
// mutations. Delivery never blocks a mutation: a subscriber whose buffer
// is full misses the event and is expected to re-list.
type Publisher struct {
	inner       Repository
	logger      observability.Logger
	subscribers map[int]chan ChangeEvent
	nextID      int
	closed      bool
	mu          sync.RWMutex
}

// PublisherOption is a functional option for configuring Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger.
func WithPublisherLogger(logger observability.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher wraps inner.
func NewPublisher(inner Repository, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		inner:       inner,
		logger:      observability.NopLogger(),
		subscribers: make(map[int]chan ChangeEvent),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Save implements Writer.
func (p *Publisher) Save(ctx context.Context, def async.Deferred[route.Definition]) *async.Completion {
	var id string
	c := p.inner.Save(ctx, captureDefinitionID(def, &id))
	return then(ctx, c, func(err error) {
		if err == nil {
			p.publish(ChangeEvent{Kind: ChangeSaved, ID: id})
		}
	})
}

// Delete implements Writer.
func (p *Publisher) Delete(ctx context.Context, id async.Deferred[string]) *async.Completion {
	var routeID string
	c := p.inner.Delete(ctx, captureID(id, &routeID))
	return then(ctx, c, func(err error) {
		if err == nil {
			p.publish(ChangeEvent{Kind: ChangeDeleted, ID: routeID})
		}
	})
}

// List implements Locator.
func (p *Publisher) List(ctx context.Context) iter.Seq[route.Definition] {
	return p.inner.List(ctx)
}

// Subscribe registers a subscriber with the given channel buffer. The
// returned function unsubscribes and closes the channel.
func (p *Publisher) Subscribe(buffer int) (<-chan ChangeEvent, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan ChangeEvent, buffer)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := p.nextID
	p.nextID++
	p.subscribers[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subscribers[id]; ok {
				delete(p.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close closes every subscriber channel. Mutations keep working but no
// longer publish.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}
}

func (p *Publisher) publish(event ChangeEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, ch := range p.subscribers {
		select {
		case ch <- event:
		default:
			p.logger.Warn("dropping route change event for slow subscriber",
				observability.String("route_id", event.ID),
				observability.String("kind", string(event.Kind)),
			)
		}
	}
}
