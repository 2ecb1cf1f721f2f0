// Package changes provides the in-process change-notification stream the
// derived views react to. Store adapters publish a tick for an entity kind on
// every successful write; subscribers recompute their view from fresh snapshot
// reads whenever any kind they joined ticks.
package changes

import (
	"context"
	"sync"
)

// Kind identifies which entity collection changed.
type Kind string

const (
	KindAccount     Kind = "account"
	KindTransaction Kind = "transaction"
	KindCategory    Kind = "category"
	KindCurrency    Kind = "currency"
	KindProfile     Kind = "profile"
)

// Broker fans change ticks out to subscribers. Delivery is coalescing: each
// subscriber channel buffers a single pending tick, and further ticks are
// dropped while one is pending. That is sufficient because consumers always
// recompute from the latest store snapshot, never from the tick itself.
type Broker struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

type subscription struct {
	kinds map[Kind]struct{}
	ch    chan Kind
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[*subscription]struct{})}
}

// Subscribe returns a channel that receives a tick whenever any of the given
// kinds is published. The subscription is removed and the channel closed when
// ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context, kinds ...Kind) <-chan Kind {
	sub := &subscription{
		kinds: make(map[Kind]struct{}, len(kinds)),
		ch:    make(chan Kind, 1),
	}
	for _, k := range kinds {
		sub.kinds[k] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// Publish notifies every subscriber interested in kind. It never blocks.
func (b *Broker) Publish(kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if _, ok := sub.kinds[kind]; !ok {
			continue
		}
		select {
		case sub.ch <- kind:
		default:
			// A tick is already pending; the subscriber will see fresh state.
		}
	}
}
