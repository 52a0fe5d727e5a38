// Package live notifies subscribers when an owner's items change.
package live

import (
	"context"
	"sync"
)

// Broker fans out change notifications per owner. A notification carries no
// payload; subscribers re-read whatever they display.
type Broker interface {
	Publish(ctx context.Context, ownerID int64) error
	Subscribe(ownerID int64) (<-chan struct{}, func())
}

// LocalBroker is an in-process Broker. Notifications to a slow subscriber
// coalesce: at most one is pending per subscriber.
type LocalBroker struct {
	mu   sync.Mutex
	subs map[int64]map[chan struct{}]struct{}
}

// NewLocalBroker returns an empty in-process broker.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[int64]map[chan struct{}]struct{})}
}

// Publish notifies every subscriber of ownerID. It never blocks.
func (b *LocalBroker) Publish(_ context.Context, ownerID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[ownerID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe registers for ownerID's notifications. The returned cancel
// function unregisters and closes the channel; it is safe to call twice.
func (b *LocalBroker) Subscribe(ownerID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan struct{}]struct{})
	}
	b.subs[ownerID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[ownerID], ch)
			if len(b.subs[ownerID]) == 0 {
				delete(b.subs, ownerID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions for ownerID.
func (b *LocalBroker) Subscribers(ownerID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[ownerID])
}
