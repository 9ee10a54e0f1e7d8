// Package realtime fans out state change notifications to presentation subscribers.
package realtime

import "sync"

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Broadcaster publishes values to every subscriber without ever blocking the
// publisher. A subscriber that falls behind misses values; the next one it
// receives supersedes them.
type Broadcaster[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{
		subs: make(map[chan T]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Broadcaster[T]) Subscribe() chan T {
	ch := make(chan T, DefaultBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers v to all subscribers.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
	b.mu.Unlock()
}

// Len returns the number of subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everyone.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
