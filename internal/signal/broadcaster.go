// Package signal fans permission-refresh notifications out to in-process
// subscribers and bridges them across instances over Redis pub/sub.
package signal

import "sync"

// Broadcaster delivers refresh notifications to subscribers. Delivery is
// non-blocking: a subscriber that has not drained its channel coalesces
// signals instead of stalling the broadcast.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[chan string]struct{}{}}
}

// Subscribe registers a new subscriber channel.
func (b *Broadcaster) Subscribe() chan string {
	ch := make(chan string, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Broadcast delivers the reason to every subscriber without blocking.
func (b *Broadcaster) Broadcast(reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- reason:
		default:
		}
	}
}
