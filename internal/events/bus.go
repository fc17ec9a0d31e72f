// Package events fans out cross-widget notifications (cart and wishlist
// changes) to the open browser tabs of the same user.
package events

import (
	"log/slog"
	"sync"
	"time"
)

const (
	CartUpdated     = "cart-updated"
	WishlistUpdated = "wishlist-updated"
)

const subscriberBuffer = 16

type Event struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Bus is an in-process publish/subscribe hub keyed by user scope.
// Delivery is fire-and-forget: a full subscriber buffer drops the event.
type Bus struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	closed bool
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{subs: make(map[string]map[chan Event]struct{}), logger: logger}
}

// Subscribe registers a listener for scope. The returned func unsubscribes
// and closes the channel; it is safe to call more than once. After Close the
// channel comes back already closed.
func (b *Bus) Subscribe(scope string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	set, ok := b.subs[scope]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[scope] = set
	}
	set[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		set, ok := b.subs[scope]
		if !ok {
			return
		}
		if _, ok := set[ch]; !ok {
			return
		}
		delete(set, ch)
		if len(set) == 0 {
			delete(b.subs, scope)
		}
		close(ch)
	}
}

// Close ends every open stream. Run it when the server starts shutting down:
// streams never finish on their own and would hold Shutdown until its
// deadline.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	n := 0
	for scope, set := range b.subs {
		for ch := range set {
			close(ch)
			n++
		}
		delete(b.subs, scope)
	}
	b.logger.Info("event streams closed", slog.Int("streams", n))
}

func (b *Bus) Publish(scope, topic string) {
	if scope == "" {
		return
	}
	ev := Event{Topic: topic, At: time.Now().UTC()}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[scope] {
		select {
		case ch <- ev:
		default:
			b.logger.Debug("event dropped", slog.String("topic", topic))
		}
	}
}

// Subscribers reports the number of listeners for scope.
func (b *Bus) Subscribers(scope string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[scope])
}
