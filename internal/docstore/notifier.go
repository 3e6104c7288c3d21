package docstore

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

type subscriber struct {
	prefix string
	events chan Event
}

// MemoryNotifier fans events out to in-process subscribers. Good for a
// single instance; delivery is best effort and a subscriber that falls
// behind loses events rather than blocking writers.
type MemoryNotifier struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (n *MemoryNotifier) Publish(ctx context.Context, event Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	path := event.Ref.Path()
	for sub := range n.subscribers {
		if !MatchesPrefix(path, sub.prefix) {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
}

func (n *MemoryNotifier) Subscribe(ctx context.Context, prefix string) (<-chan Event, func(), error) {
	sub := &subscriber{
		prefix: prefix,
		events: make(chan Event, subscriberBuffer),
	}

	n.mu.Lock()
	n.subscribers[sub] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subscribers[sub]; ok {
			delete(n.subscribers, sub)
			close(sub.events)
		}
	}

	return sub.events, cancel, nil
}
