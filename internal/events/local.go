package events

import (
	"context"
	"sync"
	"sync/atomic"

	"formfitness/internal/logger"
)

const subscriberBuffer = 64

// Local fans events out to in-process subscribers. A slow subscriber loses
// events instead of blocking the publisher.
type Local struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Event
	nextID      atomic.Uint64
	closed      bool
}

func NewLocal() *Local {
	return &Local{subscribers: make(map[uint64]chan Event)}
}

func (l *Local) Publish(_ context.Context, e Event) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for id, ch := range l.subscribers {
		select {
		case ch <- e:
		default:
			logger.Warn("Event dropped for slow subscriber", "subscriber_id", id, "type", e.Type)
		}
	}
	return nil
}

func (l *Local) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	id := l.nextID.Add(1)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	l.subscribers[id] = ch
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			if c, ok := l.subscribers[id]; ok {
				delete(l.subscribers, id)
				close(c)
			}
			l.mu.Unlock()
		})
	}

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			cancel()
		}()
	}

	return ch, cancel
}

func (l *Local) SubscriberCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subscribers)
}

// Close ends every subscription. Events already buffered are still delivered.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, ch := range l.subscribers {
		delete(l.subscribers, id)
		close(ch)
	}
	l.closed = true
	return nil
}
