package sentinels

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/sentinels/internal/log"
)

const eventBufferSize = 16

// broker fans registry lifecycle events out to subscribers. Publish never
// blocks: a subscriber that falls behind loses events rather than stalling
// the create path.
type broker struct {
	mu   sync.RWMutex
	subs map[string]chan Event
	done chan struct{}
}

func newBroker() *broker {
	return &broker{
		subs: make(map[string]chan Event),
		done: make(chan struct{}),
	}
}

// subscribe returns a channel of events that closes when ctx is cancelled or
// the broker shuts down.
func (b *broker) subscribe(ctx context.Context) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event)
		close(ch)
		return ch
	default:
	}

	id := uuid.NewString()
	ch := make(chan Event, eventBufferSize)
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()

		select {
		case <-b.done:
			return
		default:
		}

		delete(b.subs, id)
		close(ch)
	}()

	log.Debug(log.CatEvents, "subscriber added", "id", id)
	return ch
}

func (b *broker) publish(typ EventType, registry, key string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	ev := Event{
		Type:     typ,
		Registry: registry,
		Key:      key,
		Time:     time.Now(),
	}

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Warn(log.CatEvents, "subscriber full, event dropped", "id", id, "type", typ)
		}
	}
}

// close shuts the broker down and closes every subscriber channel.
func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	close(b.done)
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

func (b *broker) subscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
