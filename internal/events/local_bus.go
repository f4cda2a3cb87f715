package events

import (
	"context"
	"sync"

	"github.com/yoockh/skillsync/internal/models"
)

// LocalBus fans events out inside one process. Slow subscribers drop events
// rather than block publishers.
type LocalBus struct {
	mu   sync.RWMutex
	subs map[string]map[chan models.SessionEvent]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: map[string]map[chan models.SessionEvent]struct{}{}}
}

func (b *LocalBus) Publish(_ context.Context, ev models.SessionEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, sessionID string) (<-chan models.SessionEvent, func(), error) {
	ch := make(chan models.SessionEvent, 16)

	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = map[chan models.SessionEvent]struct{}{}
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			b.mu.Lock()
			delete(b.subs[sessionID], ch)
			if len(b.subs[sessionID]) == 0 {
				delete(b.subs, sessionID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		stop()
	}()

	return ch, stop, nil
}
