package events

import (
	"context"
	"sync"
)

// Subscribers is an ordered list of hooks. Events are delivered to every
// subscriber in subscription order. The zero value is ready to use.
//
// Adding and removing subscribers is safe from any goroutine; a change made
// while an event is being delivered takes effect from the next event.
type Subscribers struct {
	mu    sync.RWMutex
	next  uint64
	hooks []subscription
}

type subscription struct {
	id   uint64
	hook Hook
}

var _ Hook = (*Subscribers)(nil)

// Add subscribes h and returns a function that removes it again.
func (s *Subscribers) Add(h Hook) (unsubscribe func()) {
	s.mu.Lock()
	s.next++
	id := s.next
	s.hooks = append(s.hooks, subscription{id: id, hook: h})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.hooks {
		if sub.id == id {
			s.hooks = append(s.hooks[:i:i], s.hooks[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (s *Subscribers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hooks)
}

// Publish delivers ev to every subscriber.
func (s *Subscribers) Publish(ctx context.Context, ev Event) {
	s.mu.RLock()
	hooks := s.hooks
	s.mu.RUnlock()
	for _, sub := range hooks {
		Dispatch(ctx, sub.hook, ev)
	}
}

func (s *Subscribers) OnTextChunk(ctx context.Context, ev TextChunk)       { s.Publish(ctx, ev) }
func (s *Subscribers) OnTextComplete(ctx context.Context, ev TextComplete) { s.Publish(ctx, ev) }
func (s *Subscribers) OnToolCall(ctx context.Context, ev ToolCall)         { s.Publish(ctx, ev) }
func (s *Subscribers) OnTurnComplete(ctx context.Context, ev TurnComplete) { s.Publish(ctx, ev) }
func (s *Subscribers) OnError(ctx context.Context, ev Error)               { s.Publish(ctx, ev) }
func (s *Subscribers) OnUsage(ctx context.Context, ev Usage)               { s.Publish(ctx, ev) }
