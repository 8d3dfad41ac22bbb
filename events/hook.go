package events

import (
	"context"
	"sync"
)

// Hook receives session events. Methods are called synchronously on the
// goroutine driving the session and must not block for long.
type Hook interface {
	OnTextChunk(ctx context.Context, ev TextChunk)
	OnTextComplete(ctx context.Context, ev TextComplete)
	OnToolCall(ctx context.Context, ev ToolCall)
	OnTurnComplete(ctx context.Context, ev TurnComplete)
	OnError(ctx context.Context, ev Error)
	OnUsage(ctx context.Context, ev Usage)
}

// Dispatch routes ev to the matching method of h.
func Dispatch(ctx context.Context, h Hook, ev Event) {
	switch e := ev.(type) {
	case TextChunk:
		h.OnTextChunk(ctx, e)
	case TextComplete:
		h.OnTextComplete(ctx, e)
	case ToolCall:
		h.OnToolCall(ctx, e)
	case TurnComplete:
		h.OnTurnComplete(ctx, e)
	case Error:
		h.OnError(ctx, e)
	case Usage:
		h.OnUsage(ctx, e)
	}
}

// Funcs adapts optional callbacks to a Hook. Nil fields are skipped.
type Funcs struct {
	TextChunk    func(context.Context, TextChunk)
	TextComplete func(context.Context, TextComplete)
	ToolCall     func(context.Context, ToolCall)
	TurnComplete func(context.Context, TurnComplete)
	Error        func(context.Context, Error)
	Usage        func(context.Context, Usage)
}

var _ Hook = Funcs{}

func (f Funcs) OnTextChunk(ctx context.Context, ev TextChunk) {
	if f.TextChunk != nil {
		f.TextChunk(ctx, ev)
	}
}

func (f Funcs) OnTextComplete(ctx context.Context, ev TextComplete) {
	if f.TextComplete != nil {
		f.TextComplete(ctx, ev)
	}
}

func (f Funcs) OnToolCall(ctx context.Context, ev ToolCall) {
	if f.ToolCall != nil {
		f.ToolCall(ctx, ev)
	}
}

func (f Funcs) OnTurnComplete(ctx context.Context, ev TurnComplete) {
	if f.TurnComplete != nil {
		f.TurnComplete(ctx, ev)
	}
}

func (f Funcs) OnError(ctx context.Context, ev Error) {
	if f.Error != nil {
		f.Error(ctx, ev)
	}
}

func (f Funcs) OnUsage(ctx context.Context, ev Usage) {
	if f.Usage != nil {
		f.Usage(ctx, ev)
	}
}

// Collector is a Hook that records every event it receives, in order.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

var _ Hook = (*Collector)(nil)

func (c *Collector) record(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Reset forgets everything recorded so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

func (c *Collector) OnTextChunk(_ context.Context, ev TextChunk)       { c.record(ev) }
func (c *Collector) OnTextComplete(_ context.Context, ev TextComplete) { c.record(ev) }
func (c *Collector) OnToolCall(_ context.Context, ev ToolCall)         { c.record(ev) }
func (c *Collector) OnTurnComplete(_ context.Context, ev TurnComplete) { c.record(ev) }
func (c *Collector) OnError(_ context.Context, ev Error)               { c.record(ev) }
func (c *Collector) OnUsage(_ context.Context, ev Usage)               { c.record(ev) }

// OfType filters events down to one concrete type.
func OfType[T Event](evs []Event) []T {
	var out []T
	for _, ev := range evs {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}
