package palaver

import (
	"context"
	"log/slog"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/tool"
)

// ToolRunner closes the tool-call loop: it collects the tool calls of a turn,
// executes them off the loop goroutine once the turn completes, and posts the
// results back as the next turn. A call waiting for confirmation therefore
// never stalls the loop.
type ToolRunner struct {
	events.Funcs
	loop       *Loop
	dispatcher *tool.Dispatcher
	pending    []messages.ToolCall
	onResults  func([]messages.ToolCallResult)
}

// NewToolRunner creates a runner executing through d and answering through l.
func NewToolRunner(l *Loop, d *tool.Dispatcher) *ToolRunner {
	r := &ToolRunner{loop: l, dispatcher: d}
	r.Funcs = events.Funcs{
		ToolCall:     r.collect,
		TurnComplete: r.run,
		Error:        func(context.Context, events.Error) { r.pending = nil },
	}
	return r
}

// OnResults registers a callback invoked on the loop goroutine with each batch
// of results right before they are sent.
func (r *ToolRunner) OnResults(fn func([]messages.ToolCallResult)) *ToolRunner {
	r.onResults = fn
	return r
}

func (r *ToolRunner) collect(_ context.Context, ev events.ToolCall) {
	r.pending = append(r.pending, ev.Call)
}

func (r *ToolRunner) run(ctx context.Context, ev events.TurnComplete) {
	calls := r.pending
	r.pending = nil
	if len(calls) == 0 {
		return
	}

	go func() {
		results := r.dispatcher.ExecuteAll(ctx, calls)
		err := r.loop.Post(ctx, func(ctx context.Context, s *Session) {
			if r.onResults != nil {
				r.onResults(results)
			}
			if err := s.SendToolResults(ctx, results); err != nil {
				slog.WarnContext(ctx, "failed to send tool results", slogx.LoggerName("tool.runner"), slogx.Turn(ev.TurnID), slogx.Error(err))
			}
		})
		if err != nil {
			slog.WarnContext(ctx, "dropping tool results", slogx.LoggerName("tool.runner"), slogx.Turn(ev.TurnID), slogx.Error(err))
		}
	}()
}
