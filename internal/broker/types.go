package broker

import (
	"context"
	"log/slog"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/pkg/slogx"
)

type Broker interface {
	Topic(context.Context, string) Topic
}

type Topic interface {
	Publish(context.Context, events.Event) error
	Subscribe(context.Context, events.Hook) (Subscription, error)
}

type Subscription interface {
	ID() string
	Unsubscribe()
}

// Forward returns a hook that republishes every session event on t. Publish
// failures are logged and dropped so a broken topic never stalls the session.
func Forward(t Topic) events.Hook {
	return &forwarder{topic: t}
}

type forwarder struct {
	topic Topic
}

func (f *forwarder) publish(ctx context.Context, ev events.Event) {
	if err := f.topic.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to forward event", slogx.LoggerName("broker"), slog.String("type", ev.EventType()), slogx.Error(err))
	}
}

func (f *forwarder) OnTextChunk(ctx context.Context, ev events.TextChunk)       { f.publish(ctx, ev) }
func (f *forwarder) OnTextComplete(ctx context.Context, ev events.TextComplete) { f.publish(ctx, ev) }
func (f *forwarder) OnToolCall(ctx context.Context, ev events.ToolCall)         { f.publish(ctx, ev) }
func (f *forwarder) OnTurnComplete(ctx context.Context, ev events.TurnComplete) { f.publish(ctx, ev) }
func (f *forwarder) OnError(ctx context.Context, ev events.Error)               { f.publish(ctx, ev) }
func (f *forwarder) OnUsage(ctx context.Context, ev events.Usage)               { f.publish(ctx, ev) }
