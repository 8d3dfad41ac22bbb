package broker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/pkg/uuidx"
	"github.com/nats-io/nats.go"
)

type publishFunc func(subject string, data []byte) error

type subscribeFunc func(subject string, handler nats.MsgHandler) (unsubscribe func() error, err error)

// NATSBroker publishes events as JSON on a subject per topic, so processes
// other than the host can follow a session.
type NATSBroker struct {
	publish   publishFunc
	subscribe subscribeFunc
	topics    *haxmap.Map[string, *natsTopic]
}

func NATS(client *nats.Conn) *NATSBroker {
	return newNATSBroker(client.Publish, func(subject string, handler nats.MsgHandler) (func() error, error) {
		sub, err := client.Subscribe(subject, handler)
		if err != nil {
			return nil, err
		}
		return sub.Unsubscribe, nil
	})
}

func newNATSBroker(publish publishFunc, subscribe subscribeFunc) *NATSBroker {
	return &NATSBroker{
		publish:   publish,
		subscribe: subscribe,
		topics:    haxmap.New[string, *natsTopic](),
	}
}

func (b *NATSBroker) Topic(_ context.Context, id string) Topic {
	top, _ := b.topics.GetOrCompute(id, func() *natsTopic {
		return &natsTopic{subject: id, broker: b}
	})
	return top
}

type natsTopic struct {
	broker  *NATSBroker
	subject string
}

func (t *natsTopic) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event == nil {
		return errors.New("event is required")
	}
	eb, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	return t.broker.publish(t.subject, eb)
}

func (t *natsTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, errors.New("hook is required")
	}

	sub := &subscription{
		id:      uuidx.NewString(),
		ctx:     ctx,
		channel: make(chan events.Event, subscriptionBuffer),
		done:    make(chan struct{}),
		hook:    hook,
	}
	unsubscribe, err := t.broker.subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.FromJSON(msg.Data)
		if err != nil {
			slog.Error("failed to unmarshal event", slogx.LoggerName("broker"), slog.String("subject", msg.Subject), slogx.Error(err))
			return
		}
		select {
		case sub.channel <- event:
		case <-sub.done:
		}
	})
	if err != nil {
		return nil, err
	}
	sub.onClose = func() {
		if err := unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe", slogx.LoggerName("broker"), slogx.Error(err), slog.String("subscription", sub.id))
		}
	}

	go sub.forwardToHook()
	return sub, nil
}
