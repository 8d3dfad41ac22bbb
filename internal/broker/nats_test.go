package broker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/pkg/natsx"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// loopback is an in-memory stand-in for a NATS connection.
type loopback struct {
	mu           sync.Mutex
	published    map[string][][]byte
	handlers     map[string][]nats.MsgHandler
	unsubscribed int
	err          error
}

func newLoopback() *loopback {
	return &loopback{published: map[string][][]byte{}, handlers: map[string][]nats.MsgHandler{}}
}

func (l *loopback) publish(subject string, data []byte) error {
	l.mu.Lock()
	if l.err != nil {
		l.mu.Unlock()
		return l.err
	}
	l.published[subject] = append(l.published[subject], data)
	handlers := append([]nats.MsgHandler(nil), l.handlers[subject]...)
	l.mu.Unlock()

	for _, h := range handlers {
		h(&nats.Msg{Subject: subject, Data: data})
	}
	return nil
}

func (l *loopback) subscribe(subject string, handler nats.MsgHandler) (func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[subject] = append(l.handlers[subject], handler)
	return func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.handlers[subject] = nil
		l.unsubscribed++
		return nil
	}, nil
}

func (l *loopback) broker() *NATSBroker {
	return newNATSBroker(l.publish, l.subscribe)
}

func TestNATS_PublishesJSON(t *testing.T) {
	lb := newLoopback()
	ctx := context.Background()
	topic := lb.broker().Topic(ctx, "palaver.session.1")

	turn := uuid.New()
	require.NoError(t, topic.Publish(ctx, events.TurnComplete{Meta: events.NewMeta(turn), StopReason: "end_turn"}))

	msgs := lb.published["palaver.session.1"]
	require.Len(t, msgs, 1)
	doc := gjson.ParseBytes(msgs[0])
	assert.Equal(t, events.TypeTurnComplete, doc.Get("type").String())
	assert.Equal(t, turn.String(), doc.Get("turn_id").String())
}

func TestNATS_SubscribeDecodes(t *testing.T) {
	lb := newLoopback()
	ctx := context.Background()
	topic := lb.broker().Topic(ctx, "session")

	h := &waitingHook{}
	sub, err := topic.Subscribe(ctx, h)
	require.NoError(t, err)

	require.NoError(t, topic.Publish(ctx, chunk("hello")))
	got := h.waitFor(t, 1)
	assert.Equal(t, "hello", got[0].(events.TextChunk).Text)

	// garbage on the subject is logged and skipped
	require.NoError(t, lb.publish("session", []byte(`not json`)))

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 1, lb.unsubscribed)
}

func TestNATS_Errors(t *testing.T) {
	lb := newLoopback()
	lb.err = errors.New("connection closed")
	topic := lb.broker().Topic(context.Background(), "session")

	require.ErrorContains(t, topic.Publish(context.Background(), chunk("x")), "connection closed")
	require.Error(t, topic.Publish(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, topic.Publish(ctx, chunk("x")), context.Canceled)

	_, err := topic.Subscribe(context.Background(), nil)
	require.ErrorContains(t, err, "hook is required")
}

func TestNATS_Live(t *testing.T) {
	nc, err := natsx.NewClient("", nats.Timeout(200*time.Millisecond))
	if err != nil {
		t.Skipf("no NATS server at %s: %v", natsx.URL(""), err)
	}
	t.Cleanup(nc.Close)

	ctx := context.Background()
	topic := NATS(nc).Topic(ctx, "palaver.test."+uuid.NewString())
	h := &waitingHook{}
	sub, err := topic.Subscribe(ctx, h)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.Flush())

	require.NoError(t, topic.Publish(ctx, chunk("over the wire")))
	got := h.waitFor(t, 1)
	assert.Equal(t, "over the wire", got[0].(events.TextChunk).Text)
}
