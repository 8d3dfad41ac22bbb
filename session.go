package palaver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casualjim/palaver/config"
	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/internal/turn"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/pkg/sse"
	"github.com/casualjim/palaver/pkg/uuidx"
	"github.com/casualjim/palaver/provider"
	"github.com/casualjim/palaver/tool"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
)

// State is the phase of the session's current turn.
type State = turn.State

const (
	StateIdle               = turn.Idle
	StateSending            = turn.Sending
	StateStreamingText      = turn.StreamingText
	StateStreamingToolInput = turn.StreamingToolInput
	StateFinalizing         = turn.Finalizing
)

var _ provider.Sink = (*sse.Parser)(nil)

type inflight struct {
	queue  *sse.Queue
	cancel context.CancelFunc
}

// Session is one conversation with the model. It allows exactly one
// outstanding request at a time.
type Session struct {
	id          uuid.UUID
	cfg         config.Provider
	transport   provider.Transport
	registry    *tool.Registry
	history     *messages.History
	engine      *turn.Engine
	subscribers events.Subscribers
	logger      *slog.Logger

	current *inflight
	closed  bool
}

// New creates an idle session. The configuration is read on every send.
func New(cfg config.Provider, transport provider.Transport, options ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("configuration provider is required")
	}
	if transport == nil {
		return nil, errors.New("transport is required")
	}

	s := &Session{
		id:        uuidx.New(),
		cfg:       cfg,
		transport: transport,
		history:   messages.NewHistory(),
	}
	if err := opts.Apply(s, options); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = slogx.Component("session")
	}
	s.logger = s.logger.With(slogx.Session(s.id))
	s.engine = turn.New(s.history, s.subscribers.Publish)
	return s, nil
}

// ID identifies the session in logs and published events.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the phase of the current turn.
func (s *Session) State() State { return s.engine.State() }

// Busy reports whether a turn is outstanding.
func (s *Session) Busy() bool { return !s.engine.Idle() }

// CanSendRequest reports whether a send would be accepted now: the session is
// open, a credential is configured and no turn is outstanding.
func (s *Session) CanSendRequest() bool {
	return !s.closed && strings.TrimSpace(s.cfg.APIKey()) != "" && s.engine.Idle()
}

// History returns a copy of the conversation so far.
func (s *Session) History() []messages.Message {
	return s.history.Messages()
}

// Usage returns the token usage of every finished turn.
func (s *Session) Usage() messages.TokenUsage {
	return s.engine.TotalUsage()
}

// Subscribe adds a hook and returns a function removing it.
func (s *Session) Subscribe(h events.Hook) (unsubscribe func()) {
	return s.subscribers.Add(h)
}

// SendText appends a user message and starts a turn.
func (s *Session) SendText(ctx context.Context, text string) error {
	if err := s.checkSend(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	return s.start(ctx, messages.NewUser(messages.TextPart{Text: text}))
}

// SendToolResults answers the tool calls of the previous turn with one user
// message holding a result part per call, and starts a turn.
func (s *Session) SendToolResults(ctx context.Context, results []messages.ToolCallResult) error {
	if err := s.checkSend(ctx); err != nil {
		return err
	}
	if len(results) == 0 {
		return ErrEmptyMessage
	}
	parts := make([]messages.Part, len(results))
	for i, r := range results {
		parts[i] = r.Part()
	}
	return s.start(ctx, messages.NewUser(parts...))
}

func (s *Session) checkSend(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if !s.engine.Idle() {
		s.logger.WarnContext(ctx, "rejecting send while a turn is in progress", slogx.Turn(s.engine.TurnID()), slog.String("state", s.engine.State().String()))
		return ErrTurnInProgress
	}
	if strings.TrimSpace(s.cfg.APIKey()) == "" {
		return &ConfigurationError{Setting: "api key"}
	}
	return nil
}

// start appends msg and dispatches the request. A failed dispatch removes the
// message again, so resending the same content does not duplicate it.
func (s *Session) start(ctx context.Context, msg messages.Message) error {
	turnID := uuidx.New()
	mark := s.history.Len()
	s.history.Append(msg.WithTurn(turnID))

	if err := s.engine.Begin(turnID); err != nil {
		s.history.Truncate(mark)
		return fmt.Errorf("%w: %w", ErrTurnInProgress, err)
	}

	req := provider.Request{
		Model:     s.cfg.Model(),
		MaxTokens: s.cfg.MaxOutputTokens(),
		System:    s.cfg.SystemPrompt(),
		Messages:  s.history.Messages(),
	}
	if s.registry != nil {
		req.Tools = s.registry.Definitions()
	}

	queue := sse.NewQueue()
	reqCtx, cancel := context.WithCancel(ctx)
	if err := s.transport.Send(reqCtx, req, sse.NewParser(queue)); err != nil {
		cancel()
		s.engine.Abort()
		s.history.Truncate(mark)
		s.logger.ErrorContext(ctx, "failed to dispatch request", slogx.Turn(turnID), slogx.Error(err))
		return fmt.Errorf("failed to dispatch request: %w", err)
	}
	s.current = &inflight{queue: queue, cancel: cancel}
	s.logger.DebugContext(ctx, "request dispatched", slogx.Turn(turnID), slog.Int("messages", len(req.Messages)), slog.Int("tools", len(req.Tools)))
	return nil
}

// Update drains the frames received since the last call and advances the
// turn, delivering events to subscribers synchronously and in parse order.
// It returns the number of frames processed.
func (s *Session) Update(ctx context.Context) int {
	cur := s.current
	if cur == nil {
		return 0
	}

	frames, done, err := cur.queue.Drain()
	processed := 0
	for _, frame := range frames {
		// a subscriber may have aborted this turn or started the next one
		if s.current != cur {
			cur.cancel()
			return processed
		}
		s.engine.Handle(ctx, frame)
		processed++
	}

	if done && s.current == cur {
		s.engine.StreamClosed(ctx, err)
	}
	switch {
	case s.current != cur:
		cur.cancel()
	case s.engine.Idle():
		s.release(cur)
	}
	return processed
}

func (s *Session) release(cur *inflight) {
	if s.current != cur {
		return
	}
	cur.cancel()
	s.current = nil
}

// Abort cancels the outstanding request and discards its partial state.
// Events already delivered are not retracted and no event is emitted.
func (s *Session) Abort() {
	if s.current != nil {
		s.logger.Debug("aborting turn", slogx.Turn(s.engine.TurnID()))
		s.release(s.current)
	}
	s.engine.Abort()
}

// Close aborts any outstanding request and rejects further sends.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.Abort()
	s.closed = true
	return nil
}
