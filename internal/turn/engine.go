package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/pkg/sse"
	"github.com/casualjim/palaver/provider"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Frame types of the Messages streaming protocol.
const (
	frameMessageStart      = "message_start"
	frameContentBlockStart = "content_block_start"
	frameContentBlockDelta = "content_block_delta"
	frameContentBlockStop  = "content_block_stop"
	frameMessageDelta      = "message_delta"
	frameMessageStop       = "message_stop"
	frameError             = "error"
	framePing              = "ping"

	deltaText      = "text_delta"
	deltaInputJSON = "input_json_delta"

	blockText    = "text"
	blockToolUse = "tool_use"
)

// ErrBusy is returned by Begin while a turn is in progress.
var ErrBusy = errors.New("turn in progress")

// Emitter receives the events a turn produces, in order.
type Emitter func(ctx context.Context, ev events.Event)

type pendingCall struct {
	id   string
	name string
	args strings.Builder
}

// Engine is the per-session turn state machine.
type Engine struct {
	history *messages.History
	emit    Emitter
	logger  *slog.Logger

	state      State
	turnID     uuid.UUID
	messageID  string
	text       strings.Builder
	segment    strings.Builder
	pending    *pendingCall
	calls      []messages.ToolCall
	stopReason string
	finalized  bool
	usage      messages.TokenUsage
	total      messages.TokenUsage
}

// New creates an idle engine appending to history and emitting through emit.
func New(history *messages.History, emit Emitter) *Engine {
	return &Engine{
		history: history,
		emit:    emit,
		logger:  slogx.Component("turn"),
	}
}

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// Idle reports whether a new turn may begin.
func (e *Engine) Idle() bool { return e.state == Idle }

// TurnID returns the id of the current or last turn.
func (e *Engine) TurnID() uuid.UUID { return e.turnID }

// MessageID returns the provider's id for the message being streamed.
func (e *Engine) MessageID() string { return e.messageID }

// TotalUsage returns the usage of every turn that has ended.
func (e *Engine) TotalUsage() messages.TokenUsage { return e.total }

// Begin starts a turn: Idle → Sending with empty accumulation state.
func (e *Engine) Begin(turnID uuid.UUID) error {
	if e.state != Idle {
		return ErrBusy
	}
	e.reset()
	e.turnID = turnID
	e.state = Sending
	e.logger.Debug("turn started", slogx.Turn(turnID))
	return nil
}

// Handle advances the state machine by one frame. Frames that arrive while
// idle are ignored, so nothing from an aborted turn leaks into the next.
func (e *Engine) Handle(ctx context.Context, frame sse.Event) {
	if e.state == Idle || e.state == Finalizing {
		e.logger.DebugContext(ctx, "dropping frame outside a turn", slog.String("event", frame.Type))
		return
	}
	if frame.Done() {
		e.finalize(ctx)
		return
	}
	if !gjson.Valid(frame.Data) {
		e.protocolError(ctx, frame, errors.New("payload is not valid JSON"))
		return
	}

	data := gjson.Parse(frame.Data)
	kind := data.Get("type").String()
	if kind == "" {
		kind = frame.Type
	}

	switch kind {
	case frameMessageStart:
		e.messageStart(ctx, data.Get("message"))
	case frameContentBlockStart:
		e.blockStart(ctx, data.Get("content_block"))
	case frameContentBlockDelta:
		e.blockDelta(ctx, frame, data.Get("delta"))
	case frameContentBlockStop:
		e.blockStop(ctx)
	case frameMessageDelta:
		e.messageDelta(ctx, data)
	case frameMessageStop:
		e.finalize(ctx)
	case frameError:
		e.providerError(ctx, data.Get("error"))
	case framePing:
	default:
		e.logger.DebugContext(ctx, "ignoring unknown frame", slog.String("type", kind), slogx.Turn(e.turnID))
	}
}

// StreamClosed ends the turn when the transport is done. A failure abandons
// the turn with a transport error; a clean close without message_stop
// finalizes with whatever was received.
func (e *Engine) StreamClosed(ctx context.Context, err error) {
	if e.state == Idle {
		return
	}
	if err != nil {
		e.logger.WarnContext(ctx, "stream failed", slogx.Turn(e.turnID), slogx.Error(err))
		turnID := e.turnID
		e.end()
		e.emit(ctx, events.Error{Meta: events.NewMeta(turnID), Kind: events.KindTransport, Err: err})
		return
	}
	e.logger.DebugContext(ctx, "stream closed before message_stop", slogx.Turn(e.turnID))
	e.finalize(ctx)
}

// Abort abandons the current turn without emitting anything. Delivered events
// stay delivered and nothing is appended to history.
func (e *Engine) Abort() {
	if e.state == Idle {
		return
	}
	e.logger.Debug("turn aborted", slogx.Turn(e.turnID))
	e.end()
}

func (e *Engine) messageStart(ctx context.Context, msg gjson.Result) {
	e.messageID = msg.Get("id").String()
	if usage := msg.Get("usage"); usage.Exists() {
		e.applyUsage(ctx, usage)
	}
}

func (e *Engine) blockStart(ctx context.Context, block gjson.Result) {
	if e.pending != nil {
		e.logger.WarnContext(ctx, "content block started while a tool call was open", slogx.Turn(e.turnID), slog.String(slogx.KeyToolCall, e.pending.id))
		e.seal()
	}
	e.segment.Reset()
	switch kind := block.Get("type").String(); kind {
	case blockToolUse:
		e.pending = &pendingCall{
			id:   block.Get("id").String(),
			name: block.Get("name").String(),
		}
		e.state = StreamingToolInput
	case blockText:
		e.state = StreamingText
	default:
		e.logger.DebugContext(ctx, "ignoring content block", slog.String("type", kind), slogx.Turn(e.turnID))
		e.state = Sending
	}
}

func (e *Engine) blockDelta(ctx context.Context, frame sse.Event, delta gjson.Result) {
	switch delta.Get("type").String() {
	case deltaText:
		text := delta.Get("text").String()
		if text == "" {
			return
		}
		e.text.WriteString(text)
		e.segment.WriteString(text)
		if e.state == Sending {
			e.state = StreamingText
		}
		e.emit(ctx, events.TextChunk{Meta: events.NewMeta(e.turnID), Text: text})
	case deltaInputJSON:
		if e.pending == nil {
			e.protocolError(ctx, frame, errors.New("input_json_delta without an open tool_use block"))
			return
		}
		e.pending.args.WriteString(delta.Get("partial_json").String())
	default:
		e.logger.DebugContext(ctx, "ignoring delta", slog.String("type", delta.Get("type").String()), slogx.Turn(e.turnID))
	}
}

func (e *Engine) blockStop(ctx context.Context) {
	if e.pending != nil {
		e.seal()
		e.state = Sending
		return
	}
	if e.state != StreamingText {
		return
	}
	text := e.segment.String()
	e.segment.Reset()
	e.state = Sending
	e.emit(ctx, events.TextComplete{Meta: events.NewMeta(e.turnID), Text: text})
}

func (e *Engine) seal() {
	call := messages.ToolCall{ID: e.pending.id, Name: e.pending.name, Arguments: e.pending.args.String()}
	if strings.TrimSpace(call.Arguments) == "" {
		call.Arguments = "{}"
	}
	e.calls = append(e.calls, call)
	e.pending = nil
}

func (e *Engine) messageDelta(ctx context.Context, data gjson.Result) {
	if reason := data.Get("delta.stop_reason"); reason.Exists() && reason.Type != gjson.Null {
		e.stopReason = reason.String()
	}
	if usage := data.Get("usage"); usage.Exists() {
		e.applyUsage(ctx, usage)
	}
}

// applyUsage merges reported counters into the turn's usage. The protocol
// reports cumulative values, so present fields replace earlier ones.
func (e *Engine) applyUsage(ctx context.Context, usage gjson.Result) {
	set := func(field string, dst *int64) {
		if v := usage.Get(field); v.Exists() && v.Int() >= 0 {
			*dst = v.Int()
		}
	}
	set("input_tokens", &e.usage.InputTokens)
	set("output_tokens", &e.usage.OutputTokens)
	set("cache_read_input_tokens", &e.usage.CacheReadInputTokens)
	set("cache_creation_input_tokens", &e.usage.CacheCreationInputTokens)
	e.emit(ctx, events.Usage{Meta: events.NewMeta(e.turnID), Usage: e.usage})
}

func (e *Engine) providerError(ctx context.Context, errData gjson.Result) {
	err := fmt.Errorf("%s: %s", errData.Get("type").String(), errData.Get("message").String())
	e.logger.WarnContext(ctx, "provider reported an error", slogx.Turn(e.turnID), slogx.Error(err))
	turnID := e.turnID
	e.end()
	e.emit(ctx, events.Error{Meta: events.NewMeta(turnID), Kind: events.KindProvider, Err: err})
}

// finalize publishes the turn: one assistant message in history, one event per
// tool call in seal order, then the completion event. It runs at most once
// per turn.
func (e *Engine) finalize(ctx context.Context) {
	if e.finalized || e.state == Idle {
		return
	}
	e.finalized = true
	e.state = Finalizing

	if e.pending != nil {
		e.logger.WarnContext(ctx, "dropping unterminated tool call", slogx.Turn(e.turnID), slog.String(slogx.KeyToolCall, e.pending.id))
		e.pending = nil
	}

	var parts []messages.Part
	if text := e.text.String(); text != "" {
		parts = append(parts, messages.TextPart{Text: text})
	}
	for _, call := range e.calls {
		parts = append(parts, call.Part())
	}
	if len(parts) > 0 {
		msg := messages.NewAssistant(parts...).WithTurn(e.turnID)
		e.history.Append(msg)
	}

	turnID, calls, reason := e.turnID, e.calls, e.stopReason
	e.end()

	for _, call := range calls {
		e.emit(ctx, events.ToolCall{Meta: events.NewMeta(turnID), Call: call})
	}
	e.emit(ctx, events.TurnComplete{Meta: events.NewMeta(turnID), StopReason: reason, ToolCalls: len(calls)})
	e.logger.DebugContext(ctx, "turn complete", slogx.Turn(turnID), slog.Int("tool_calls", len(calls)), slog.String("stop_reason", reason))
}

func (e *Engine) protocolError(ctx context.Context, frame sse.Event, err error) {
	perr := &provider.ProtocolError{Frame: frame.Data, Err: err}
	e.logger.WarnContext(ctx, "skipping malformed frame", slogx.Turn(e.turnID), slog.String("event", frame.Type), slogx.Error(perr))
}

// end returns to Idle, folding the turn's usage into the total.
func (e *Engine) end() {
	e.total.Add(e.usage)
	e.usage = messages.TokenUsage{}
	e.state = Idle
	e.pending = nil
	e.calls = nil
	e.text.Reset()
	e.segment.Reset()
}

func (e *Engine) reset() {
	e.messageID = ""
	e.text.Reset()
	e.segment.Reset()
	e.pending = nil
	e.calls = nil
	e.stopReason = ""
	e.finalized = false
	e.usage = messages.TokenUsage{}
}
