package events

import (
	"time"

	"github.com/casualjim/palaver/messages"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

const (
	TypeTextChunk    = "text_chunk"
	TypeTextComplete = "text_complete"
	TypeToolCall     = "tool_call"
	TypeTurnComplete = "turn_complete"
	TypeError        = "error"
	TypeUsage        = "usage"
)

// Event is the closed set of events a session emits.
type Event interface {
	// EventType returns the discriminator used on the wire.
	EventType() string
	// Turn returns the id of the turn that produced the event.
	Turn() uuid.UUID
	// OccurredAt returns when the event was produced.
	OccurredAt() strfmt.DateTime
	event()
}

// Meta holds the fields every event carries.
type Meta struct {
	TurnID    uuid.UUID
	Timestamp strfmt.DateTime
}

// NewMeta stamps a turn id with the current time.
func NewMeta(turnID uuid.UUID) Meta {
	return Meta{TurnID: turnID, Timestamp: strfmt.DateTime(time.Now())}
}

func (m Meta) Turn() uuid.UUID             { return m.TurnID }
func (m Meta) OccurredAt() strfmt.DateTime { return m.Timestamp }
func (Meta) event()                        {}

// TextChunk is a text fragment, delivered as soon as it is parsed.
type TextChunk struct {
	Meta
	Text string
}

func (TextChunk) EventType() string { return TypeTextChunk }

// TextComplete marks the end of a text segment. Text holds the whole segment.
type TextComplete struct {
	Meta
	Text string
}

func (TextComplete) EventType() string { return TypeTextComplete }

// ToolCall is a complete tool invocation the host is expected to execute and
// answer with a result.
type ToolCall struct {
	Meta
	Call messages.ToolCall
}

func (ToolCall) EventType() string { return TypeToolCall }

// TurnComplete is emitted once per finalized turn, after its tool calls.
type TurnComplete struct {
	Meta
	StopReason string
	ToolCalls  int
}

func (TurnComplete) EventType() string { return TypeTurnComplete }

// ErrorKind tells where a failure came from.
type ErrorKind string

const (
	// KindTransport is a network or HTTP failure.
	KindTransport ErrorKind = "transport"
	// KindProvider is an error frame sent by the provider.
	KindProvider ErrorKind = "provider"
)

// Error reports that the turn was abandoned. The session stays usable.
type Error struct {
	Meta
	Kind ErrorKind
	Err  error
}

func (Error) EventType() string { return TypeError }

// Error implements the error interface.
func (e Error) Error() string {
	if e.Err == nil {
		return string(e.Kind) + " error"
	}
	return string(e.Kind) + " error: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error { return e.Err }

// Usage carries token counters for the current turn.
type Usage struct {
	Meta
	Usage messages.TokenUsage
}

func (Usage) EventType() string { return TypeUsage }
