package messages

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/casualjim/palaver/pkg/uuidx"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation.
type Message struct {
	ID        uuid.UUID
	TurnID    uuid.UUID
	Role      Role
	Parts     []Part
	Timestamp strfmt.DateTime
}

// NewUser creates a user message.
func NewUser(parts ...Part) Message {
	return newMessage(RoleUser, parts)
}

// NewAssistant creates an assistant message.
func NewAssistant(parts ...Part) Message {
	return newMessage(RoleAssistant, parts)
}

func newMessage(role Role, parts []Part) Message {
	return Message{
		ID:        uuidx.New(),
		Role:      role,
		Parts:     slices.Clone(parts),
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// WithTurn returns a copy of the message tagged with a turn id.
func (m Message) WithTurn(id uuid.UUID) Message {
	m.TurnID = id
	return m
}

// Text concatenates the message's text parts.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// ToolCalls returns the tool invocations carried by the message, in order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if tu, ok := p.(ToolUsePart); ok {
			calls = append(calls, ToolCall{ID: tu.ID, Name: tu.Name, Arguments: tu.Input})
		}
	}
	return calls
}

// ToolResults returns the tool results carried by the message, in order.
func (m Message) ToolResults() []ToolResultPart {
	var results []ToolResultPart
	for _, p := range m.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr)
		}
	}
	return results
}

// Validate checks the invariants a message must hold before it can enter a
// history.
func (m Message) Validate() error {
	var err error
	if m.Role != RoleUser && m.Role != RoleAssistant {
		err = errors.Join(err, fmt.Errorf("invalid role %q", m.Role))
	}
	if len(m.Parts) == 0 {
		err = errors.Join(err, errors.New("message has no content parts"))
	}
	for i, p := range m.Parts {
		if p == nil {
			err = errors.Join(err, fmt.Errorf("part %d is nil", i))
		}
	}
	return err
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	result := []byte(`{}`)

	var err error
	result, err = sjson.SetBytes(result, "id", m.ID.String())
	if err != nil {
		return nil, err
	}
	if m.TurnID != uuid.Nil {
		result, err = sjson.SetBytes(result, "turn_id", m.TurnID.String())
		if err != nil {
			return nil, err
		}
	}
	result, err = sjson.SetBytes(result, "role", string(m.Role))
	if err != nil {
		return nil, err
	}

	parts, err := json.Marshal(m.Parts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parts: %w", err)
	}
	result, err = sjson.SetRawBytes(result, "content", parts)
	if err != nil {
		return nil, err
	}

	if !m.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", m.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	id := gjson.GetBytes(data, "id")
	if !id.Exists() {
		return errors.New("missing required field 'id'")
	}
	if err := m.ID.UnmarshalText([]byte(id.String())); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	if turnID := gjson.GetBytes(data, "turn_id"); turnID.Exists() {
		if err := m.TurnID.UnmarshalText([]byte(turnID.String())); err != nil {
			return fmt.Errorf("invalid turn_id: %w", err)
		}
	}

	role := gjson.GetBytes(data, "role")
	if !role.Exists() {
		return errors.New("missing required field 'role'")
	}
	m.Role = Role(role.String())

	content := gjson.GetBytes(data, "content")
	if !content.Exists() {
		return errors.New("missing required field 'content'")
	}
	parts, err := ParseParts([]byte(content.Raw))
	if err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}
	m.Parts = parts

	if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
		if err := m.Timestamp.UnmarshalText([]byte(ts.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}
	return nil
}
