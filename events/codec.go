package events

import (
	"errors"
	"fmt"

	"github.com/casualjim/palaver/messages"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ToJSON encodes ev as a flat object with a "type" discriminator.
func ToJSON(ev Event) ([]byte, error) {
	result := []byte(`{}`)
	set := func(path string, value any) {
		if result == nil {
			return
		}
		var err error
		result, err = sjson.SetBytes(result, path, value)
		if err != nil {
			result = nil
		}
	}

	set("type", ev.EventType())
	set("turn_id", ev.Turn().String())
	set("timestamp", ev.OccurredAt().String())

	switch e := ev.(type) {
	case TextChunk:
		set("text", e.Text)
	case TextComplete:
		set("text", e.Text)
	case ToolCall:
		set("call.id", e.Call.ID)
		set("call.name", e.Call.Name)
		set("call.arguments", e.Call.Arguments)
	case TurnComplete:
		set("stop_reason", e.StopReason)
		set("tool_calls", e.ToolCalls)
	case Error:
		set("kind", string(e.Kind))
		if e.Err != nil {
			set("message", e.Err.Error())
		}
	case Usage:
		set("usage.input_tokens", e.Usage.InputTokens)
		set("usage.output_tokens", e.Usage.OutputTokens)
		set("usage.cache_read_input_tokens", e.Usage.CacheReadInputTokens)
		set("usage.cache_creation_input_tokens", e.Usage.CacheCreationInputTokens)
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}

	if result == nil {
		return nil, fmt.Errorf("failed to encode %s event", ev.EventType())
	}
	return result, nil
}

// FromJSON decodes an event produced by ToJSON.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)

	var meta Meta
	if id := jv.Get("turn_id"); id.Exists() {
		turnID, err := uuid.Parse(id.String())
		if err != nil {
			return nil, fmt.Errorf("invalid turn_id: %w", err)
		}
		meta.TurnID = turnID
	}
	if ts := jv.Get("timestamp"); ts.Exists() {
		dt, err := strfmt.ParseDateTime(ts.String())
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp: %w", err)
		}
		meta.Timestamp = dt
	}

	switch tpe := jv.Get("type").String(); tpe {
	case TypeTextChunk:
		return TextChunk{Meta: meta, Text: jv.Get("text").String()}, nil
	case TypeTextComplete:
		return TextComplete{Meta: meta, Text: jv.Get("text").String()}, nil
	case TypeToolCall:
		return ToolCall{Meta: meta, Call: messages.ToolCall{
			ID:        jv.Get("call.id").String(),
			Name:      jv.Get("call.name").String(),
			Arguments: jv.Get("call.arguments").String(),
		}}, nil
	case TypeTurnComplete:
		return TurnComplete{
			Meta:       meta,
			StopReason: jv.Get("stop_reason").String(),
			ToolCalls:  int(jv.Get("tool_calls").Int()),
		}, nil
	case TypeError:
		ev := Error{Meta: meta, Kind: ErrorKind(jv.Get("kind").String())}
		if msg := jv.Get("message"); msg.Exists() {
			ev.Err = errors.New(msg.String())
		}
		return ev, nil
	case TypeUsage:
		return Usage{Meta: meta, Usage: messages.TokenUsage{
			InputTokens:              jv.Get("usage.input_tokens").Int(),
			OutputTokens:             jv.Get("usage.output_tokens").Int(),
			CacheReadInputTokens:     jv.Get("usage.cache_read_input_tokens").Int(),
			CacheCreationInputTokens: jv.Get("usage.cache_creation_input_tokens").Int(),
		}}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", tpe)
	}
}
