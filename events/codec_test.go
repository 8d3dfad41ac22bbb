package events

import (
	"errors"
	"testing"

	"github.com/casualjim/palaver/messages"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCodec_RoundTrip(t *testing.T) {
	meta := NewMeta(uuid.New())
	tests := []Event{
		TextChunk{Meta: meta, Text: "Hi"},
		TextComplete{Meta: meta, Text: "Hi there"},
		ToolCall{Meta: meta, Call: messages.ToolCall{ID: "t1", Name: "f", Arguments: `{"x":5}`}},
		TurnComplete{Meta: meta, StopReason: "tool_use", ToolCalls: 1},
		Usage{Meta: meta, Usage: messages.TokenUsage{InputTokens: 12, OutputTokens: 4, CacheReadInputTokens: 2}},
	}
	for _, ev := range tests {
		t.Run(ev.EventType(), func(t *testing.T) {
			data, err := ToJSON(ev)
			require.NoError(t, err)
			assert.Equal(t, ev.EventType(), gjson.GetBytes(data, "type").String())

			decoded, err := FromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, ev.Turn(), decoded.Turn())
			assert.Equal(t, ev.OccurredAt().String(), decoded.OccurredAt().String())

			again, err := ToJSON(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestCodec_Error(t *testing.T) {
	ev := Error{Meta: NewMeta(uuid.New()), Kind: KindProvider, Err: errors.New("overloaded_error: Overloaded")}
	data, err := ToJSON(ev)
	require.NoError(t, err)
	assert.Equal(t, "provider", gjson.GetBytes(data, "kind").String())

	decoded, err := FromJSON(data)
	require.NoError(t, err)
	e, ok := decoded.(Error)
	require.True(t, ok)
	assert.Equal(t, KindProvider, e.Kind)
	assert.EqualError(t, e.Err, "overloaded_error: Overloaded")
}

func TestCodec_ToolCallArgumentsStayText(t *testing.T) {
	ev := ToolCall{Meta: NewMeta(uuid.New()), Call: messages.ToolCall{ID: "t1", Name: "f", Arguments: `{"x":`}}
	data, err := ToJSON(ev)
	require.NoError(t, err)
	assert.Equal(t, `{"x":`, gjson.GetBytes(data, "call.arguments").String())
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := FromJSON([]byte(`{"type":`))
	require.Error(t, err)

	_, err = FromJSON([]byte(`{"type":"bogus"}`))
	require.ErrorContains(t, err, "unknown event type")

	_, err = FromJSON([]byte(`{"type":"text_chunk","turn_id":"nope"}`))
	require.ErrorContains(t, err, "invalid turn_id")
}
