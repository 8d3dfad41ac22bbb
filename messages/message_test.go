package messages

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMessage_JSONRoundTrip(t *testing.T) {
	turn := uuid.New()
	msg := NewAssistant(
		TextPart{Text: "Let me check."},
		ToolCall{ID: "toolu_1", Name: "rotate", Arguments: `{"deg":90}`}.Part(),
	).WithTurn(turn)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.Equal(t, "assistant", gjson.GetBytes(data, "role").String())
	assert.Equal(t, "tool_use", gjson.GetBytes(data, "content.1.type").String())
	assert.Equal(t, int64(90), gjson.GetBytes(data, "content.1.input.deg").Int())

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg.ID, decoded.ID)
	assert.Equal(t, turn, decoded.TurnID)
	assert.Equal(t, msg.Parts, decoded.Parts)
	assert.Equal(t, msg.Timestamp.String(), decoded.Timestamp.String())
}

func TestMessage_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"invalid", `{`, "invalid json"},
		{"no id", `{"role":"user","content":[]}`, "'id'"},
		{"no role", `{"id":"0191d4a0-0000-7000-8000-000000000000","content":[]}`, "'role'"},
		{"no content", `{"id":"0191d4a0-0000-7000-8000-000000000000","role":"user"}`, "'content'"},
		{"bad part", `{"id":"0191d4a0-0000-7000-8000-000000000000","role":"user","content":[{"type":"image"}]}`, "unknown part type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Message
			err := m.UnmarshalJSON([]byte(tt.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("through the decoder", func(t *testing.T) {
		var m Message
		assert.Error(t, json.Unmarshal([]byte(`{`), &m))
		assert.Error(t, json.Unmarshal([]byte(`{"role":"user","content":[]}`), &m))
	})
}

func TestMessage_Accessors(t *testing.T) {
	msg := NewAssistant(
		TextPart{Text: "Hi"},
		ToolUsePart{ID: "a", Name: "f", Input: `{}`},
		TextPart{Text: " there"},
		ToolUsePart{ID: "b", Name: "g", Input: `{"x":1}`},
	)
	assert.Equal(t, "Hi there", msg.Text())
	assert.Equal(t, []ToolCall{
		{ID: "a", Name: "f", Arguments: `{}`},
		{ID: "b", Name: "g", Arguments: `{"x":1}`},
	}, msg.ToolCalls())

	user := NewUser(
		ToolCallResult{ToolCallID: "a", Content: "ok"}.Part(),
		ToolCallResult{ToolCallID: "b", Content: "boom", IsError: true}.Part(),
	)
	results := user.ToolResults()
	require.Len(t, results, 2)
	assert.True(t, results[1].IsError)
	assert.Equal(t, "b", results[1].ToolCallID)
}

func TestMessage_Validate(t *testing.T) {
	assert.NoError(t, NewUser(TextPart{Text: "hi"}).Validate())

	err := Message{Role: "system"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
	assert.Contains(t, err.Error(), "no content parts")
}

func TestParsePart(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Part
	}{
		{"text", `{"type":"text","text":"hello"}`, TextPart{Text: "hello"}},
		{"tool use object", `{"type":"tool_use","id":"t1","name":"f","input":{"x":5}}`, ToolUsePart{ID: "t1", Name: "f", Input: `{"x":5}`}},
		{"tool use string", `{"type":"tool_use","id":"t1","name":"f","input":"{\"x\":"}`, ToolUsePart{ID: "t1", Name: "f", Input: `{"x":`}},
		{"tool result", `{"type":"tool_result","tool_use_id":"t1","content":"done","is_error":true}`, ToolResultPart{ToolCallID: "t1", Content: "done", IsError: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePart([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolUsePart_InvalidInputIsQuoted(t *testing.T) {
	data, err := ToolUsePart{ID: "t1", Name: "f", Input: `{"x":`}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, gjson.String, gjson.GetBytes(data, "input").Type)
}
