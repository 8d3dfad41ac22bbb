package anthropic

import (
	"context"
	"testing"

	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/provider"
	"github.com/casualjim/palaver/tool"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBuildParams_History(t *testing.T) {
	history := []messages.Message{
		messages.NewUser(messages.TextPart{Text: "rotate the cube"}),
		messages.NewAssistant(
			messages.TextPart{Text: "Rotating."},
			messages.ToolUsePart{ID: "t1", Name: "rotate", Input: `{"deg":90}`},
			messages.ToolUsePart{ID: "t2", Name: "noop", Input: ``},
		),
		messages.NewUser(
			messages.ToolResultPart{ToolCallID: "t1", Content: `{"success":true}`},
			messages.ToolResultPart{ToolCallID: "t2", Content: "boom", IsError: true},
		),
		messages.NewAssistant(messages.TextPart{Text: ""}),
	}

	params := BuildParams(provider.Request{Model: "claude-test", MaxTokens: 32, Messages: history})
	data, err := json.Marshal(params)
	require.NoError(t, err)

	msgs := gjson.GetBytes(data, "messages")
	require.Len(t, msgs.Array(), 3, "empty assistant message is dropped")

	assert.Equal(t, "user", msgs.Get("0.role").String())
	assert.Equal(t, "assistant", msgs.Get("1.role").String())
	assert.Equal(t, "tool_use", msgs.Get("1.content.1.type").String())
	assert.Equal(t, "t1", msgs.Get("1.content.1.id").String())
	assert.Equal(t, int64(90), msgs.Get("1.content.1.input.deg").Int())
	assert.JSONEq(t, `{}`, msgs.Get("1.content.2.input").Raw)

	assert.Equal(t, "tool_result", msgs.Get("2.content.0.type").String())
	assert.Equal(t, "t1", msgs.Get("2.content.0.tool_use_id").String())
	assert.True(t, msgs.Get("2.content.1.is_error").Bool())

	assert.False(t, gjson.GetBytes(data, "system").Exists())
	assert.False(t, gjson.GetBytes(data, "tools").Exists())
}

func TestTools_OrderAndSchema(t *testing.T) {
	noop := func(context.Context, tool.Args) (any, error) { return nil, nil }
	defs := []tool.Definition{
		tool.Must("b_tool", noop, tool.Params(
			tool.NewParam[string]("z", "last alphabetically, first declared"),
			tool.NewParam[bool]("a", "").WithDefault(false),
		)),
		tool.Must("a_tool", noop, tool.Description("second")),
	}

	data, err := json.Marshal(Tools(defs))
	require.NoError(t, err)

	assert.Equal(t, "b_tool", gjson.GetBytes(data, "0.name").String())
	assert.Equal(t, "a_tool", gjson.GetBytes(data, "1.name").String())
	assert.Equal(t, "second", gjson.GetBytes(data, "1.description").String())
	assert.Equal(t, "object", gjson.GetBytes(data, "0.input_schema.type").String())

	var keys []string
	gjson.GetBytes(data, "0.input_schema.properties").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"z", "a"}, keys)
	assert.JSONEq(t, `["z"]`, gjson.GetBytes(data, "0.input_schema.required").Raw)
}
