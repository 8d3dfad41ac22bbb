package main

import (
	"context"
	"testing"

	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDemoTools(t *testing.T) {
	registry := tool.NewRegistry(demoTools)
	require.Equal(t, 5, registry.Len())

	weather, ok := registry.Lookup("get_weather")
	require.True(t, ok)
	assert.Equal(t, []string{"city"}, weather.Required())

	del, ok := registry.Lookup("delete_note")
	require.True(t, ok)
	assert.True(t, del.RequiresConfirmation)
}

func TestDemoTools_Dispatch(t *testing.T) {
	registry := tool.NewRegistry(demoTools)
	d, err := tool.NewDispatcher(registry, tool.WithConfirmer(tool.AutoApprove))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    messages.ToolCall
		isError bool
		check   func(t *testing.T, doc gjson.Result)
	}{
		{
			name: "weather defaults to celsius",
			call: messages.ToolCall{ID: "1", Name: "get_weather", Arguments: `{"city":"Ghent"}`},
			check: func(t *testing.T, doc gjson.Result) {
				data := gjson.Parse(doc.Get("data").String())
				assert.Equal(t, "celsius", data.Get("unit").String())
				assert.Equal(t, 19.5, data.Get("temperature").Float())
			},
		},
		{
			name: "weather in fahrenheit",
			call: messages.ToolCall{ID: "2", Name: "get_weather", Arguments: `{"city":"Ghent","unit":"fahrenheit"}`},
			check: func(t *testing.T, doc gjson.Result) {
				assert.InDelta(t, 67.1, gjson.Parse(doc.Get("data").String()).Get("temperature").Float(), 1e-9)
			},
		},
		{
			name:    "unit outside enum",
			call:    messages.ToolCall{ID: "3", Name: "get_weather", Arguments: `{"city":"Ghent","unit":"kelvin"}`},
			isError: true,
		},
		{
			name:    "unknown zone",
			call:    messages.ToolCall{ID: "4", Name: "current_time", Arguments: `{"zone":"Mars/Olympus"}`},
			isError: true,
		},
		{
			name: "save then list",
			call: messages.ToolCall{ID: "5", Name: "save_note", Arguments: `{"title":"groceries","body":"milk"}`},
			check: func(t *testing.T, doc gjson.Result) {
				assert.Equal(t, `saved "groceries"`, doc.Get("data").String())
				listed := d.Execute(ctx, messages.ToolCall{ID: "6", Name: "list_notes"})
				assert.Contains(t, listed.Content, "groceries")
			},
		},
		{
			name:    "delete missing note",
			call:    messages.ToolCall{ID: "7", Name: "delete_note", Arguments: `{"title":"nope"}`},
			isError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Execute(ctx, tt.call)
			assert.Equal(t, tt.call.ID, res.ToolCallID)
			assert.Equal(t, tt.isError, res.IsError, res.Content)
			if tt.check != nil {
				tt.check(t, gjson.Parse(res.Content))
			}
		})
	}
}
