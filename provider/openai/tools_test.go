package openai

import (
	"context"
	"testing"

	"github.com/casualjim/palaver/tool"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, tool.Args) (any, error) { return nil, nil }

func TestTools(t *testing.T) {
	defs := []tool.Definition{
		tool.Must("scale", noop,
			tool.Description("Scales the selection"),
			tool.Params(
				tool.NewParam[float64]("factor", "Scale factor"),
				tool.NewParam[string]("axis", "Axis").OneOf("x", "y", "z").WithDefault("z"),
			),
		),
		tool.Must("undo", noop),
	}

	tools, err := Tools(defs)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	first := tools[0]
	assert.Equal(t, openai.ChatCompletionToolTypeFunction, first.Type.Value)
	fn := first.Function.Value
	assert.Equal(t, "scale", fn.Name.Value)
	assert.Equal(t, "Scales the selection", fn.Description.Value)

	params := map[string]any(fn.Parameters.Value)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"factor"}, params["required"])

	props, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	factor, ok := props["factor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", factor["type"])
	axis, ok := props["axis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y", "z"}, axis["enum"])

	assert.False(t, tools[1].Function.Value.Description.Present)
}
