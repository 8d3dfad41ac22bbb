package openai

import (
	"fmt"
	"strings"

	"github.com/casualjim/palaver/pkg/jsonx"
	"github.com/casualjim/palaver/tool"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// Tools converts definitions into OpenAI function tool params, in order.
func Tools(defs []tool.Definition) ([]openai.ChatCompletionToolParam, error) {
	tools := make([]openai.ChatCompletionToolParam, len(defs))
	for i, def := range defs {
		param, err := Tool(def)
		if err != nil {
			return nil, err
		}
		tools[i] = param
	}
	return tools, nil
}

// Tool converts a single definition.
func Tool(def tool.Definition) (openai.ChatCompletionToolParam, error) {
	jv, err := jsonx.ToDynamicJSON(def.InputSchema())
	if err != nil {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("failed to convert schema of tool %s: %w", def.Name, err)
	}

	fn := openai.FunctionDefinitionParam{
		Name:       openai.String(def.Name),
		Parameters: openai.F(shared.FunctionParameters(jv)),
	}
	if strings.TrimSpace(def.Description) != "" {
		fn.Description = openai.String(def.Description)
	}

	return openai.ChatCompletionToolParam{
		Type:     openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(fn),
	}, nil
}
