package anthropic

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/provider"
	"github.com/casualjim/palaver/tool"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// BuildParams converts a provider request into Messages API params.
func BuildParams(req provider.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  Messages(req.Messages),
	}
	if strings.TrimSpace(req.System) != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = Tools(req.Tools)
	}
	return params
}

// Messages converts history into message params. Empty text parts are
// dropped and so are messages left without content.
func Messages(msgs []messages.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		blocks := contentBlocks(m.Parts)
		if len(blocks) == 0 {
			continue
		}
		switch m.Role {
		case messages.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func contentBlocks(parts []messages.Part) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, p := range parts {
		switch part := p.(type) {
		case messages.TextPart:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case messages.ToolUsePart:
			blocks = append(blocks, anthropic.NewToolUseBlock(part.ID, toolInput(part.Input), part.Name))
		case messages.ToolResultPart:
			blocks = append(blocks, anthropic.NewToolResultBlock(part.ToolCallID, part.Content, part.IsError))
		}
	}
	return blocks
}

// toolInput turns accumulated argument text back into a JSON object. The API
// only accepts objects, so anything else is sent as an empty one.
func toolInput(raw string) any {
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(raw)
}

// Tools converts the catalog into tool params, preserving order.
func Tools(defs []tool.Definition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		schema := def.InputSchema()
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: schema.Properties,
			Required:   schema.Required,
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" {
			tools[i].OfTool.Description = anthropic.String(def.Description)
		}
	}
	return tools
}
