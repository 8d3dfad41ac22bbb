package messages

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	textPartJSON       = []byte(`{"type":"text"}`)
	toolUsePartJSON    = []byte(`{"type":"tool_use"}`)
	toolResultPartJSON = []byte(`{"type":"tool_result"}`)
)

// Part is one element of a message's content.
type Part interface {
	// PartType returns the wire discriminator of the part.
	PartType() string
	json.Marshaler
}

// TextPart is a run of plain text.
type TextPart struct {
	Text string
}

// PartType implements Part.
func (TextPart) PartType() string { return "text" }

// MarshalJSON implements json.Marshaler.
func (p TextPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(textPartJSON, "text", p.Text)
}

// ToolUsePart records a tool invocation issued by the assistant.
type ToolUsePart struct {
	ID    string
	Name  string
	Input string // raw JSON arguments
}

// PartType implements Part.
func (ToolUsePart) PartType() string { return "tool_use" }

// MarshalJSON implements json.Marshaler. Input is embedded as raw JSON when
// valid and as a string otherwise.
func (p ToolUsePart) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(toolUsePartJSON, "id", p.ID)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "name", p.Name)
	if err != nil {
		return nil, err
	}
	if p.Input != "" && gjson.Valid(p.Input) {
		return sjson.SetRawBytes(result, "input", []byte(p.Input))
	}
	return sjson.SetBytes(result, "input", p.Input)
}

// ToolResultPart carries the outcome of one tool call back to the model.
type ToolResultPart struct {
	ToolCallID string
	Content    string
	IsError    bool
}

// PartType implements Part.
func (ToolResultPart) PartType() string { return "tool_result" }

// MarshalJSON implements json.Marshaler.
func (p ToolResultPart) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(toolResultPartJSON, "tool_use_id", p.ToolCallID)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "content", p.Content)
	if err != nil {
		return nil, err
	}
	if p.IsError {
		return sjson.SetBytes(result, "is_error", true)
	}
	return result, nil
}

// ParsePart decodes a single part from its wire form.
func ParsePart(data []byte) (Part, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)
	switch tpe := jv.Get("type").String(); tpe {
	case "text":
		return TextPart{Text: jv.Get("text").String()}, nil
	case "tool_use":
		input := jv.Get("input")
		raw := input.Raw
		if input.Type == gjson.String {
			raw = input.String()
		}
		return ToolUsePart{
			ID:    jv.Get("id").String(),
			Name:  jv.Get("name").String(),
			Input: raw,
		}, nil
	case "tool_result":
		return ToolResultPart{
			ToolCallID: jv.Get("tool_use_id").String(),
			Content:    jv.Get("content").String(),
			IsError:    jv.Get("is_error").Bool(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown part type %q", tpe)
	}
}

// ParseParts decodes a JSON array of parts.
func ParseParts(data []byte) ([]Part, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)
	if !jv.IsArray() {
		return nil, fmt.Errorf("parts must be an array")
	}
	arr := jv.Array()
	parts := make([]Part, len(arr))
	for i, pj := range arr {
		part, err := ParsePart([]byte(pj.Raw))
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		parts[i] = part
	}
	return parts, nil
}
