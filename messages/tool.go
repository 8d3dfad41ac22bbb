package messages

// ToolCall is a complete tool invocation issued by the model in one turn.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Part converts the call into the content part stored in history.
func (c ToolCall) Part() ToolUsePart {
	return ToolUsePart{ID: c.ID, Name: c.Name, Input: c.Arguments}
}

// ToolCallResult is the outcome of executing one ToolCall.
type ToolCallResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// Part converts the result into the content part sent back to the model.
func (r ToolCallResult) Part() ToolResultPart {
	return ToolResultPart{ToolCallID: r.ToolCallID, Content: r.Content, IsError: r.IsError}
}
