// Package messages defines the conversation data model: messages made of
// ordered content parts, the tool calls a model issues, the results fed back
// for them, token usage counters, and the append-only History that holds a
// conversation.
//
// Design decisions:
//   - Messages are values. Once appended to a History their parts are copied
//     and never mutated, so callers may keep references safely.
//   - Content parts are a closed set (TextPart, ToolUsePart, ToolResultPart)
//     discriminated by a "type" field on the wire.
//   - Tool arguments stay raw JSON text end to end; decoding happens at the
//     tool boundary where the parameter schema is known.
//
// Example:
//
//	var h messages.History
//	h.Append(messages.NewUser(messages.TextPart{Text: "rotate the cube"}))
//	h.Append(messages.NewAssistant(
//		messages.TextPart{Text: "Rotating it now."},
//		messages.ToolCall{ID: "toolu_1", Name: "rotate", Arguments: `{"deg":90}`}.Part(),
//	))
package messages
