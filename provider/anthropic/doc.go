// Package anthropic is the streaming transport for the Anthropic Messages
// API. It builds request params from the session history and tool catalog,
// posts them with streaming enabled and copies the raw event-stream body into
// the session's sink on a background goroutine.
//
// Example usage:
//
//	transport := anthropic.New(option.WithAPIKey(key))
//	session, err := palaver.New(cfg, transport)
package anthropic
