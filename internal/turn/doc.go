// Package turn drives one request/response cycle with the model. It consumes
// parsed stream frames, accumulates streamed text and tool arguments, appends
// the finished assistant message to history and emits application events.
//
// The engine is not safe for concurrent use. It is owned by the goroutine
// that drives the session, which feeds it frames drained from the stream
// queue.
//
//	Idle → Sending → (StreamingText | StreamingToolInput)* → Finalizing → Idle
package turn
