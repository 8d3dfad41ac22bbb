// Package provider defines the contract between a session and the service
// that produces model output.
//
// A Transport submits a Request and streams the raw response body into a Sink.
// The session supplies the Sink, an event-stream parser, so the transport
// never sees protocol frames or session state. Send must return right after
// the request is dispatched; bytes arrive later on the transport's own
// goroutine.
//
// Design decisions:
//   - Byte level boundary: transports deliver bytes, not events. Framing and
//     turn logic live on the session side where they can be driven by a
//     single goroutine.
//   - Failure signalling through the sink: a transport reports network and
//     HTTP failures by closing the sink with a TransportError. Send itself
//     only fails when the request cannot be dispatched at all.
//   - Cancellation by context: cancelling the context given to Send tears
//     down the request.
//
// Example usage:
//
//	queue := sse.NewQueue()
//	parser := sse.NewParser(queue)
//	err := transport.Send(ctx, provider.Request{
//		Model:     "claude-sonnet-4-5",
//		MaxTokens: 4096,
//		Messages:  history.Messages(),
//		Tools:     registry.Definitions(),
//	}, parser)
package provider
