package provider

import (
	"context"
	"fmt"
	"io"

	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/tool"
)

// Sink receives the raw response body of a streaming request.
type Sink interface {
	io.Writer
	// CloseWithError ends the stream. A nil error means the body was read to
	// the end.
	CloseWithError(err error) error
}

// Transport submits requests to the model provider.
type Transport interface {
	// Send dispatches req and returns immediately. The response body is
	// written to sink from another goroutine, and sink is closed exactly once
	// when the stream ends, fails, or ctx is cancelled.
	Send(ctx context.Context, req Request, sink Sink) error
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, req Request, sink Sink) error

func (f TransportFunc) Send(ctx context.Context, req Request, sink Sink) error {
	return f(ctx, req, sink)
}

// Request is everything a provider needs for one turn.
type Request struct {
	Model     string
	MaxTokens int64
	System    string
	Messages  []messages.Message
	Tools     []tool.Definition
}

// TransportError is a network or HTTP failure.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a frame that could not be understood. It is reported per
// frame and never ends a stream.
type ProtocolError struct {
	Frame string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
