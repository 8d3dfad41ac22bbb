package sse

import (
	"bytes"
	"log/slog"

	"github.com/casualjim/palaver/pkg/slogx"
)

var (
	delimiter = []byte("\n\n")
	crlf      = []byte("\r\n")
	lf        = []byte("\n")
)

// Parser splits a byte stream into frames and pushes them onto a Queue.
//
// A Parser is not safe for concurrent writes; it is owned by the single
// goroutine that reads the response body.
type Parser struct {
	buf    []byte
	queue  *Queue
	closed bool
}

// NewParser creates a parser that publishes into q.
func NewParser(q *Queue) *Parser {
	return &Parser{queue: q}
}

// Queue returns the queue the parser publishes into.
func (p *Parser) Queue() *Queue {
	return p.queue
}

// Write buffers chunk and emits every frame it completes. It never fails, so
// a Parser can be the destination of io.Copy.
func (p *Parser) Write(chunk []byte) (int, error) {
	if p.closed {
		return len(chunk), nil
	}
	p.buf = append(p.buf, chunk...)
	// a CRLF pair may straddle two chunks, so normalize the whole buffer
	if bytes.Contains(p.buf, crlf) {
		p.buf = bytes.ReplaceAll(p.buf, crlf, lf)
	}

	for {
		idx := bytes.Index(p.buf, delimiter)
		if idx < 0 {
			break
		}
		p.emit(p.buf[:idx])
		p.buf = p.buf[idx+len(delimiter):]
	}

	// release the backing array once everything was consumed
	if len(p.buf) == 0 {
		p.buf = nil
	}
	return len(chunk), nil
}

// Close parses whatever is still buffered as a final frame and finishes the
// queue.
func (p *Parser) Close() error {
	return p.CloseWithError(nil)
}

// CloseWithError is Close for a stream that ended because of err. The residual
// frame is still parsed so content delivered before the failure is not lost.
func (p *Parser) CloseWithError(err error) error {
	if p.closed {
		return nil
	}
	p.closed = true
	if len(bytes.TrimSpace(p.buf)) > 0 {
		p.emit(p.buf)
	}
	p.buf = nil
	p.queue.Finish(err)
	return nil
}

func (p *Parser) emit(block []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("dropping malformed frame", slogx.LoggerName("sse"), slog.Any("panic", r), slogx.ByteString("frame", block))
		}
	}()

	ev, ok := ParseFrame(string(block))
	if !ok {
		slog.Debug("skipping frame without data", slogx.LoggerName("sse"), slogx.ByteString("frame", block))
		return
	}
	p.queue.Push(ev)
}
