// Package sse parses a server-sent event stream delivered as arbitrary byte
// chunks into discrete frames.
//
// A Parser is fed by whichever goroutine reads the network body. Every
// complete frame is pushed onto a Queue, and the goroutine that owns the
// conversation state drains that Queue on its own schedule. The Queue lock is
// the only synchronization between the two sides.
//
//	q := sse.NewQueue()
//	p := sse.NewParser(q)
//	go func() {
//		_, err := io.Copy(p, body)
//		_ = p.CloseWithError(err)
//	}()
//
//	// later, on the main goroutine
//	events, done, err := q.Drain()
package sse
