package messages

import (
	"iter"
	"slices"
)

// History is the ordered record of a conversation. Messages are only ever
// appended; Truncate exists to roll back a send that never reached the
// provider.
//
// History is not safe for concurrent use; it belongs to the goroutine that
// drives the session.
type History struct {
	messages []Message
}

// NewHistory creates a history seeded with msgs.
func NewHistory(msgs ...Message) *History {
	h := &History{}
	for _, m := range msgs {
		h.Append(m)
	}
	return h
}

// Append adds m to the end of the history. The parts slice is copied so later
// changes by the caller cannot reach the stored message.
func (h *History) Append(m Message) {
	m.Parts = slices.Clone(m.Parts)
	h.messages = append(h.messages, m)
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Truncate drops every message after the first n. It is a no-op when the
// history is not longer than n.
func (h *History) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(h.messages) {
		return
	}
	clear(h.messages[n:])
	h.messages = h.messages[:n]
}

// Messages returns a copy of the messages in order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	for i, m := range h.messages {
		m.Parts = slices.Clone(m.Parts)
		out[i] = m
	}
	return out
}

// All iterates over the messages in order without copying the slice.
func (h *History) All() iter.Seq[Message] {
	return slices.Values(h.messages)
}

// Last returns the most recent message.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
