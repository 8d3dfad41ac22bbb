package sse

import "strings"

// TypeDone is the event type given to a frame whose data is the [DONE]
// sentinel, whatever its event field said.
const TypeDone = "[DONE]"

const doneSentinel = "[DONE]"

// Event is one parsed frame.
type Event struct {
	// Type is the value of the event field, empty when the frame had none.
	Type string
	// Data holds the data lines joined with "\n".
	Data string
	// ID is the value of the id field, if any.
	ID string
}

// Done reports whether the frame is the terminal sentinel.
func (e Event) Done() bool {
	return e.Type == TypeDone
}

// ParseFrame parses a single frame without its trailing blank line.
// The boolean is false when the block carries no data field, in which case the
// frame must be dropped.
func ParseFrame(block string) (Event, bool) {
	var (
		ev      Event
		data    []string
		hasData bool
	)

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == ':' {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Type = value
		case "data":
			data = append(data, value)
			hasData = true
		case "id":
			ev.ID = value
		}
	}

	if !hasData {
		return Event{}, false
	}

	ev.Data = strings.Join(data, "\n")
	if ev.Data == doneSentinel {
		ev.Type = TypeDone
	}
	return ev, true
}
