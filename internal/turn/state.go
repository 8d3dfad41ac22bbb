package turn

// State is the phase of the current turn.
type State int

const (
	// Idle means no request is outstanding.
	Idle State = iota
	// Sending means the request is out and no content block is open.
	Sending
	// StreamingText means a text block is open.
	StreamingText
	// StreamingToolInput means a tool-use block is open.
	StreamingToolInput
	// Finalizing is the short phase in which the turn's results are published.
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case StreamingText:
		return "streaming_text"
	case StreamingToolInput:
		return "streaming_tool_input"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}
