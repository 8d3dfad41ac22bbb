package tool

import (
	"errors"
	"fmt"
)

// ErrUserDenied is returned when a confirmation-gated call is refused.
var ErrUserDenied = errors.New("user denied the tool call")

// ToolNotFoundError reports a call to a name missing from the registry.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ArgumentError reports an argument that could not be bound. Param is empty
// when the arguments as a whole were rejected.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Param == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("argument %q: %s", e.Param, e.Reason)
}

// ExecutionError wraps a failure raised by a handler.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
