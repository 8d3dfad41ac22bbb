package palaver

import (
	"errors"
	"fmt"
)

var (
	// ErrTurnInProgress rejects a send while a turn is outstanding.
	ErrTurnInProgress = errors.New("a turn is already in progress")
	// ErrClosed rejects a send on a closed session.
	ErrClosed = errors.New("session is closed")
	// ErrEmptyMessage rejects a send without content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrLoopStopped is returned when posting to a loop that is not running.
	ErrLoopStopped = errors.New("loop stopped")
)

// ConfigurationError reports a setting that must be present before sending.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Setting)
}
