// Package uuidx generates the time-ordered identifiers used for sessions,
// turns and messages.
package uuidx

import "github.com/google/uuid"

// New returns a version 7 UUID. Version 7 ids sort by creation time, which
// keeps turn and message ids in the order they were produced.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New as a string.
func NewString() string {
	return New().String()
}
