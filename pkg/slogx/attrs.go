// Package slogx holds the slog attribute helpers shared by the engine packages.
package slogx

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// KeyLoggerName is the attribute key naming the component that logged.
	KeyLoggerName = "logger"
	// KeySession is the attribute key for a session id.
	KeySession = "session_id"
	// KeyTurn is the attribute key for a turn id.
	KeyTurn = "turn_id"
	// KeyTool is the attribute key for a tool name.
	KeyTool = "tool"
	// KeyToolCall is the attribute key for a tool call id.
	KeyToolCall = "tool_call_id"
)

// Error returns an attribute carrying the error message under "error".
// A nil error yields an empty string so callers can log unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Stringer renders value with its String method.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// ByteString logs a byte slice as text, typically a raw frame payload.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// LoggerName names the component emitting the record.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Session tags a record with the session id.
func Session(id uuid.UUID) slog.Attr {
	return slog.String(KeySession, id.String())
}

// Turn tags a record with the turn id.
func Turn(id uuid.UUID) slog.Attr {
	return slog.String(KeyTurn, id.String())
}

// Tool tags a record with a tool name and the id of the call that invoked it.
func Tool(name, callID string) slog.Attr {
	return slog.Group("call", slog.String(KeyTool, name), slog.String(KeyToolCall, callID))
}

// Component returns a logger derived from the default one, named for a component.
func Component(name string) *slog.Logger {
	return slog.Default().With(LoggerName(name))
}
