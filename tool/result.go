package tool

import (
	"encoding"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/casualjim/palaver/pkg/slogx"
	json "github.com/goccy/go-json"
)

// Result is the payload fed back to the model for a tool call.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Ok builds a successful result.
func Ok(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail builds a failed result.
func Fail(message string) Result {
	return Result{Message: message}
}

// JSON encodes the result as the content of a tool result block.
func (r Result) JSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const successMessage = "success"

// normalizeResult shapes whatever a handler returned into a Result.
func normalizeResult(value any) (Result, error) {
	switch v := value.(type) {
	case nil:
		return Ok(successMessage, nil), nil
	case Result:
		return v, nil
	case *Result:
		if v == nil {
			return Ok(successMessage, nil), nil
		}
		return *v, nil
	}

	s, err := stringify(value)
	if err != nil {
		return Result{}, err
	}
	return Ok(successMessage, s), nil
}

func stringify(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			slog.Error("Error marshalling tool return", slogx.Error(err))
			return "", err
		}
		return string(b), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			slog.Error("Error marshalling tool return", slogx.Error(err))
			return "", err
		}
		return string(b), nil
	}
}
