package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discard struct{ closed error }

func (d *discard) Write(p []byte) (int, error) { return len(p), nil }
func (d *discard) CloseWithError(err error) error {
	d.closed = err
	return nil
}

func TestTransportFunc(t *testing.T) {
	boom := errors.New("boom")
	var got Request
	tr := TransportFunc(func(_ context.Context, req Request, sink Sink) error {
		got = req
		return sink.CloseWithError(boom)
	})

	sink := &discard{}
	require.NoError(t, tr.Send(context.Background(), Request{Model: "m", MaxTokens: 10}, sink))
	assert.Equal(t, "m", got.Model)
	assert.ErrorIs(t, sink.closed, boom)
}

func TestErrors(t *testing.T) {
	cause := errors.New("connection refused")

	err := &TransportError{Err: cause}
	assert.Equal(t, "transport error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = &TransportError{StatusCode: 529, Err: cause}
	assert.Equal(t, "transport error (status 529): connection refused", err.Error())

	perr := &ProtocolError{Frame: "{", Err: cause}
	assert.Equal(t, "protocol error: connection refused", perr.Error())
	var target *ProtocolError
	assert.ErrorAs(t, error(perr), &target)
}
