package tool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/pkg/slogx"
)

// ConfirmationRequest asks the host whether a gated call may run.
type ConfirmationRequest struct {
	ID          string
	Tool        string
	Description string
	Call        messages.ToolCall
}

// Confirmer decides whether a confirmation-gated call may run. An error is
// treated as a denial.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(ctx context.Context, req ConfirmationRequest) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, req ConfirmationRequest) (bool, error) {
	return f(ctx, req)
}

var (
	// AutoApprove approves every call.
	AutoApprove Confirmer = ConfirmFunc(func(context.Context, ConfirmationRequest) (bool, error) { return true, nil })
	// DenyAll refuses every call. It is the dispatcher default.
	DenyAll Confirmer = ConfirmFunc(func(context.Context, ConfirmationRequest) (bool, error) { return false, nil })
)

// AsyncConfirmer turns confirmation into a request/response exchange: each
// Confirm publishes a request on Requests and suspends only that call until
// the host answers with Respond or the context ends.
type AsyncConfirmer struct {
	requests chan ConfirmationRequest
	pending  *haxmap.Map[string, chan bool]
}

// NewAsyncConfirmer creates a confirmer whose request channel buffers up to
// buffer requests.
func NewAsyncConfirmer(buffer int) *AsyncConfirmer {
	return &AsyncConfirmer{
		requests: make(chan ConfirmationRequest, buffer),
		pending:  haxmap.New[string, chan bool](),
	}
}

// Requests delivers confirmation requests to the host.
func (a *AsyncConfirmer) Requests() <-chan ConfirmationRequest {
	return a.requests
}

// Pending returns the number of calls awaiting an answer.
func (a *AsyncConfirmer) Pending() int {
	return int(a.pending.Len())
}

// Confirm implements Confirmer.
func (a *AsyncConfirmer) Confirm(ctx context.Context, req ConfirmationRequest) (bool, error) {
	answer := make(chan bool, 1)
	a.pending.Set(req.ID, answer)
	defer a.pending.Del(req.ID)

	select {
	case a.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case approved := <-answer:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Respond answers the request with the given id.
func (a *AsyncConfirmer) Respond(id string, approved bool) error {
	answer, ok := a.pending.Get(id)
	if !ok {
		return fmt.Errorf("no pending confirmation %q", id)
	}
	a.pending.Del(id)
	select {
	case answer <- approved:
	default:
		return fmt.Errorf("confirmation %q already answered", id)
	}
	slog.Debug("confirmation answered", slogx.LoggerName("tool.confirm"), slog.String("request_id", id), slog.Bool("approved", approved))
	return nil
}
