package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/pkg/uuidx"
	"github.com/fogfish/opts"
)

// Dispatcher resolves tool calls against a Registry and runs them. It never
// returns an error: every failure is folded into the ToolCallResult.
type Dispatcher struct {
	registry  *Registry
	confirmer Confirmer
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption = opts.Option[Dispatcher]

// WithConfirmer sets the confirmer asked before gated calls.
func WithConfirmer(c Confirmer) DispatcherOption {
	return opts.Type[Dispatcher](func(d *Dispatcher) error {
		if c == nil {
			return errors.New("confirmer is required")
		}
		d.confirmer = c
		return nil
	})
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l *slog.Logger) DispatcherOption {
	return opts.Type[Dispatcher](func(d *Dispatcher) error {
		d.logger = l
		return nil
	})
}

// NewDispatcher creates a dispatcher over registry. Without WithConfirmer,
// gated calls are denied.
func NewDispatcher(registry *Registry, options ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	d := &Dispatcher{registry: registry, confirmer: DenyAll}
	if err := opts.Apply(d, options); err != nil {
		return nil, err
	}
	if d.logger == nil {
		d.logger = slogx.Component("tool.dispatcher")
	}
	return d, nil
}

// Execute runs one call: lookup, confirmation, argument binding, invocation,
// result shaping. Nothing observable happens before confirmation succeeds.
func (d *Dispatcher) Execute(ctx context.Context, call messages.ToolCall) messages.ToolCallResult {
	log := d.logger.With(slogx.Tool(call.Name, call.ID))

	def, ok := d.registry.Lookup(call.Name)
	if !ok {
		return d.failure(log, call, &ToolNotFoundError{Name: call.Name})
	}

	if def.RequiresConfirmation {
		approved, err := d.confirmer.Confirm(ctx, ConfirmationRequest{
			ID:          uuidx.NewString(),
			Tool:        def.Name,
			Description: def.Description,
			Call:        call,
		})
		if err != nil {
			return d.failure(log, call, fmt.Errorf("%w: %w", ErrUserDenied, err))
		}
		if !approved {
			return d.failure(log, call, ErrUserDenied)
		}
	}

	args, err := Bind(def.Params, call.Arguments)
	if err != nil {
		return d.failure(log, call, err)
	}

	log.DebugContext(ctx, "invoking tool")
	value, err := invoke(ctx, def, args)
	if err != nil {
		return d.failure(log, call, &ExecutionError{Tool: def.Name, Err: err})
	}

	res, err := normalizeResult(value)
	if err != nil {
		return d.failure(log, call, &ExecutionError{Tool: def.Name, Err: err})
	}
	return d.result(log, call, res)
}

// ExecuteAll runs calls one after another, results in call order.
func (d *Dispatcher) ExecuteAll(ctx context.Context, calls []messages.ToolCall) []messages.ToolCallResult {
	results := make([]messages.ToolCallResult, len(calls))
	for i, call := range calls {
		results[i] = d.Execute(ctx, call)
	}
	return results
}

// Go runs call on its own goroutine. The channel receives exactly one result
// and is then closed.
func (d *Dispatcher) Go(ctx context.Context, call messages.ToolCall) <-chan messages.ToolCallResult {
	out := make(chan messages.ToolCallResult, 1)
	go func() {
		defer close(out)
		out <- d.Execute(ctx, call)
	}()
	return out
}

func invoke(ctx context.Context, def Definition, args Args) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "tool panicked", slog.String(slogx.KeyTool, def.Name), slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			value = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return def.Handler(ctx, args)
}

func (d *Dispatcher) failure(log *slog.Logger, call messages.ToolCall, err error) messages.ToolCallResult {
	log.Warn("tool call failed", slogx.Error(err))
	return d.result(log, call, Fail(err.Error()))
}

func (d *Dispatcher) result(log *slog.Logger, call messages.ToolCall, res Result) messages.ToolCallResult {
	content, err := res.JSON()
	if err != nil {
		log.Error("failed to encode tool result", slogx.Error(err))
		res = Fail("failed to encode tool result: " + err.Error())
		content, _ = res.JSON()
	}
	return messages.ToolCallResult{
		ToolCallID: call.ID,
		Content:    content,
		IsError:    !res.Success,
	}
}
