package anthropic

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/casualjim/palaver/config"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/casualjim/palaver/provider"
)

const messagesPath = "v1/messages"

// Transport streams Messages API responses into a provider.Sink.
type Transport struct {
	client anthropic.Client
	logger *slog.Logger
}

var _ provider.Transport = (*Transport)(nil)

// New creates a transport. Without options the client reads its key and base
// URL from the environment the way the SDK does.
func New(options ...option.RequestOption) *Transport {
	return &Transport{
		client: anthropic.NewClient(options...),
		logger: slogx.Component("provider.anthropic"),
	}
}

// FromConfig creates a transport using the key and base URL of cfg, followed
// by any extra options.
func FromConfig(cfg config.Provider, options ...option.RequestOption) *Transport {
	var base []option.RequestOption
	if key := cfg.APIKey(); key != "" {
		base = append(base, option.WithAPIKey(key))
	}
	if u := cfg.BaseURL(); u != "" {
		base = append(base, option.WithBaseURL(u))
	}
	return New(append(base, options...)...)
}

// Send implements provider.Transport. The request runs on its own goroutine;
// its outcome is reported by closing sink.
func (t *Transport) Send(ctx context.Context, req provider.Request, sink provider.Sink) error {
	if sink == nil {
		return errors.New("sink is required")
	}
	params := BuildParams(req)
	go t.stream(ctx, params, sink)
	return nil
}

func (t *Transport) stream(ctx context.Context, params anthropic.MessageNewParams, sink provider.Sink) {
	var raw *http.Response
	err := t.client.Post(ctx, messagesPath, params, &raw, option.WithJSONSet("stream", true))
	if err != nil {
		t.logger.WarnContext(ctx, "messages request failed", slogx.Error(err))
		_ = sink.CloseWithError(transportError(err))
		return
	}
	defer raw.Body.Close()

	n, err := io.Copy(sink, raw.Body)
	if err != nil {
		t.logger.WarnContext(ctx, "stream interrupted", slog.Int64("bytes", n), slogx.Error(err))
		_ = sink.CloseWithError(&provider.TransportError{StatusCode: raw.StatusCode, Err: err})
		return
	}
	t.logger.DebugContext(ctx, "stream finished", slog.Int64("bytes", n))
	_ = sink.CloseWithError(nil)
}

func transportError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &provider.TransportError{StatusCode: apiErr.StatusCode, Err: err}
	}
	return &provider.TransportError{Err: err}
}
