package palaver

import (
	"errors"
	"log/slog"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/messages"
	"github.com/casualjim/palaver/tool"
	"github.com/fogfish/opts"
)

// Option configures a Session.
type Option = opts.Option[Session]

// WithHook subscribes h to the session's events.
func WithHook(h events.Hook) Option {
	return opts.Type[Session](func(s *Session) error {
		if h == nil {
			return errors.New("hook is required")
		}
		s.subscribers.Add(h)
		return nil
	})
}

// WithTools offers the registry's catalog to the model on every request.
func WithTools(r *tool.Registry) Option {
	return opts.Type[Session](func(s *Session) error {
		s.registry = r
		return nil
	})
}

// WithHistory seeds the conversation, e.g. to resume one kept by the host.
func WithHistory(msgs ...messages.Message) Option {
	return opts.Type[Session](func(s *Session) error {
		var errs error
		for _, m := range msgs {
			if err := m.Validate(); err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			s.history.Append(m)
		}
		return errs
	})
}

// WithLogger sets the session's logger.
func WithLogger(l *slog.Logger) Option {
	return opts.Type[Session](func(s *Session) error {
		s.logger = l
		return nil
	})
}
