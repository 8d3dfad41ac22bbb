package palaver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/casualjim/palaver/pkg/slogx"
)

// Work is a function run on the loop goroutine with exclusive access to the
// session.
type Work func(ctx context.Context, s *Session)

// Loop drives a session from a single goroutine: it calls Update on every
// tick and runs posted work between ticks.
type Loop struct {
	session *Session
	tick    <-chan time.Time
	work    chan Work
	done    chan struct{}
	once    sync.Once
}

// NewLoop creates a loop for s that updates it whenever tick fires.
func NewLoop(s *Session, tick <-chan time.Time) *Loop {
	return &Loop{
		session: s,
		tick:    tick,
		work:    make(chan Work, 64),
		done:    make(chan struct{}),
	}
}

// Session returns the session the loop drives.
func (l *Loop) Session() *Session { return l.session }

// Post schedules w on the loop goroutine. It blocks only while the work queue
// is full.
func (l *Loop) Post(ctx context.Context, w Work) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.work <- w:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes ticks and posted work until ctx ends, then closes the session.
// Run may be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	defer func() {
		if err := l.session.Close(); err != nil {
			slog.Warn("failed to close session", slogx.LoggerName("loop"), slogx.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.tick:
			l.session.Update(ctx)
		case w := <-l.work:
			w(ctx, l.session)
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }
