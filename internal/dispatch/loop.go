package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("dispatch loop is already running")

// Poster accepts tasks for execution on the interaction loop.
// Components that deliver results to loop-owned state depend on this
// interface rather than on *Loop.
type Poster interface {
	// Post enqueues fn and reports whether it was accepted.
	Post(fn func()) bool
}

// Loop runs posted tasks sequentially on a single goroutine.
// Post never blocks; the queue grows as needed.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	closed  bool
	running bool
	done    chan struct{}
	logger  *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets a custom logger for the loop.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a Loop. Call Run to start processing tasks.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	return l
}

// Post enqueues fn to run on the loop goroutine.
// It returns false, dropping fn, if the loop has been closed.
// Post is safe to call from any goroutine, including the loop itself.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run processes tasks on the calling goroutine until ctx is cancelled or
// Close is called. Tasks already queued when Close is called still run;
// tasks queued when ctx is cancelled are dropped.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer close(l.done)

	for {
		task, ok, closed := l.next()
		if ok {
			task()
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			l.shutdown()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// next pops the oldest task. closed is true when the queue is empty and no
// more tasks will arrive.
func (l *Loop) next() (task func(), ok bool, closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false, l.closed
	}
	task = l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true, false
}

// shutdown closes the loop and drops pending tasks.
func (l *Loop) shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dropped := len(l.queue); dropped > 0 {
		l.logger.Debug("dropping queued tasks", "count", dropped)
	}
	l.closed = true
	l.queue = nil
}

// Close stops accepting new tasks. Run returns after draining the tasks
// that were already queued. Close may be called more than once and from
// any goroutine.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Done returns a channel that is closed when Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
