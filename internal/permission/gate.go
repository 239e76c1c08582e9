package permission

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/model"
)

// Requester is the external permission service. Request starts an
// asynchronous prompt and must call done exactly once with the answer.
type Requester interface {
	Request(done func(granted bool))
}

// RequesterFunc adapts a function to the Requester interface.
type RequesterFunc func(done func(granted bool))

// Request calls f(done).
func (f RequesterFunc) Request(done func(granted bool)) {
	f(done)
}

// Gate tracks the permission state and mediates requests.
// All methods are safe for concurrent use.
type Gate struct {
	requester Requester
	poster    dispatch.Poster
	logger    *slog.Logger

	mu        sync.Mutex
	state     model.PermissionState
	pending   bool
	observers []func(model.PermissionState)
	waiters   []chan model.PermissionState
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets a custom logger for the gate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithPoster makes observers run on the given loop instead of on the
// goroutine that completed the request.
func WithPoster(p dispatch.Poster) Option {
	return func(g *Gate) {
		g.poster = p
	}
}

// NewGate creates a Gate in the PermissionUnknown state.
func NewGate(requester Requester, opts ...Option) *Gate {
	g := &Gate{
		requester: requester,
		state:     model.PermissionUnknown,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// CurrentState returns the current permission state.
func (g *Gate) CurrentState() model.PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CanScan reports whether the current state is PermissionGranted.
func (g *Gate) CanScan() bool {
	return g.CurrentState() == model.PermissionGranted
}

// Pending reports whether a request is outstanding.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// RequestPermission asks the Requester for permission.
// It is a no-op while another request is outstanding. The state does not
// change until the Requester answers through OnRequestCompleted.
func (g *Gate) RequestPermission() {
	g.mu.Lock()
	if g.pending {
		g.mu.Unlock()
		g.logger.Debug("permission request already pending")
		return
	}
	g.pending = true
	g.mu.Unlock()

	g.logger.Debug("requesting permission")
	g.requester.Request(g.OnRequestCompleted)
}

// Ensure returns at once if permission is granted. Otherwise it requests
// permission, or joins the outstanding request, and waits for the answer.
func (g *Gate) Ensure(ctx context.Context) (model.PermissionState, error) {
	g.mu.Lock()
	if g.state == model.PermissionGranted {
		g.mu.Unlock()
		return model.PermissionGranted, nil
	}

	ch := make(chan model.PermissionState, 1)
	g.waiters = append(g.waiters, ch)
	start := !g.pending
	g.pending = true
	g.mu.Unlock()

	if start {
		g.logger.Debug("requesting permission")
		g.requester.Request(g.OnRequestCompleted)
	}

	select {
	case state := <-ch:
		return state, nil
	case <-ctx.Done():
		return g.CurrentState(), ctx.Err()
	}
}

// OnRequestCompleted records the answer to a permission request and
// notifies observers. The caller must re-invoke the scan action afterwards;
// nothing is retried automatically.
func (g *Gate) OnRequestCompleted(granted bool) {
	state := model.PermissionDenied
	if granted {
		state = model.PermissionGranted
	}

	g.mu.Lock()
	if !g.pending {
		g.logger.Debug("permission answer without pending request", "state", state)
	}
	g.pending = false
	g.state = state
	observers := make([]func(model.PermissionState), len(g.observers))
	copy(observers, g.observers)
	waiters := g.waiters
	g.waiters = nil
	g.mu.Unlock()

	for _, ch := range waiters {
		ch <- state
	}

	g.logger.Info("permission request completed", "state", state)

	for _, fn := range observers {
		g.notify(fn, state)
	}
}

// Observe registers fn to be called after every completed request.
func (g *Gate) Observe(fn func(model.PermissionState)) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, fn)
}

// notify runs fn on the configured poster, or directly when there is none.
func (g *Gate) notify(fn func(model.PermissionState), state model.PermissionState) {
	if g.poster == nil {
		fn(state)
		return
	}
	if !g.poster.Post(func() { fn(state) }) {
		g.logger.Debug("permission observer dropped: loop closed")
	}
}
