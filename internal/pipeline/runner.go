package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/report"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// ErrPermissionDenied ends a watch when the scan source may not be used.
var ErrPermissionDenied = errors.New("scan permission denied")

// FetcherFactory creates a Fetcher that delivers results to poster.
type FetcherFactory func(poster dispatch.Poster) Fetcher

// Runner drives scans on private interaction loops.
type Runner struct {
	gate     Gate
	fetchers FetcherFactory
	options  scanner.Options
	logger   *slog.Logger
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner and the sessions and
// controllers it creates.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRunnerScanOptions sets the scanner options used for every scan.
func WithRunnerScanOptions(opts scanner.Options) RunnerOption {
	return func(r *Runner) {
		r.options = opts
	}
}

// NewRunner creates a Runner.
func NewRunner(gate Gate, fetchers FetcherFactory, opts ...RunnerOption) *Runner {
	r := &Runner{
		gate:     gate,
		fetchers: fetchers,
		options:  scanner.DefaultOptions(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// recordingScanner remembers the payload delivered by the wrapped scanner.
type recordingScanner struct {
	base scanner.Scanner

	mu      sync.Mutex
	payload string
}

func (s *recordingScanner) Launch(opts scanner.Options, deliver func(model.ScanOutcome)) {
	s.base.Launch(opts, func(outcome model.ScanOutcome) {
		if text, ok := outcome.Text(); ok {
			s.mu.Lock()
			s.payload = text
			s.mu.Unlock()
		}
		deliver(outcome)
	})
}

func (s *recordingScanner) Payload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// ScanOnce runs one scan of sc until it settles and returns its report.
// If ctx ends first, the report holds the state reached so far and Error
// is set.
func (r *Runner) ScanOnce(ctx context.Context, source string, sc scanner.Scanner) *model.ScanReport {
	started := r.now()
	if err := ctx.Err(); err != nil {
		return r.interrupted(source, started, err)
	}

	loop := dispatch.NewLoop(dispatch.WithLogger(r.logger))
	ctrl := NewController(WithControllerLogger(r.logger))

	var (
		mu     sync.Mutex
		latest model.Snapshot
	)
	settled := make(chan model.Snapshot, 1)
	ctrl.Subscribe(func(s model.Snapshot) {
		mu.Lock()
		latest = s
		mu.Unlock()
		if s.Settled() {
			select {
			case settled <- s:
			default:
			}
		}
	})

	rec := &recordingScanner{base: sc}
	sess := NewSession(r.gate, rec, ctrl, r.fetchers(loop), loop,
		WithScanOptions(r.options),
		WithSessionLogger(r.logger),
	)

	go func() {
		_ = loop.Run(context.Background()) //nolint:errcheck // loop stops through Close
	}()
	defer func() {
		loop.Close()
		<-loop.Done()
	}()

	loop.Post(func() { sess.Start() })

	var (
		snap   model.Snapshot
		runErr error
	)
	select {
	case snap = <-settled:
	case <-ctx.Done():
		runErr = ctx.Err()
		mu.Lock()
		snap = latest
		mu.Unlock()
	}

	rep := report.NewScanReport(source, snap)
	rep.Payload = rec.Payload()
	rep.StartedAt = started
	rep.Duration = r.now().Sub(started)
	if runErr != nil {
		rep.Error = runErr.Error()
	}

	r.logger.Debug("scan settled", "source", source, "scan", rep.Scan, "result", rep.Result)
	return rep
}

// interrupted returns the report for a scan that never started.
func (r *Runner) interrupted(source string, started time.Time, err error) *model.ScanReport {
	rep := report.NewScanReport(source, model.Snapshot{})
	rep.StartedAt = started
	rep.Error = err.Error()
	return rep
}

// exhaustible is implemented by scanners whose input can run out.
type exhaustible interface {
	Done() <-chan struct{}
}

// Watch scans sc repeatedly on one controller, starting the next scan as
// soon as the previous one has reported, so fetches may overlap. onChange
// receives every snapshot. Watch returns nil once the scanner is exhausted
// and the displayed status is no longer Pending. A cancelled outcome ends the
// watch for scanners that cannot report exhaustion. A denied permission ends
// it with ErrPermissionDenied.
func (r *Runner) Watch(ctx context.Context, sc scanner.Scanner, onChange func(model.Snapshot)) error {
	loop := dispatch.NewLoop(dispatch.WithLogger(r.logger))
	ctrl := NewController(WithControllerLogger(r.logger))
	ctrl.Subscribe(onChange)

	finished := make(chan error, 1)
	var (
		inputDone bool
		finishErr error
		once      sync.Once
	)
	finish := func(err error) {
		once.Do(func() { finished <- err })
	}

	ctrl.Subscribe(func(s model.Snapshot) {
		if inputDone && !s.Status.IsPending() {
			finish(finishErr)
		}
	})

	var sess *Session
	onReported := func(status model.ScanStatus) {
		switch status.Kind() {
		case model.ScanPermissionDenied:
			inputDone, finishErr = true, ErrPermissionDenied
		case model.ScanUserCancelled:
			if isExhausted(sc) {
				inputDone = true
			}
		}
		if !inputDone {
			sess.Start()
			return
		}
		if !ctrl.DisplayedStatus().IsPending() {
			finish(finishErr)
		}
	}

	sess = NewSession(r.gate, sc, ctrl, r.fetchers(loop), loop,
		WithScanOptions(r.options),
		WithSessionLogger(r.logger),
		WithOnReported(onReported),
	)

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()
	loop.Post(func() { sess.Start() })

	select {
	case err := <-finished:
		loop.Close()
		<-loop.Done()
		return err
	case err := <-loopErr:
		return err
	}
}

// isExhausted reports whether sc has run out of input. Scanners that cannot
// tell count as exhausted after any cancellation.
func isExhausted(sc scanner.Scanner) bool {
	ex, ok := sc.(exhaustible)
	if !ok {
		return true
	}
	select {
	case <-ex.Done():
		return true
	default:
		return false
	}
}
