package pipeline

import (
	"log/slog"
	"sync"

	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/fetch"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// Gate reports whether scanning is currently allowed.
type Gate interface {
	CanScan() bool
}

// Fetcher starts an asynchronous title fetch whose result is delivered on
// the interaction loop.
type Fetcher interface {
	Fetch(url model.NormalizedURL, onComplete func(model.FetchResult)) *fetch.Handle
}

// Session runs scan attempts against one scanner and one controller.
// Start must be called from the interaction loop.
type Session struct {
	gate       Gate
	scanner    scanner.Scanner
	controller *Controller
	fetcher    Fetcher
	poster     dispatch.Poster
	options    scanner.Options
	onReported func(model.ScanStatus)
	logger     *slog.Logger

	waiting bool
	// fetches counts started fetches; only the latest may complete.
	fetches uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithScanOptions sets the options passed to the scanner on every launch.
func WithScanOptions(opts scanner.Options) SessionOption {
	return func(s *Session) {
		s.options = opts
	}
}

// WithSessionLogger sets a custom logger for the session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithOnReported sets a hook run on the loop after each attempt has reported
// its status to the controller. The session accepts a new Start by then.
func WithOnReported(fn func(model.ScanStatus)) SessionOption {
	return func(s *Session) {
		s.onReported = fn
	}
}

// NewSession creates a Session. Scanner deliveries are posted to poster,
// which must be the loop the controller lives on.
func NewSession(gate Gate, sc scanner.Scanner, controller *Controller, fetcher Fetcher, poster dispatch.Poster, opts ...SessionOption) *Session {
	s := &Session{
		gate:       gate,
		scanner:    sc,
		controller: controller,
		fetcher:    fetcher,
		poster:     poster,
		options:    scanner.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Start begins one scan attempt. It returns false, doing nothing, while a
// previous attempt is still waiting for the scanner. Without permission the
// attempt ends at once with PermissionDenied and the scanner is not launched.
func (s *Session) Start() bool {
	if s.waiting {
		s.logger.Debug("scan already in progress")
		return false
	}

	if !s.gate.CanScan() {
		s.report(model.StatusPermissionDenied())
		return true
	}

	s.waiting = true
	s.logger.Debug("scan launched", "format", s.options.BarcodeFormat, "camera", s.options.CameraID)

	var once sync.Once
	s.scanner.Launch(s.options, func(outcome model.ScanOutcome) {
		once.Do(func() {
			if !s.poster.Post(func() { s.onResult(outcome) }) {
				s.logger.Debug("scan outcome dropped: loop closed")
			}
		})
	})
	return true
}

// Waiting reports whether an attempt is waiting for the scanner.
func (s *Session) Waiting() bool {
	return s.waiting
}

func (s *Session) onResult(outcome model.ScanOutcome) {
	s.waiting = false

	text, ok := outcome.Text()
	if !ok {
		s.report(model.StatusUserCancelled())
		return
	}

	url, err := model.NormalizeURL(text)
	if err != nil {
		s.logger.Debug("invalid payload", "error", err)
		s.report(model.StatusInvalidPayload())
		return
	}

	s.controller.OnScanOutcome(model.StatusScanned(url))
	s.fetches++
	seq := s.fetches
	s.fetcher.Fetch(url, func(result model.FetchResult) {
		if seq != s.fetches {
			s.logger.Debug("superseded fetch result dropped", "url", url.String())
			return
		}
		s.controller.OnFetchComplete(url, result)
	})

	if s.onReported != nil {
		s.onReported(model.StatusScanned(url))
	}
}

func (s *Session) report(status model.ScanStatus) {
	s.controller.OnScanOutcome(status)
	if s.onReported != nil {
		s.onReported(status)
	}
}
