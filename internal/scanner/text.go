package scanner

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/qrtitle/internal/model"
)

// TextScanner reads one payload per launch from a line-oriented reader,
// such as manual entry on a terminal or the output of another decoder.
// Reaching the end of input yields Cancelled and closes Done.
type TextScanner struct {
	prompt io.Writer
	logger *slog.Logger

	mu       sync.Mutex
	lines    *bufio.Scanner
	done     chan struct{}
	doneOnce sync.Once
}

// TextOption configures a TextScanner.
type TextOption func(*TextScanner)

// WithTextPrompt sets where the prompt is written.
func WithTextPrompt(w io.Writer) TextOption {
	return func(s *TextScanner) {
		s.prompt = w
	}
}

// WithTextLogger sets a custom logger for the scanner.
func WithTextLogger(logger *slog.Logger) TextOption {
	return func(s *TextScanner) {
		s.logger = logger
	}
}

// NewTextScanner creates a TextScanner reading from r.
func NewTextScanner(r io.Reader, opts ...TextOption) *TextScanner {
	s := &TextScanner{
		prompt: io.Discard,
		lines:  bufio.NewScanner(r),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Done is closed once the reader is exhausted.
func (s *TextScanner) Done() <-chan struct{} {
	return s.done
}

// Launch reads the next line on a new goroutine.
func (s *TextScanner) Launch(opts Options, deliver func(model.ScanOutcome)) {
	go func() {
		deliver(s.next(opts))
	}()
}

func (s *TextScanner) next(opts Options) model.ScanOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Prompt != "" {
		fmt.Fprintf(s.prompt, "%s: ", opts.Prompt)
	}

	if !s.lines.Scan() {
		if err := s.lines.Err(); err != nil {
			s.logger.Debug("text scan failed", "error", err)
		}
		s.doneOnce.Do(func() { close(s.done) })
		return model.Cancelled()
	}

	return model.Payload(strings.TrimRight(s.lines.Text(), "\r"))
}
