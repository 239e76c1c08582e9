package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/document"
	"github.com/nao1215/qrtitle/internal/model"
)

const (
	// defaultUserAgent is sent when no User-Agent is configured.
	defaultUserAgent = "qrtitle/1.0"

	// defaultMaxBodySize is the number of body bytes read when no limit is configured.
	defaultMaxBodySize = 5 * 1024 * 1024

	// acceptHeader asks for HTML.
	acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// Fetcher performs page title fetches and delivers results on a loop.
type Fetcher struct {
	client      *http.Client
	poster      dispatch.Poster
	logger      *slog.Logger
	userAgent   string
	maxBodySize int64
	baseCtx     context.Context //nolint:containedctx // parent of every fetch, cancelled on shutdown
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client. The client's Timeout bounds each fetch.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithBaseContext sets the parent context of every fetch. Cancelling it
// aborts in-flight requests, which then complete as network failures.
func WithBaseContext(ctx context.Context) Option {
	return func(f *Fetcher) {
		f.baseCtx = ctx
	}
}

// NewFetcher creates a Fetcher that posts results to poster.
func NewFetcher(poster dispatch.Poster, opts ...Option) *Fetcher {
	f := &Fetcher{
		poster:      poster,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		baseCtx:     context.Background(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.maxBodySize <= 0 {
		f.maxBodySize = defaultMaxBodySize
	}

	return f
}

// Handle is the caller's view of one in-flight fetch.
type Handle struct {
	url       model.NormalizedURL
	cancelled atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// URL returns the URL being fetched.
func (h *Handle) URL() model.NormalizedURL {
	return h.url
}

// Cancel stops delivery of the result. It is checked on the loop right
// before onComplete would run, so a Cancel issued from the loop before the
// delivery task runs always wins. The request itself is aborted too.
func (h *Handle) Cancel() {
	h.cancelled.Store(true)
	h.cancel()
}

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Done is closed once the worker goroutine has finished and, unless the loop
// was closed, posted its delivery task.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Fetch starts fetching url and returns immediately. onComplete runs on the
// loop exactly once, unless the handle is cancelled or the loop is closed
// before delivery.
func (f *Fetcher) Fetch(url model.NormalizedURL, onComplete func(model.FetchResult)) *Handle {
	ctx, cancel := context.WithCancel(f.baseCtx)
	h := &Handle{
		url:    url,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	f.logger.Debug("fetch started", "url", url.String())

	go func() {
		defer close(h.done)
		defer cancel()

		result := f.Resolve(ctx, url)

		posted := f.poster.Post(func() {
			if h.cancelled.Load() {
				f.logger.Debug("fetch result dropped: cancelled", "url", url.String())
				return
			}
			onComplete(result)
		})
		if !posted {
			f.logger.Debug("fetch result dropped: loop closed", "url", url.String())
		}
	}()

	return h
}

// Resolve performs the fetch synchronously on the calling goroutine.
func (f *Fetcher) Resolve(ctx context.Context, url model.NormalizedURL) model.FetchResult {
	body, contentType, err := f.get(ctx, url)
	if err != nil {
		f.logger.Debug("fetch failed", "url", url.String(), "kind", model.NetworkError, "error", err)
		return model.FailedResult(model.NetworkError)
	}

	doc, err := document.Parse(bytes.NewReader(body), contentType)
	if err != nil {
		f.logger.Debug("fetch failed", "url", url.String(), "kind", model.ParseError, "error", err)
		return model.FailedResult(model.ParseError)
	}

	result := model.TitleResult(doc.Title()).WithDescription(doc.Description())
	f.logger.Debug("fetch finished", "url", url.String(), "result", result.Kind(), "charset", doc.Charset())
	return result
}

// get issues the GET and returns up to maxBodySize bytes of a 2xx body.
func (f *Fetcher) get(ctx context.Context, url model.NormalizedURL) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
