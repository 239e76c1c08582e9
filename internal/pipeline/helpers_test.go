package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/fetch"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// queuePoster collects posted tasks so tests decide when they run.
type queuePoster struct {
	mu    sync.Mutex
	tasks []func()
}

func (p *queuePoster) Post(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, fn)
	return true
}

func (p *queuePoster) runAll() int {
	p.mu.Lock()
	tasks := p.tasks
	p.tasks = nil
	p.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

type fakeGate bool

func (g fakeGate) CanScan() bool { return bool(g) }

// stubScanner records launches and lets the test deliver outcomes.
type stubScanner struct {
	mu       sync.Mutex
	launches []scanner.Options
	delivers []func(model.ScanOutcome)
}

func (s *stubScanner) Launch(opts scanner.Options, deliver func(model.ScanOutcome)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launches = append(s.launches, opts)
	s.delivers = append(s.delivers, deliver)
}

func (s *stubScanner) launchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.launches)
}

func (s *stubScanner) deliver(t *testing.T, outcome model.ScanOutcome) {
	t.Helper()
	s.mu.Lock()
	n := len(s.delivers)
	var fn func(model.ScanOutcome)
	if n > 0 {
		fn = s.delivers[n-1]
	}
	s.mu.Unlock()
	if fn == nil {
		t.Fatal("scanner was not launched")
	}
	fn(outcome)
}

// manualFetcher records fetches; the test completes them explicitly.
type manualFetcher struct {
	urls      []model.NormalizedURL
	completes []func(model.FetchResult)
}

func (f *manualFetcher) Fetch(url model.NormalizedURL, onComplete func(model.FetchResult)) *fetch.Handle {
	f.urls = append(f.urls, url)
	f.completes = append(f.completes, onComplete)
	return nil
}

// asyncFetcher resolves on a goroutine and posts the result to poster.
type asyncFetcher struct {
	poster  dispatch.Poster
	resolve func(model.NormalizedURL) model.FetchResult
	delay   func(model.NormalizedURL) time.Duration

	mu    sync.Mutex
	calls []model.NormalizedURL
}

func (f *asyncFetcher) Fetch(url model.NormalizedURL, onComplete func(model.FetchResult)) *fetch.Handle {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	go func() {
		if f.delay != nil {
			time.Sleep(f.delay(url))
		}
		result := f.resolve(url)
		f.poster.Post(func() { onComplete(result) })
	}()
	return nil
}

func (f *asyncFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// titleFromURL answers every fetch with the URL as the title.
func titleFromURL(url model.NormalizedURL) model.FetchResult {
	return model.TitleResult(url.String())
}

// asyncFactory returns a FetcherFactory building asyncFetchers and a way to
// observe the last one built.
func asyncFactory(resolve func(model.NormalizedURL) model.FetchResult, delay func(model.NormalizedURL) time.Duration) (FetcherFactory, func() *asyncFetcher) {
	var (
		mu   sync.Mutex
		last *asyncFetcher
	)
	factory := func(p dispatch.Poster) Fetcher {
		f := &asyncFetcher{poster: p, resolve: resolve, delay: delay}
		mu.Lock()
		last = f
		mu.Unlock()
		return f
	}
	return factory, func() *asyncFetcher {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

// neverFetcher starts fetches that never complete.
func neverFetcher(dispatch.Poster) Fetcher {
	return &manualFetcher{}
}
