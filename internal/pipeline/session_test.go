package pipeline

import (
	"testing"

	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/scanner"
)

type sessionFixture struct {
	sc      *stubScanner
	ctrl    *Controller
	fetcher *manualFetcher
	poster  *queuePoster
	sess    *Session
	reports []model.ScanStatus
}

func newSessionFixture(allowed bool, opts ...SessionOption) *sessionFixture {
	f := &sessionFixture{
		sc:      &stubScanner{},
		ctrl:    NewController(),
		fetcher: &manualFetcher{},
		poster:  &queuePoster{},
	}
	opts = append(opts, WithOnReported(func(s model.ScanStatus) {
		f.reports = append(f.reports, s)
	}))
	f.sess = NewSession(fakeGate(allowed), f.sc, f.ctrl, f.fetcher, f.poster, opts...)
	return f
}

func TestSessionStartWithoutPermission(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(false)
	if !f.sess.Start() {
		t.Fatal("Start() = false, want true")
	}

	if n := f.sc.launchCount(); n != 0 {
		t.Errorf("scanner launched %d times, want 0", n)
	}
	if f.sess.Waiting() {
		t.Error("session should not be waiting")
	}
	if got := f.ctrl.Snapshot().LastScan.Kind(); got != model.ScanPermissionDenied {
		t.Errorf("LastScan = %v, want permission_denied", got)
	}
	if len(f.reports) != 1 {
		t.Errorf("reported %d statuses, want 1", len(f.reports))
	}
	if len(f.fetcher.urls) != 0 {
		t.Errorf("fetch started without permission")
	}
}

func TestSessionOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		outcome   model.ScanOutcome
		wantScan  model.ScanStatusKind
		wantFetch string
	}{
		{"cancelled", model.Cancelled(), model.ScanUserCancelled, ""},
		{"empty payload", model.Payload(""), model.ScanInvalidPayload, ""},
		{"whitespace payload", model.Payload("  \t"), model.ScanInvalidPayload, ""},
		{"bare host", model.Payload("example.com"), model.ScanSucceeded, "https://example.com"},
		{"http kept", model.Payload("http://example.com/a?b=c"), model.ScanSucceeded, "http://example.com/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSessionFixture(true)
			f.sess.Start()
			if !f.sess.Waiting() {
				t.Fatal("session should be waiting after Start")
			}

			f.sc.deliver(t, tt.outcome)
			if f.ctrl.Snapshot().HasScan {
				t.Fatal("outcome applied before the loop ran it")
			}
			f.poster.runAll()

			if f.sess.Waiting() {
				t.Error("session still waiting after delivery")
			}
			if got := f.ctrl.Snapshot().LastScan.Kind(); got != tt.wantScan {
				t.Errorf("LastScan = %v, want %v", got, tt.wantScan)
			}

			if tt.wantFetch == "" {
				if len(f.fetcher.urls) != 0 {
					t.Errorf("unexpected fetch of %v", f.fetcher.urls)
				}
				if !f.ctrl.DisplayedURL().IsZero() {
					t.Errorf("DisplayedURL() = %q, want zero", f.ctrl.DisplayedURL())
				}
				return
			}

			if len(f.fetcher.urls) != 1 || f.fetcher.urls[0].String() != tt.wantFetch {
				t.Fatalf("fetches = %v, want [%s]", f.fetcher.urls, tt.wantFetch)
			}
			if f.ctrl.DisplayedURL().String() != tt.wantFetch {
				t.Errorf("DisplayedURL() = %q, want %q", f.ctrl.DisplayedURL(), tt.wantFetch)
			}
			if !f.ctrl.DisplayedStatus().IsPending() {
				t.Errorf("status = %v, want pending", f.ctrl.DisplayedStatus().Kind())
			}

			f.fetcher.completes[0](model.TitleResult("Done"))
			if got, _ := f.ctrl.DisplayedStatus().Result(); got != model.TitleResult("Done") {
				t.Errorf("result = %+v, want title Done", got)
			}
		})
	}
}

func TestSessionIgnoresStartWhileWaiting(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(true)
	if !f.sess.Start() {
		t.Fatal("first Start() = false")
	}
	if f.sess.Start() {
		t.Error("second Start() = true while waiting")
	}
	if n := f.sc.launchCount(); n != 1 {
		t.Errorf("scanner launched %d times, want 1", n)
	}

	f.sc.deliver(t, model.Cancelled())
	f.poster.runAll()

	if !f.sess.Start() {
		t.Error("Start() after delivery = false")
	}
	if n := f.sc.launchCount(); n != 2 {
		t.Errorf("scanner launched %d times, want 2", n)
	}
}

func TestSessionSingleDelivery(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(true)
	f.sess.Start()

	f.sc.deliver(t, model.Payload("a.test"))
	f.sc.deliver(t, model.Payload("b.test"))
	if n := f.poster.runAll(); n != 1 {
		t.Errorf("posted %d deliveries, want 1", n)
	}
	if got := f.ctrl.DisplayedURL().String(); got != "https://a.test" {
		t.Errorf("DisplayedURL() = %q, want https://a.test", got)
	}
}

func TestSessionStaleFetch(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(true)

	f.sess.Start()
	f.sc.deliver(t, model.Payload("a.test"))
	f.poster.runAll()

	f.sess.Start()
	f.sc.deliver(t, model.Payload("b.test"))
	f.poster.runAll()

	if len(f.fetcher.completes) != 2 {
		t.Fatalf("got %d fetches, want 2", len(f.fetcher.completes))
	}

	// b resolves first, then a's late result must not overwrite it.
	f.fetcher.completes[1](model.TitleResult("B"))
	f.fetcher.completes[0](model.TitleResult("A"))

	if got := f.ctrl.DisplayedURL().String(); got != "https://b.test" {
		t.Errorf("DisplayedURL() = %q, want https://b.test", got)
	}
	if got, _ := f.ctrl.DisplayedStatus().Result(); got != model.TitleResult("B") {
		t.Errorf("result = %+v, want title B", got)
	}
}

func TestSessionRescanSameURL(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(true)

	for range 2 {
		f.sess.Start()
		f.sc.deliver(t, model.Payload("a.test"))
		f.poster.runAll()
	}

	if len(f.fetcher.completes) != 2 {
		t.Fatalf("got %d fetches, want 2", len(f.fetcher.completes))
	}

	// The first fetch is superseded even though its URL is still displayed.
	f.fetcher.completes[0](model.TitleResult("old"))
	if !f.ctrl.DisplayedStatus().IsPending() {
		t.Fatalf("superseded result applied: %+v", f.ctrl.DisplayedStatus())
	}

	f.fetcher.completes[1](model.TitleResult("new"))
	if got, _ := f.ctrl.DisplayedStatus().Result(); got != model.TitleResult("new") {
		t.Errorf("result = %+v, want title new", got)
	}
}

func TestSessionCancelKeepsPreviousDisplay(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(true)

	f.sess.Start()
	f.sc.deliver(t, model.Payload("a.test"))
	f.poster.runAll()
	f.fetcher.completes[0](model.EmptyResult())

	f.sess.Start()
	f.sc.deliver(t, model.Cancelled())
	f.poster.runAll()

	snap := f.ctrl.Snapshot()
	if snap.URL.String() != "https://a.test" {
		t.Errorf("URL = %q, want https://a.test", snap.URL)
	}
	if got, _ := snap.Status.Result(); got != model.EmptyResult() {
		t.Errorf("status changed to %+v", got)
	}
	if snap.LastScan.Kind() != model.ScanUserCancelled {
		t.Errorf("LastScan = %v, want user_cancelled", snap.LastScan.Kind())
	}

	kinds := make([]model.ScanStatusKind, len(f.reports))
	for i, r := range f.reports {
		kinds[i] = r.Kind()
	}
	if len(kinds) != 2 || kinds[0] != model.ScanSucceeded || kinds[1] != model.ScanUserCancelled {
		t.Errorf("reported %v, want [scanned user_cancelled]", kinds)
	}
}

func TestSessionScanOptions(t *testing.T) {
	t.Parallel()

	opts := scanner.DefaultOptions()
	opts.CameraID = 2
	opts.Prompt = "Point at a code"

	f := newSessionFixture(true, WithScanOptions(opts))
	f.sess.Start()

	f.sc.mu.Lock()
	got := f.sc.launches[0]
	f.sc.mu.Unlock()
	if got != opts {
		t.Errorf("launch options = %+v, want %+v", got, opts)
	}
}
