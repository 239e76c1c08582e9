package pipeline

import (
	"log/slog"

	"github.com/nao1215/qrtitle/internal/model"
)

// Controller owns the displayed URL and the displayed title status.
// It is not safe for concurrent use; call it only from the interaction loop.
type Controller struct {
	url         model.NormalizedURL
	status      model.DisplayStatus
	lastScan    model.ScanStatus
	hasScan     bool
	seq         uint64
	subscribers []func(model.Snapshot)
	logger      *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets a custom logger for the controller.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller with no displayed URL and no status.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		status: model.NoStatus(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// OnScanOutcome records the status reported by a scan session.
// A successful scan replaces the displayed URL and resets the status to
// Pending. Any other status only changes the notice.
func (c *Controller) OnScanOutcome(status model.ScanStatus) {
	c.lastScan = status
	c.hasScan = true

	if url, ok := status.URL(); ok {
		c.url = url
		c.status = model.PendingStatus()
		c.logger.Debug("displayed url changed", "url", url.String())
	} else {
		c.logger.Debug("scan reported", "status", status.Kind())
	}

	c.publish()
}

// OnFetchComplete applies result if forURL is still the displayed URL and
// the status is still Pending. It reports whether the result was applied.
func (c *Controller) OnFetchComplete(forURL model.NormalizedURL, result model.FetchResult) bool {
	if !forURL.Equals(c.url) || !c.status.IsPending() {
		c.logger.Debug("stale fetch result dropped",
			"for", forURL.String(),
			"displayed", c.url.String(),
			"status", c.status.Kind(),
		)
		return false
	}

	c.status = model.ResultStatus(result)
	c.logger.Debug("fetch result applied", "url", forURL.String(), "result", result.Kind())
	c.publish()
	return true
}

// Subscribe registers fn to receive a Snapshot after every state change.
// fn runs on the loop, synchronously with the change.
func (c *Controller) Subscribe(fn func(model.Snapshot)) {
	if fn == nil {
		return
	}
	c.subscribers = append(c.subscribers, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() model.Snapshot {
	return model.Snapshot{
		URL:      c.url,
		Status:   c.status,
		LastScan: c.lastScan,
		HasScan:  c.hasScan,
		Sequence: c.seq,
	}
}

// DisplayedURL returns the displayed URL, or the zero value before the
// first successful scan.
func (c *Controller) DisplayedURL() model.NormalizedURL {
	return c.url
}

// DisplayedStatus returns the displayed title status.
func (c *Controller) DisplayedStatus() model.DisplayStatus {
	return c.status
}

func (c *Controller) publish() {
	c.seq++
	snap := c.Snapshot()
	for _, fn := range c.subscribers {
		fn(snap)
	}
}
