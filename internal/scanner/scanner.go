// Package scanner provides the scanner services that turn a scan source into
// a single ScanOutcome.
//
// A Scanner delivers exactly one outcome per Launch, on any goroutine. The
// caller is responsible for routing the outcome back to the interaction loop.
package scanner

import (
	"github.com/nao1215/qrtitle/internal/model"
)

// FormatQR is the only barcode format the scanners understand.
const FormatQR = "QR"

// Options are the launch options passed to a Scanner.
type Options struct {
	// BarcodeFormat restricts the accepted symbology.
	BarcodeFormat string
	// Prompt is shown to the user while the scanner waits.
	Prompt string
	// CameraID selects the scan source.
	CameraID int
	// BeepOnSuccess signals a successful decode audibly.
	BeepOnSuccess bool
	// ReturnImage asks for the captured image. It is accepted and ignored.
	ReturnImage bool
}

// DefaultOptions returns the options used when the user does not override them.
func DefaultOptions() Options {
	return Options{
		BarcodeFormat: FormatQR,
		Prompt:        "Scan a QR code",
		CameraID:      0,
		BeepOnSuccess: true,
		ReturnImage:   false,
	}
}

// Scanner is the external scanner service.
type Scanner interface {
	// Launch starts one scan and calls deliver exactly once with its outcome.
	Launch(opts Options, deliver func(model.ScanOutcome))
}

// Func adapts a function to the Scanner interface.
type Func func(opts Options, deliver func(model.ScanOutcome))

// Launch calls f(opts, deliver).
func (f Func) Launch(opts Options, deliver func(model.ScanOutcome)) {
	f(opts, deliver)
}

// Fixed returns a Scanner that always delivers the given payload.
// It backs commands that receive already-decoded payloads.
func Fixed(payload string) Scanner {
	return Func(func(_ Options, deliver func(model.ScanOutcome)) {
		go deliver(model.Payload(payload))
	})
}
