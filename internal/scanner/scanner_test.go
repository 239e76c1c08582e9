package scanner

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/nao1215/qrtitle/internal/model"
)

// writeQRCode encodes content as a QR code PNG in dir and returns its path.
func writeQRCode(t *testing.T, dir, name, content string) string {
	t.Helper()

	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	if err != nil {
		t.Fatalf("failed to encode QR code: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, matrix); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

// launch runs one scan and waits for its outcome.
func launch(t *testing.T, s Scanner, opts Options) model.ScanOutcome {
	t.Helper()

	ch := make(chan model.ScanOutcome, 2)
	s.Launch(opts, func(o model.ScanOutcome) { ch <- o })

	select {
	case o := <-ch:
		select {
		case <-ch:
			t.Fatal("deliver called more than once")
		case <-time.After(20 * time.Millisecond):
		}
		return o
	case <-time.After(10 * time.Second):
		t.Fatal("scanner did not deliver")
	}
	return model.ScanOutcome{}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if opts.BarcodeFormat != "QR" {
		t.Errorf("BarcodeFormat = %q, want QR", opts.BarcodeFormat)
	}
	if opts.Prompt != "Scan a QR code" {
		t.Errorf("Prompt = %q", opts.Prompt)
	}
	if opts.CameraID != 0 {
		t.Errorf("CameraID = %d, want 0", opts.CameraID)
	}
	if !opts.BeepOnSuccess {
		t.Error("BeepOnSuccess should default to true")
	}
	if opts.ReturnImage {
		t.Error("ReturnImage should default to false")
	}
}

func TestImageScannerRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeQRCode(t, dir, "example.png", "example.com")

	var prompt bytes.Buffer
	s := NewImageScanner([]string{path}, WithPromptWriter(&prompt))

	got := launch(t, s, DefaultOptions())
	text, ok := got.Text()
	if !ok {
		t.Fatal("expected a payload, got Cancelled")
	}
	if text != "example.com" {
		t.Errorf("payload = %q, want %q", text, "example.com")
	}
	if !strings.HasPrefix(prompt.String(), "Scan a QR code\n") {
		t.Errorf("prompt output = %q", prompt.String())
	}
	if !strings.HasSuffix(prompt.String(), "\a") {
		t.Error("expected a beep after a successful decode")
	}
}

func TestImageScannerNoBeep(t *testing.T) {
	t.Parallel()

	path := writeQRCode(t, t.TempDir(), "quiet.png", "https://example.org")

	var prompt bytes.Buffer
	s := NewImageScanner([]string{path}, WithPromptWriter(&prompt))

	opts := DefaultOptions()
	opts.BeepOnSuccess = false
	opts.Prompt = ""
	opts.ReturnImage = true

	got := launch(t, s, opts)
	if text, ok := got.Text(); !ok || text != "https://example.org" {
		t.Errorf("outcome = %q, %v", text, ok)
	}
	if prompt.Len() != 0 {
		t.Errorf("prompt output = %q, want empty", prompt.String())
	}
}

func TestImageScannerSelectsSourceByCameraID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeQRCode(t, dir, "first.png", "first.example")
	second := writeQRCode(t, dir, "second.png", "second.example")

	s := NewImageScanner([]string{first, second})

	opts := DefaultOptions()
	opts.CameraID = 1
	got := launch(t, s, opts)
	if text, _ := got.Text(); text != "second.example" {
		t.Errorf("payload = %q, want second.example", text)
	}
}

func TestImageScannerCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := writeQRCode(t, dir, "valid.png", "example.com")

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	blank := filepath.Join(dir, "blank.png")
	var buf bytes.Buffer
	matrix, err := gozxing.NewBitMatrix(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&buf, matrix); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(blank, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		opts    func(o *Options)
	}{
		{name: "missing file", sources: []string{filepath.Join(dir, "missing.png")}},
		{name: "not an image", sources: []string{garbage}},
		{name: "no QR code", sources: []string{blank}},
		{name: "no sources", sources: nil},
		{name: "camera out of range", sources: []string{valid}, opts: func(o *Options) { o.CameraID = 3 }},
		{name: "negative camera", sources: []string{valid}, opts: func(o *Options) { o.CameraID = -1 }},
		{name: "unsupported format", sources: []string{valid}, opts: func(o *Options) { o.BarcodeFormat = "EAN_13" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}

			var prompt bytes.Buffer
			s := NewImageScanner(tt.sources, WithPromptWriter(&prompt))
			got := launch(t, s, opts)
			if !got.IsCancelled() {
				t.Errorf("expected Cancelled, got payload")
			}
			if strings.Contains(prompt.String(), "\a") {
				t.Error("failed scans must not beep")
			}
		})
	}
}

func TestDecodeImageNoCode(t *testing.T) {
	t.Parallel()

	matrix, err := gozxing.NewBitMatrix(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(matrix); !errors.Is(err, ErrNoQRCode) {
		t.Errorf("DecodeImage() error = %v, want ErrNoQRCode", err)
	}
}

func TestTextScanner(t *testing.T) {
	t.Parallel()

	var prompt bytes.Buffer
	s := NewTextScanner(strings.NewReader("example.com\r\n\nhttp://x\n"), WithTextPrompt(&prompt))
	opts := DefaultOptions()

	want := []string{"example.com", "", "http://x"}
	for i, w := range want {
		got := launch(t, s, opts)
		text, ok := got.Text()
		if !ok {
			t.Fatalf("launch %d: expected payload, got Cancelled", i)
		}
		if text != w {
			t.Errorf("launch %d: payload = %q, want %q", i, text, w)
		}
	}

	select {
	case <-s.Done():
		t.Fatal("Done closed before EOF")
	default:
	}

	if got := launch(t, s, opts); !got.IsCancelled() {
		t.Error("expected Cancelled at EOF")
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done should be closed after EOF")
	}
	if got := launch(t, s, opts); !got.IsCancelled() {
		t.Error("expected Cancelled after EOF")
	}

	if c := strings.Count(prompt.String(), "Scan a QR code: "); c != 5 {
		t.Errorf("prompt written %d times, want 5", c)
	}
}

func TestFixed(t *testing.T) {
	t.Parallel()

	got := launch(t, Fixed("example.com"), DefaultOptions())
	if text, ok := got.Text(); !ok || text != "example.com" {
		t.Errorf("Fixed outcome = %q, %v", text, ok)
	}
}
