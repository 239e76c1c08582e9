package scanner

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log/slog"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/nao1215/qrtitle/internal/model"
)

// bel is written to the prompt writer after a successful decode.
const bel = "\a"

// ImageScanner decodes QR codes from image files.
// Each source is a path to a PNG, JPEG or GIF image; Options.CameraID picks
// the source to read. Any failure to read or decode the image is reported
// as a cancelled scan.
type ImageScanner struct {
	sources []string
	prompt  io.Writer
	logger  *slog.Logger
	open    func(name string) (io.ReadCloser, error)
}

// ImageOption configures an ImageScanner.
type ImageOption func(*ImageScanner)

// WithPromptWriter sets where the prompt and the success beep are written.
func WithPromptWriter(w io.Writer) ImageOption {
	return func(s *ImageScanner) {
		s.prompt = w
	}
}

// WithImageLogger sets a custom logger for the scanner.
func WithImageLogger(logger *slog.Logger) ImageOption {
	return func(s *ImageScanner) {
		s.logger = logger
	}
}

// NewImageScanner creates an ImageScanner over the given image paths.
func NewImageScanner(sources []string, opts ...ImageOption) *ImageScanner {
	s := &ImageScanner{
		sources: append([]string(nil), sources...),
		prompt:  io.Discard,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name) //nolint:gosec // path comes from the command line
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Launch decodes the selected source on a new goroutine.
func (s *ImageScanner) Launch(opts Options, deliver func(model.ScanOutcome)) {
	go func() {
		deliver(s.scan(opts))
	}()
}

// scan performs one decode and converts every failure to Cancelled.
func (s *ImageScanner) scan(opts Options) model.ScanOutcome {
	if opts.Prompt != "" {
		fmt.Fprintln(s.prompt, opts.Prompt)
	}

	text, err := s.decodeSource(opts)
	if err != nil {
		s.logger.Debug("scan cancelled", "camera", opts.CameraID, "error", err)
		return model.Cancelled()
	}

	if opts.BeepOnSuccess {
		fmt.Fprint(s.prompt, bel)
	}
	s.logger.Debug("scan decoded", "camera", opts.CameraID, "bytes", len(text))
	return model.Payload(text)
}

func (s *ImageScanner) decodeSource(opts Options) (string, error) {
	if opts.BarcodeFormat != "" && opts.BarcodeFormat != FormatQR {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.BarcodeFormat)
	}
	if opts.CameraID < 0 || opts.CameraID >= len(s.sources) {
		return "", fmt.Errorf("%w: %d (have %d)", ErrSourceOutOfRange, opts.CameraID, len(s.sources))
	}

	path := s.sources[opts.CameraID]
	f, err := s.open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeReader(f)
}

// DecodeReader decodes an encoded image and returns the text of its QR code.
func DecodeReader(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return DecodeImage(img)
}

// DecodeImage returns the text of the QR code in img.
func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoQRCode, err)
	}
	return result.GetText(), nil
}
