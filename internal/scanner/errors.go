package scanner

import "errors"

var (
	// ErrNoQRCode is returned when an image contains no decodable QR code.
	ErrNoQRCode = errors.New("no QR code found")

	// ErrUnsupportedFormat is returned for barcode formats other than QR.
	ErrUnsupportedFormat = errors.New("unsupported barcode format")

	// ErrSourceOutOfRange is returned when CameraID does not name a source.
	ErrSourceOutOfRange = errors.New("scan source index out of range")
)
