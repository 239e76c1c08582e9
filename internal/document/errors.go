package document

import "errors"

var (
	// ErrUnsupportedContentType is returned when the response is not HTML.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrUnsupportedCharset is returned when the declared charset has no decoder.
	ErrUnsupportedCharset = errors.New("unsupported charset")

	// ErrMalformedDocument is returned when the HTML cannot be tokenized.
	ErrMalformedDocument = errors.New("malformed document")
)
