package document

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// htmlMediaTypes are the Content-Type media types accepted as HTML.
var htmlMediaTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

// Document is a parsed HTML page.
type Document struct {
	doc     *goquery.Document
	charset string
}

// Parse decodes r according to contentType and parses it as HTML.
// An empty contentType is treated as HTML with a sniffed charset.
func Parse(r io.Reader, contentType string) (*Document, error) {
	label, err := checkContentType(contentType)
	if err != nil {
		return nil, err
	}

	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedCharset, err)
	}

	root, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	return &Document{
		doc:     goquery.NewDocumentFromNode(root),
		charset: label,
	}, nil
}

// checkContentType validates the media type and any declared charset.
// It returns the lowercased charset label, or "" when none was declared.
func checkContentType(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	if !htmlMediaTypes[mediaType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}

	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" {
		return "", nil
	}
	if enc, _ := charset.Lookup(label); enc == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCharset, label)
	}
	return label, nil
}

// Title returns the text of the first HTML <title> element with surrounding
// whitespace trimmed, inner runs of whitespace collapsed to one space and
// the result in Unicode NFC. It returns "" when the page has no title.
// Titles inside embedded SVG or MathML are ignored.
func (d *Document) Title() string {
	sel := d.doc.Find("title").FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		return n.Namespace == "" || n.Namespace == "html"
	}).First()

	return cleanText(sel.Text())
}

// Description returns the content of the description meta tag, or "".
func (d *Document) Description() string {
	sel := d.doc.Find("meta[name]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		return strings.EqualFold(name, "description")
	}).First()

	content, _ := sel.Attr("content")
	return cleanText(content)
}

// Charset returns the charset declared by the Content-Type header, or "".
func (d *Document) Charset() string {
	return d.charset
}

// cleanText collapses whitespace and applies NFC normalization.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
