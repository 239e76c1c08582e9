// Package fetch resolves the title of a scanned page.
//
// Fetch runs one HTTP GET and one parse on a fresh goroutine and posts the
// FetchResult to the interaction loop it was created with. Failures never
// surface as Go errors; they become Failed(NetworkError) or
// Failed(ParseError) results before they cross back to the loop.
package fetch
