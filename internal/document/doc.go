// Package document decodes fetched HTML and extracts the page metadata the
// pipeline displays.
//
// Parsing is split from fetching so that a failure here is always a parse
// failure: the caller reads the body first, then hands the bytes and the
// response Content-Type to Parse.
package document
