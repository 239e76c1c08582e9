package model

import (
	"errors"
	"strings"
)

// URL normalization errors.
var (
	// ErrEmptyURL is returned when the scanned text is empty after trimming.
	ErrEmptyURL = errors.New("scanned URL cannot be empty")
)

const (
	// schemeHTTP is the plain HTTP scheme prefix.
	schemeHTTP = "http://"
	// schemeHTTPS is the HTTPS scheme prefix, also used as the default.
	schemeHTTPS = "https://"
)

// NormalizedURL is an immutable value object holding an absolute URL that
// starts with "http://" or "https://". The zero value is not a valid URL;
// use NormalizeURL to create one.
type NormalizedURL struct {
	value string
}

// NormalizeURL turns arbitrary scanned text into a NormalizedURL.
//
// Text that is empty after trimming whitespace is rejected with ErrEmptyURL.
// Text that does not start with "http://" or "https://" gets "https://"
// prepended. Hosts and paths are not validated: whatever was scanned is
// opened on a best-effort basis.
func NormalizeURL(raw string) (NormalizedURL, error) {
	if strings.TrimSpace(raw) == "" {
		return NormalizedURL{}, ErrEmptyURL
	}

	if hasHTTPScheme(raw) {
		return NormalizedURL{value: raw}, nil
	}
	return NormalizedURL{value: schemeHTTPS + raw}, nil
}

// MustNormalizeURL creates a NormalizedURL or panics if raw is empty.
// Use only for known-valid values in tests or initialization.
func MustNormalizeURL(raw string) NormalizedURL {
	u, err := NormalizeURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// hasHTTPScheme reports whether s already carries an http or https prefix.
// The comparison is case-sensitive.
func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, schemeHTTP) || strings.HasPrefix(s, schemeHTTPS)
}

// String returns the full URL.
func (u NormalizedURL) String() string {
	return u.value
}

// IsZero returns true if this is a zero value (empty) NormalizedURL.
func (u NormalizedURL) IsZero() bool {
	return u.value == ""
}

// Equals returns true if two NormalizedURL values are equal.
func (u NormalizedURL) Equals(other NormalizedURL) bool {
	return u.value == other.value
}

// MarshalText implements encoding.TextMarshaler so the URL serializes as a
// plain string in JSON reports.
func (u NormalizedURL) MarshalText() ([]byte, error) {
	return []byte(u.value), nil
}
