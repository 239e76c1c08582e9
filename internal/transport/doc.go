// Package transport builds the HTTP clients used to fetch scanned pages.
//
// A Client either dials directly or routes every connection through a SOCKS5
// proxy (golang.org/x/net/proxy). The proxy may be an external one, such as a
// local Tor daemon, or the embedded Tor daemon started by EmbeddedTor.
// Per-host cookies and headers from the configuration file are injected by a
// RoundTripper wrapper so that redirects carry them too.
package transport
