// Package model defines the core data structures used throughout qrtitle.
//
// This package contains the following main types:
//   - NormalizedURL: An absolute http(s) URL produced from a scanned payload
//   - ScanOutcome: The result of one scanner invocation (payload or cancellation)
//   - ScanStatus: What a scan session reports to the pipeline controller
//   - PermissionState: Whether the scan source may be used
//   - FetchResult: The outcome of fetching a page title
//   - Snapshot: An immutable copy of the displayed pipeline state
//   - ScanReport: The per-source result written by report writers
//
// The models live in their own package because the scanner, fetch, pipeline
// and report packages all exchange them.
package model
