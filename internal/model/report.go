package model

import "time"

// ScanReport is the result of resolving one scan source.
// It is produced by the batch runner and consumed by report writers only;
// nothing is persisted.
type ScanReport struct {
	// ID uniquely identifies this scan in logs and reports.
	ID string `json:"id"`

	// Source names where the payload came from (image path, argument, stdin).
	Source string `json:"source"`

	// Payload is the raw decoded text, if any.
	Payload string `json:"payload,omitempty"`

	// URL is the normalized URL. Empty when the scan did not succeed.
	URL string `json:"url,omitempty"`

	// Scan is the scan status kind (scanned, user_cancelled, ...).
	Scan string `json:"scan"`

	// Result is the fetch result kind (title, empty, failed). Empty when no fetch ran.
	Result string `json:"result,omitempty"`

	// FailureReason is the fetch error kind for failed fetches.
	FailureReason string `json:"failure_reason,omitempty"`

	// Title is the page title for successful fetches.
	Title string `json:"title,omitempty"`

	// Description is the page's meta description, when it has one.
	Description string `json:"description,omitempty"`

	// Display is the human-readable status line shown to the user.
	Display string `json:"display"`

	// Notice is the transient notification for the scan outcome.
	Notice string `json:"notice"`

	// StartedAt is when the scan was launched.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the scan and fetch took.
	Duration time.Duration `json:"duration_ns"`

	// Error is set when the run was interrupted before settling.
	Error string `json:"error,omitempty"`
}

// Succeeded returns true if a title was resolved.
func (r *ScanReport) Succeeded() bool {
	return r.Result == FetchTitle.String()
}
