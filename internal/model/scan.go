package model

// ScanOutcome is the result of one scanner invocation: either the user
// cancelled, or the scanner decoded a text payload. It is produced exactly
// once per invocation and is immutable.
type ScanOutcome struct {
	cancelled bool
	payload   string
}

// Cancelled returns a ScanOutcome representing a cancelled scan.
func Cancelled() ScanOutcome {
	return ScanOutcome{cancelled: true}
}

// Payload returns a ScanOutcome carrying decoded text.
// An empty payload is still a payload; it is rejected later by normalization.
func Payload(text string) ScanOutcome {
	return ScanOutcome{payload: text}
}

// IsCancelled returns true if the scan was cancelled.
func (o ScanOutcome) IsCancelled() bool {
	return o.cancelled
}

// Text returns the decoded payload and true, or "" and false if cancelled.
func (o ScanOutcome) Text() (string, bool) {
	if o.cancelled {
		return "", false
	}
	return o.payload, true
}

// ScanStatusKind enumerates the statuses a scan session can report.
type ScanStatusKind int

const (
	// ScanPermissionDenied means the scan source may not be used; no scanner was launched.
	ScanPermissionDenied ScanStatusKind = iota
	// ScanUserCancelled means the scanner returned without a payload.
	ScanUserCancelled
	// ScanInvalidPayload means the payload could not be normalized into a URL.
	ScanInvalidPayload
	// ScanSucceeded means the payload was normalized and a fetch has been started.
	ScanSucceeded
)

// String returns the wire name of the status kind.
func (k ScanStatusKind) String() string {
	switch k {
	case ScanPermissionDenied:
		return "permission_denied"
	case ScanUserCancelled:
		return "user_cancelled"
	case ScanInvalidPayload:
		return "invalid_payload"
	case ScanSucceeded:
		return "scanned"
	default:
		return unknownStr
	}
}

// ScanStatus is what a scan session reports to the pipeline controller.
// Only a ScanSucceeded status carries a URL.
type ScanStatus struct {
	kind ScanStatusKind
	url  NormalizedURL
}

// StatusPermissionDenied returns the status for a scan refused by the permission gate.
func StatusPermissionDenied() ScanStatus {
	return ScanStatus{kind: ScanPermissionDenied}
}

// StatusUserCancelled returns the status for a cancelled scan.
func StatusUserCancelled() ScanStatus {
	return ScanStatus{kind: ScanUserCancelled}
}

// StatusInvalidPayload returns the status for a payload that is not a usable URL.
func StatusInvalidPayload() ScanStatus {
	return ScanStatus{kind: ScanInvalidPayload}
}

// StatusScanned returns the status for a successfully normalized payload.
func StatusScanned(url NormalizedURL) ScanStatus {
	return ScanStatus{kind: ScanSucceeded, url: url}
}

// Kind returns the status kind.
func (s ScanStatus) Kind() ScanStatusKind {
	return s.kind
}

// URL returns the scanned URL and true for a ScanSucceeded status.
func (s ScanStatus) URL() (NormalizedURL, bool) {
	if s.kind != ScanSucceeded {
		return NormalizedURL{}, false
	}
	return s.url, true
}

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"
