package model

// Snapshot is an immutable copy of the pipeline controller's observable
// state. Renderers receive a Snapshot after every change.
type Snapshot struct {
	// URL is the currently displayed URL. Zero until the first successful scan.
	URL NormalizedURL

	// Status is the displayed title status.
	Status DisplayStatus

	// LastScan is the most recent status reported by a scan session.
	LastScan ScanStatus

	// HasScan is false until the first scan status has been reported.
	HasScan bool

	// Sequence increases by one with every state change.
	Sequence uint64
}

// Settled returns true when the last scan has reached a terminal state:
// either a scan failure was reported, or the fetch for the displayed URL
// has completed.
func (s Snapshot) Settled() bool {
	if !s.HasScan {
		return false
	}
	if s.LastScan.Kind() != ScanSucceeded {
		return true
	}
	return s.Status.Kind() == DisplayResult
}
