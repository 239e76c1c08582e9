package report

import (
	"github.com/google/uuid"

	"github.com/nao1215/qrtitle/internal/model"
)

// User-facing strings.
const (
	TextNoTitle          = "No title found"
	TextFetchError       = "Error fetching title"
	TextPending          = "Fetching title..."
	NoticePermission     = "Camera permission is required to scan QR codes"
	NoticeCancelled      = "Cancelled"
	NoticeInvalidPayload = "No URL to open"
	NoticeGranted        = "Camera permission granted"
	NoticeDenied         = "Camera permission denied"
	noticeScannedPrefix  = "Scanned: "
)

// StatusText renders a fetch result as the displayed title text.
func StatusText(r model.FetchResult) string {
	switch r.Kind() {
	case model.FetchTitle:
		title, _ := r.Title()
		return title
	case model.FetchEmpty:
		return TextNoTitle
	default:
		return TextFetchError
	}
}

// DisplayText renders the displayed title slot. It is empty before any
// successful scan.
func DisplayText(s model.DisplayStatus) string {
	switch s.Kind() {
	case model.DisplayPending:
		return TextPending
	case model.DisplayResult:
		r, _ := s.Result()
		return StatusText(r)
	default:
		return ""
	}
}

// PermissionText renders the notice shown when a permission request
// completes. It is empty while no request has completed.
func PermissionText(state model.PermissionState) string {
	switch state {
	case model.PermissionGranted:
		return NoticeGranted
	case model.PermissionDenied:
		return NoticeDenied
	default:
		return ""
	}
}

// NoticeText renders the transient notification for a scan status.
func NoticeText(s model.ScanStatus) string {
	switch s.Kind() {
	case model.ScanPermissionDenied:
		return NoticePermission
	case model.ScanUserCancelled:
		return NoticeCancelled
	case model.ScanInvalidPayload:
		return NoticeInvalidPayload
	default:
		url, _ := s.URL()
		return noticeScannedPrefix + url.String()
	}
}

// NewScanReport builds the report of one source from its final snapshot.
// A snapshot without a scan yields a report with only the ID and source set.
func NewScanReport(source string, snap model.Snapshot) *model.ScanReport {
	rep := &model.ScanReport{
		ID:     uuid.NewString(),
		Source: source,
	}
	if !snap.HasScan {
		return rep
	}

	rep.Scan = snap.LastScan.Kind().String()
	rep.Notice = NoticeText(snap.LastScan)

	if snap.LastScan.Kind() != model.ScanSucceeded {
		return rep
	}

	rep.URL = snap.URL.String()
	rep.Display = DisplayText(snap.Status)

	if result, ok := snap.Status.Result(); ok {
		rep.Result = result.Kind().String()
		rep.Description = result.Description()
		if title, ok := result.Title(); ok {
			rep.Title = title
		}
		if reason, ok := result.Reason(); ok {
			rep.FailureReason = reason.String()
		}
	}

	return rep
}
