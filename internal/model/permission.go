package model

// PermissionState records whether the scan source may be used.
// It starts as PermissionUnknown and changes only when a permission request
// completes.
type PermissionState int

const (
	// PermissionUnknown is the state before any request has completed.
	PermissionUnknown PermissionState = iota
	// PermissionGranted means scanning is allowed.
	PermissionGranted
	// PermissionDenied means the last request was refused. It may be requested again.
	PermissionDenied
)

// String returns a human-readable representation of the permission state.
func (p PermissionState) String() string {
	switch p {
	case PermissionUnknown:
		return unknownStr
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return unknownStr
	}
}
