// Package permission provides the Gate that decides whether a scan may start.
//
// The Gate holds the process-wide PermissionState. It changes only when a
// request issued through a Requester completes; every scan reads it through
// CanScan before launching the scanner. A denied permission may be requested
// again at any time.
package permission
