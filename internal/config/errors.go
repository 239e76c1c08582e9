package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when a non-interactive command gets no sources.
	ErrNoTarget = errors.New("no target specified: provide at least one image or payload")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingTransport is returned when both --proxy and --tor are specified.
	ErrConflictingTransport = errors.New("conflicting transports: --proxy and --tor cannot be used together")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrInvalidTorStartupTimeout is returned when --tor is used with a
	// non-positive startup timeout.
	ErrInvalidTorStartupTimeout = errors.New("invalid Tor startup timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidCameraID is returned when the camera index is negative.
	ErrInvalidCameraID = errors.New("invalid camera: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
