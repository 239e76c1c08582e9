package config

import (
	"net"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "qrtitle"

	// DefaultTimeout bounds one page fetch, including connection setup,
	// redirects and reading the body.
	DefaultTimeout = 15 * time.Second

	// DefaultBatchSize is the number of sources resolved concurrently.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies qrtitle in HTTP requests.
	DefaultUserAgent = "qrtitle/1.0 (+https://github.com/nao1215/qrtitle)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultPrompt is shown while a scan source is being read.
	DefaultPrompt = "Scan a QR code"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration options for qrtitle.
// It is populated from CLI flags and passed down explicitly.
type Config struct {
	// ProxyAddress is a SOCKS5 proxy in "host:port" form. Empty means
	// direct connections.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and fetches through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap. Only used when UseTor is true.
	TorStartupTimeout time.Duration

	// Timeout bounds each page fetch.
	Timeout time.Duration

	// UserAgent is the default User-Agent header. The configuration file
	// may override it per host.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// BatchSize is the number of sources resolved concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// ConfigFilePath is an explicit configuration file path. When empty the
	// file is searched for, see FindConfigFile.
	ConfigFilePath string

	// Hosts holds the per-host settings loaded from the configuration file.
	Hosts *File

	// JSONReport selects the JSON report. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. Empty means stdout.
	ReportFile string

	// Targets are the scan sources: image paths or payloads, depending on
	// the command.
	Targets []string

	// Interactive is set by commands that read sources from a stream instead
	// of Targets.
	Interactive bool

	// CameraID selects which source a scan reads.
	CameraID int

	// Prompt is shown while a scan source is being read.
	Prompt string

	// Beep signals a successful decode audibly.
	Beep bool

	// AskPermission asks for consent on the terminal before the first scan
	// instead of granting it automatically.
	AskPermission bool

	// OpenURLs opens every scanned URL in the default browser after the
	// reports are written.
	OpenURLs bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		BatchSize:         DefaultBatchSize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		Prompt:            DefaultPrompt,
		Beep:              true,
		LogFormat:         LogFormatText,
	}
}

// XDGConfigDir returns the XDG config directory for qrtitle.
// On Linux: ~/.config/qrtitle
// On macOS: ~/Library/Application Support/qrtitle
// On Windows: %APPDATA%\qrtitle
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EffectiveMaxBodySize returns MaxBodySize, or the default when it is zero.
func (c *Config) EffectiveMaxBodySize() int64 {
	if c.MaxBodySize == 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !c.Interactive && len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingTransport
	}

	if c.ProxyAddress != "" {
		host, port, err := net.SplitHostPort(c.ProxyAddress)
		if err != nil || host == "" || port == "" {
			return ErrInvalidProxyAddress
		}
	}

	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.CameraID < 0 {
		return ErrInvalidCameraID
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	return nil
}
