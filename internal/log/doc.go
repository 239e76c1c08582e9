// Package log builds the slog loggers used across qrtitle.
//
// Loggers created here pass every record through SecureHandler, which masks
// credentials before they reach the output. Host rules in the config file
// carry cookies and authorization headers, and those values must never show
// up in verbose logs:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("request", "cookie", "session=abc123") // cookie=***REDACTED***
//
// Scanned URLs are logged with sensitive query parameters masked, so
// "https://a.test/?token=xyz" is written as "https://a.test/?token=***REDACTED***".
package log
