// Package logging configures the process-wide structured logger.
//
// Logging is built on log/slog. Components derive their own loggers with
// slog.Default().With("component", name); this package only parses the
// configured level and format and installs the handler.
package logging
