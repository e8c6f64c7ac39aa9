// File: api/logger.go
// Author: emuforge <dev@emuforge.io>
//
// Minimal leveled logging contract.

package api

// Logger is the structured logging interface used across the library.
// Messages carry alternating key/value pairs in the slog style. The default
// implementation wraps log/slog; any structured logger adapts in a few lines.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
