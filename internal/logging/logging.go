// File: internal/logging/logging.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Package logging adapts log/slog to the api.Logger contract and provides
// a no-op logger for tests and embedders with their own logging.

package logging

import (
	"log/slog"

	"github.com/emuforge/hostsched/api"
)

// SlogLogger implements api.Logger on top of a slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

var _ api.Logger = (*SlogLogger)(nil)

// NewSlog wraps the given slog.Logger.
func NewSlog(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewSlogDefault wraps slog.Default.
func NewSlogDefault() *SlogLogger {
	return &SlogLogger{logger: slog.Default()}
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// NopLogger discards all messages.
type NopLogger struct{}

var _ api.Logger = (*NopLogger)(nil)

// NewNop returns a logger that performs no operations.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(string, ...any) {}
func (n *NopLogger) Info(string, ...any)  {}
func (n *NopLogger) Warn(string, ...any)  {}
func (n *NopLogger) Error(string, ...any) {}
