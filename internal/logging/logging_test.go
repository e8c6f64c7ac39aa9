// File: internal/logging/logging_test.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLoggerForwardsLevelsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := NewSlog(slog.New(handler))

	log.Debug("registering", "tid", 42)
	log.Info("mode changed", "mode", "ultra")
	log.Warn("affinity failed")
	log.Error("detection broken", "cause", "sysfs")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "tid=42")
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, "mode=ultra")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "cause=sysfs")
}

func TestSlogLoggerHonorsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	log := NewSlog(slog.New(handler))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
}

func TestNopLoggerIsSilent(t *testing.T) {
	t.Parallel()

	// Must not panic with any argument shape.
	log := NewNop()
	log.Debug("msg")
	log.Info("msg", "key")
	log.Warn("msg", "key", "value")
	log.Error("msg", 1, 2, 3)
}
