// File: api/errors_test.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	t.Parallel()

	cause := errors.New("sysfs unreadable")
	err := NewError(ErrCodeDetection, "probe failed").
		WithContext("path", "/sys/devices").
		WithCause(cause)

	require.Equal(t, ErrCodeDetection, err.Code)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "probe failed")
	require.Contains(t, err.Error(), "sysfs unreadable")
	require.Contains(t, err.Error(), "/sys/devices")
}

func TestStructuredErrorWithoutContext(t *testing.T) {
	t.Parallel()

	err := NewError(ErrCodeConfig, "bad multiplier")
	require.Equal(t, "bad multiplier", err.Error())
	require.NoError(t, err.Unwrap())
}

// Wrapped sentinels must stay reachable through fmt.Errorf chains, since
// the platform layer reports failures that way.
func TestSentinelWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("SCHED_FIFO priority 50: %w", ErrPriorityDenied)
	require.ErrorIs(t, wrapped, ErrPriorityDenied)
	require.NotErrorIs(t, wrapped, ErrNotSupported)

	var structured *Error
	err := NewError(ErrCodePriority, "degraded").WithCause(wrapped)
	require.ErrorIs(t, err, ErrPriorityDenied)
	require.True(t, errors.As(error(err), &structured))
	require.Equal(t, ErrCodePriority, structured.Code)
}
