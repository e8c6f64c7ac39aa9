// File: internal/platform/platform_test.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emuforge/hostsched/api"
)

func TestApplyAffinityRejectsEmptySet(t *testing.T) {
	t.Parallel()

	err := ApplyAffinity(nil)
	require.ErrorIs(t, err, api.ErrInvalidArgument)

	err = ApplyAffinity([]int{})
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestApplyAffinityRejectsNegativeID(t *testing.T) {
	t.Parallel()

	err := ApplyAffinity([]int{0, -1})
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}
