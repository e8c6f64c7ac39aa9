// File: errors.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package hostsched

import "github.com/emuforge/hostsched/api"

// Re-exported sentinels so callers of the facade do not need to import api
// just to branch on its errors.
var (
	ErrNotInitialized = api.ErrNotInitialized
	ErrNotSupported   = api.ErrNotSupported
)
