// File: policy/doc.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

// Package policy holds the pure decision functions of the host thread
// scheduler: thread-name classification and the mapping from (role, mode,
// topology) to core sets and priority descriptors. Nothing in this package
// touches the OS; side effects live behind the api.Platform port.
package policy
