// File: policy/classify.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Thread name classification.

package policy

import (
	"strings"

	"github.com/emuforge/hostsched/api"
)

// roleKeywords is the ordered keyword table; the first matching group wins.
// Audio is checked first so names that match several groups resolve to the
// most latency-sensitive role.
var roleKeywords = []struct {
	role     api.Role
	keywords []string
}{
	{api.RoleAudio, []string{"audio", "sound", "music", "atrac", "snd", "pcm"}},
	{api.RoleMainRender, []string{"render", "gxm", "graphics", "gpu", "opengl", "vulkan", "draw", "display"}},
	{api.RoleInput, []string{"input", "ctrl", "pad", "touch", "controller", "button"}},
	{api.RoleNetwork, []string{"net", "io", "file", "fios", "socket", "http", "download"}},
}

// Classify maps a thread's descriptive name to its functional role. Matching
// is a case-insensitive substring test in fixed table order; unmatched names
// fall back to RoleBackground and an empty name yields RoleUnknown.
func Classify(name string) api.Role {
	if name == "" {
		return api.RoleUnknown
	}
	lower := strings.ToLower(name)
	for _, group := range roleKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.role
			}
		}
	}
	return api.RoleBackground
}

// Keywords returns a copy of the keyword list that classifies into the given
// role, for diagnostics output.
func Keywords(role api.Role) []string {
	for _, group := range roleKeywords {
		if group.role == role {
			return append([]string(nil), group.keywords...)
		}
	}
	return nil
}
