// File: policy/priority.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Priority descriptor selection for (role, mode).

package policy

import "github.com/emuforge/hostsched/api"

// Realtime levels requested per mode. The platform layer maps them onto the
// native realtime range; on hosts without privileges they degrade to normal.
const (
	realtimeAudioBalanced   = 40
	realtimeAudioAggressive = 50
	realtimeAudioUltra      = 60
	realtimeRenderUltra     = 40
)

// SelectPriority returns the abstract priority descriptor for a role under
// the given mode. TurboDisabled always yields the normal priority.
func SelectPriority(role api.Role, mode api.TurboMode) api.Priority {
	if mode == api.TurboDisabled {
		return api.Priority{Class: api.PriorityNormal}
	}
	switch role {
	case api.RoleAudio:
		switch mode {
		case api.TurboUltra:
			return api.Priority{Class: api.PriorityRealtime, Level: realtimeAudioUltra}
		case api.TurboAggressive:
			return api.Priority{Class: api.PriorityRealtime, Level: realtimeAudioAggressive}
		default:
			return api.Priority{Class: api.PriorityRealtime, Level: realtimeAudioBalanced}
		}
	case api.RoleMainRender:
		switch mode {
		case api.TurboUltra:
			return api.Priority{Class: api.PriorityRealtime, Level: realtimeRenderUltra}
		case api.TurboAggressive:
			return api.Priority{Class: api.PriorityElevated, Level: 2}
		default:
			return api.Priority{Class: api.PriorityElevated, Level: 1}
		}
	case api.RoleInput:
		if mode >= api.TurboAggressive {
			return api.Priority{Class: api.PriorityElevated, Level: 1}
		}
		return api.Priority{Class: api.PriorityNormal}
	default:
		return api.Priority{Class: api.PriorityNormal}
	}
}
