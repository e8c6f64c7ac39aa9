// File: api/types.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Shared enums and descriptors for the host thread scheduler.

package api

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is the functional category of a worker thread, resolved from its
// descriptive name at registration time.
type Role int

const (
	RoleUnknown Role = iota
	RoleMainRender
	RoleAudio
	RoleInput
	RoleNetwork
	RoleBackground
)

func (r Role) String() string {
	switch r {
	case RoleMainRender:
		return "main_render"
	case RoleAudio:
		return "audio"
	case RoleInput:
		return "input"
	case RoleNetwork:
		return "network"
	case RoleBackground:
		return "background"
	default:
		return "unknown"
	}
}

// TurboMode selects how aggressively worker threads are steered onto the
// performance cores. Values are ordered by aggressiveness, so modes compare
// with the usual operators.
type TurboMode int

const (
	TurboDisabled TurboMode = iota
	TurboBalanced
	TurboAggressive
	TurboUltra
)

func (m TurboMode) String() string {
	switch m {
	case TurboBalanced:
		return "balanced"
	case TurboAggressive:
		return "aggressive"
	case TurboUltra:
		return "ultra"
	default:
		return "disabled"
	}
}

// ParseTurboMode resolves a case-insensitive mode name.
func ParseTurboMode(s string) (TurboMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off", "":
		return TurboDisabled, nil
	case "balanced":
		return TurboBalanced, nil
	case "aggressive":
		return TurboAggressive, nil
	case "ultra":
		return TurboUltra, nil
	default:
		return TurboDisabled, fmt.Errorf("%w: turbo mode %q", ErrInvalidArgument, s)
	}
}

// MarshalYAML encodes the mode as its lowercase name.
func (m TurboMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML accepts the names understood by ParseTurboMode.
func (m *TurboMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTurboMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PriorityClass is the abstract urgency band a thread requests. The platform
// layer translates it to a native scheduler value.
type PriorityClass int

const (
	PriorityNormal PriorityClass = iota
	PriorityElevated
	PriorityRealtime
)

func (c PriorityClass) String() string {
	switch c {
	case PriorityElevated:
		return "elevated"
	case PriorityRealtime:
		return "realtime"
	default:
		return "normal"
	}
}

// Priority pairs a class with a class-relative level. For PriorityRealtime
// the level is the requested realtime priority; for PriorityElevated it is a
// small step count above normal; for PriorityNormal it is ignored.
type Priority struct {
	Class PriorityClass
	Level int
}

func (p Priority) String() string {
	if p.Class == PriorityNormal {
		return p.Class.String()
	}
	return fmt.Sprintf("%s/%d", p.Class, p.Level)
}

// State is the lifecycle state of the scheduler facade.
type State int

const (
	StateUninitialized State = iota
	StateDisabled
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	default:
		return "uninitialized"
	}
}
