// File: policy/classify_test.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emuforge/hostsched/api"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want api.Role
	}{
		{"", api.RoleUnknown},
		{"SceGxmDisplayQueue", api.RoleMainRender},
		{"RenderThread", api.RoleMainRender},
		{"RenderLoop", api.RoleMainRender},
		{"AudioMixer", api.RoleAudio},
		{"VulkanSubmit", api.RoleMainRender},
		{"AudioOutMixer", api.RoleAudio},
		{"SND_STREAM", api.RoleAudio},
		{"AtracDecode", api.RoleAudio},
		{"pcm_push", api.RoleAudio},
		{"CtrlReader", api.RoleInput},
		{"TouchSampler", api.RoleInput},
		{"gamepad_poll", api.RoleInput},
		{"NetDownloader", api.RoleNetwork},
		{"FiosScheduler", api.RoleNetwork},
		{"http_fetch", api.RoleNetwork},
		{"worker_7", api.RoleBackground},
		{"TrophyUnlock", api.RoleBackground},
		{"HousekeepScan", api.RoleBackground},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.name), "name %q", tt.name)
	}
}

// TestClassifyOrder pins the precedence for names matching several groups:
// audio outranks render, render outranks input, input outranks network.
func TestClassifyOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, api.RoleAudio, Classify("AudioRenderThread"))
	require.Equal(t, api.RoleMainRender, Classify("DisplayInputMirror"))
	require.Equal(t, api.RoleInput, Classify("CtrlNetBridge"))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	require.Equal(t, Classify("audioout"), Classify("AUDIOOUT"))
	require.Equal(t, api.RoleMainRender, Classify("GXM"))
}

func TestKeywordsReturnsCopy(t *testing.T) {
	t.Parallel()

	kws := Keywords(api.RoleAudio)
	require.NotEmpty(t, kws)
	kws[0] = "mutated"
	require.NotEqual(t, kws[0], Keywords(api.RoleAudio)[0])

	require.Nil(t, Keywords(api.RoleUnknown))
}
