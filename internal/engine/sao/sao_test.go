package sao

import (
	"strings"
	"testing"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/sao/shaders"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.NumSamples <= 0 {
		t.Errorf("NumSamples = %d, want positive", p.NumSamples)
	}
	if p.Intensity <= 0 || p.Intensity > 1 {
		t.Errorf("Intensity = %f, want in (0, 1]", p.Intensity)
	}
	if p.KernelRadius <= 0 {
		t.Errorf("KernelRadius = %f, want positive", p.KernelRadius)
	}
	if p.DepthCutoff <= 0 {
		t.Errorf("DepthCutoff = %f, want positive", p.DepthCutoff)
	}
}

func TestEmbeddedShaders(t *testing.T) {
	sources := map[string]string{
		"fullscreen.vert": shaders.FullscreenVertexShader,
		"occlusion.frag":  shaders.OcclusionFragmentShader,
		"blur.frag":       shaders.BlurFragmentShader,
	}
	for name, src := range sources {
		if !strings.HasPrefix(src, "#version 410 core") {
			t.Errorf("%s: missing version directive", name)
		}
	}

	// Both fragment passes must unpack depth the same way the packed
	// depth pre-pass encodes it.
	for _, name := range []string{"occlusion.frag", "blur.frag"} {
		if !strings.Contains(sources[name], "256.0 * 256.0 * 256.0") {
			t.Errorf("%s: missing depth unpack factors", name)
		}
	}
	if !strings.Contains(sources["fullscreen.vert"], "gl_VertexID") {
		t.Error("fullscreen.vert: expected a gl_VertexID triangle")
	}
}
