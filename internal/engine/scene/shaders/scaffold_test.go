package shaders

import (
	"strings"
	"testing"
)

func wantContains(t *testing.T, src, sub, context string) {
	t.Helper()
	if !strings.Contains(src, sub) {
		t.Errorf("%s: missing %q", context, sub)
	}
}

func wantAbsent(t *testing.T, src, sub, context string) {
	t.Helper()
	if strings.Contains(src, sub) {
		t.Errorf("%s: unexpected %q", context, sub)
	}
}

func TestVersionHeader(t *testing.T) {
	v, f := Color(Config{Lights: 1})
	for _, src := range []string{v, f} {
		if !strings.HasPrefix(src, "#version 410 core\n") {
			t.Errorf("source does not start with the version directive:\n%s", src[:40])
		}
	}
}

func TestColorFetchChain(t *testing.T) {
	v, f := Color(Config{Lights: 2})

	// Portion lookup covers 8 primitives per entry.
	wantContains(t, v, "int lookupIndex = primitiveIndex >> 3;", "color vertex")
	// Object attribute rows hold 8 texels; flags live at offset 2.
	wantContains(t, v, "objectCoords.x * 8 + 2", "color vertex")
	// Vertex base texel unpacks big-endian.
	wantContains(t, v, "int(b.r) << 24 | int(b.g) << 16 | int(b.b) << 8 | int(b.a)", "color vertex")
	// Mismatched pass culls by clip-space exile.
	wantContains(t, v, "gl_Position = vec4(3.0, 3.0, 3.0, 1.0);", "color vertex")
	// Color rides the red channel.
	wantContains(t, v, "if (int(flags.r) != uRenderPass)", "color vertex")
	// Open surfaces flip winding toward the eye.
	wantContains(t, v, "if (solid != 1u)", "color vertex")

	// Flat shading from view-position derivatives, one term per light.
	wantContains(t, f, "dFdx(vViewPosition.xyz)", "color fragment")
	wantContains(t, f, "uLightDir0", "color fragment")
	wantContains(t, f, "uLightDir1", "color fragment")
	wantAbsent(t, f, "uLightDir2", "color fragment")
}

func TestSectionPlanes(t *testing.T) {
	v, f := Color(Config{Lights: 1, SectionPlanes: 3})

	wantContains(t, v, "flat out uint vClippable;", "clipped vertex")
	wantContains(t, f, "uniform vec4 uSectionPlanes[3];", "clipped fragment")
	wantContains(t, f, "for (int i = 0; i < 3; i++)", "clipped fragment")
	wantContains(t, f, "discard;", "clipped fragment")

	_, f = Color(Config{Lights: 1})
	wantAbsent(t, f, "uSectionPlanes", "unclipped fragment")
	wantAbsent(t, f, "discard", "unclipped fragment")
}

func TestLogDepth(t *testing.T) {
	v, f := Color(Config{Lights: 1, LogDepth: true})
	wantContains(t, v, "vFragDepth = 1.0 + clipPos.w;", "log-depth vertex")
	wantContains(t, f, "gl_FragDepth = log2(vFragDepth) * uLogDepthFC * 0.5;", "log-depth fragment")

	_, f = Color(Config{Lights: 1})
	wantAbsent(t, f, "gl_FragDepth", "linear-depth fragment")
}

func TestSAO(t *testing.T) {
	_, f := Color(Config{Lights: 1, SAO: true})
	wantContains(t, f, "uOcclusionTexture", "sao fragment")

	_, f = Color(Config{Lights: 1})
	wantAbsent(t, f, "uOcclusionTexture", "plain fragment")
}

func TestSilhouette(t *testing.T) {
	v, f := Silhouette(Config{})
	wantContains(t, v, "if (int(flags.g) != uRenderPass)", "silhouette vertex")
	wantContains(t, f, "uSilhouetteColor", "silhouette fragment")
	wantAbsent(t, f, "uLightAmbient", "silhouette fragment")
}

func TestEdges(t *testing.T) {
	v, f := EdgesColor(Config{})
	// Two vertices per primitive, RG index texels, blue flag channel.
	wantContains(t, v, "int primitiveIndex = gl_VertexID >> 1;", "edges vertex")
	wantContains(t, v, ".rg) + ivec2(vertexBase)", "edges vertex")
	wantContains(t, v, "if (int(flags.b) != uRenderPass)", "edges vertex")
	wantAbsent(t, v, "if (solid != 1u)", "edges vertex")
	wantContains(t, f, "vColor.rgb * 0.5", "edges fragment")

	_, f = EdgesEmphasis(Config{})
	wantContains(t, f, "uEdgeColor", "emphasis fragment")
}

func TestPickFamily(t *testing.T) {
	v, f := Pick(Config{})
	wantContains(t, v, "if (int(flags.a) != uRenderPass)", "pick vertex")
	wantContains(t, v, "vPickColor", "pick vertex")
	wantContains(t, f, "outColor = vPickColor;", "pick fragment")

	_, f = PickDepth(Config{})
	wantContains(t, f, "packDepth", "pick depth fragment")
	wantContains(t, f, "uPickZNear", "pick depth fragment")

	_, f = PickNormals(Config{})
	wantContains(t, f, "dFdx(vWorldPosition.xyz)", "pick normals fragment")
}

func TestDepth(t *testing.T) {
	v, f := Depth(Config{})
	// The pre-pass rasterizes opaque color-channel geometry only.
	wantContains(t, v, "if (int(flags.r) != uRenderPass)", "depth vertex")
	wantContains(t, f, "packDepth", "depth fragment")

	_, pf := PickDepth(Config{})
	if f != pf {
		t.Error("depth and pick depth should share the packed fragment")
	}
}

func TestOcclusion(t *testing.T) {
	v, f := Occlusion(Config{})
	// Occlusion tests opaque-color visibility on the red channel.
	wantContains(t, v, "if (int(flags.r) != uRenderPass)", "occlusion vertex")
	wantContains(t, f, "outColor = vec4(1.0);", "occlusion fragment")
}

func TestSnap(t *testing.T) {
	v, f := Snap(Config{})
	wantContains(t, v, "gl_PointSize", "snap vertex")
	wantContains(t, f, "uSnapOrigin", "snap fragment")
	wantContains(t, f, "vWorldPosition.xyz - uSnapOrigin", "snap fragment")

	v, _ = SnapEdges(Config{})
	wantContains(t, v, "int primitiveIndex = gl_VertexID >> 1;", "snap edges vertex")
}

func TestDeterministicSources(t *testing.T) {
	cfg := Config{Lights: 3, SectionPlanes: 2, SAO: true, LogDepth: true}
	v1, f1 := Color(cfg)
	v2, f2 := Color(cfg)
	if v1 != v2 || f1 != f2 {
		t.Error("equal configs should generate identical sources")
	}
}
