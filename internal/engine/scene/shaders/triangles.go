package shaders

import (
	"fmt"
	"strings"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
)

// Color returns the program for the opaque and transparent color
// passes. The data textures carry no vertex normals; the fragment
// shader derives a flat face normal from view-position derivatives
// and shades it with the configured directional lights.
func Color(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelColor,
		windingFlip: true,
		fetchColor:  true,
		viewPos:     true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	b.WriteString("in vec4 vColor;\n")
	b.WriteString("in vec4 vViewPosition;\n")
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("uniform vec3 uLightAmbient;\n")
	for i := 0; i < cfg.Lights; i++ {
		fmt.Fprintf(&b, "uniform vec3 uLightDir%d;\n", i)
		fmt.Fprintf(&b, "uniform vec3 uLightColor%d;\n", i)
	}
	if cfg.SAO {
		b.WriteString("uniform sampler2D uOcclusionTexture;\n")
		b.WriteString("uniform vec2 uViewportSize;\n")
	}
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString(`	vec3 xTangent = dFdx(vViewPosition.xyz);
	vec3 yTangent = dFdy(vViewPosition.xyz);
	vec3 viewNormal = normalize(cross(xTangent, yTangent));
	vec3 reflected = uLightAmbient;
`)
	for i := 0; i < cfg.Lights; i++ {
		fmt.Fprintf(&b, "\treflected += uLightColor%d * max(dot(viewNormal, -normalize(uLightDir%d)), 0.0);\n", i, i)
	}
	b.WriteString("\tvec4 color = vec4(reflected * vColor.rgb, vColor.a);\n")
	if cfg.SAO {
		b.WriteString("\tfloat occlusion = texture(uOcclusionTexture, gl_FragCoord.xy / uViewportSize).r;\n")
		b.WriteString("\tcolor.rgb *= occlusion;\n")
	}
	b.WriteString("\toutColor = color;\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// Silhouette returns the program for the xray, highlight and select
// passes: a uniform fill color over the silhouette channel.
func Silhouette(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelSilhouette,
		windingFlip: true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("uniform vec4 uSilhouetteColor;\n")
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutColor = uSilhouetteColor;\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// Pick returns the program that rasterizes each object's pick color,
// read back to resolve the entity under a pixel.
func Pick(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelPick,
		windingFlip: true,
		fetchPick:   true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	b.WriteString("flat in vec4 vPickColor;\n")
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutColor = vPickColor;\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// PickDepth returns the program that packs normalized view-space
// depth into RGBA bytes, giving picking a world position per pixel.
func PickDepth(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelPick,
		windingFlip: true,
		viewPos:     true,
	}
	return buildVertex(spec, cfg), packedDepthFragment(cfg)
}

// Depth returns the depth pre-pass program: the same packed depth as
// PickDepth, rasterized over the opaque color channel. Ambient
// occlusion estimation reads its output.
func Depth(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelColor,
		windingFlip: true,
		viewPos:     true,
	}
	return buildVertex(spec, cfg), packedDepthFragment(cfg)
}

func packedDepthFragment(cfg Config) string {
	var b strings.Builder
	header(&b)
	b.WriteString("in vec4 vViewPosition;\n")
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("uniform float uPickZNear;\n")
	b.WriteString("uniform float uPickZFar;\n")
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString(`vec4 packDepth(const in float depth) {
	const vec4 bitShift = vec4(256.0 * 256.0 * 256.0, 256.0 * 256.0, 256.0, 1.0);
	const vec4 bitMask = vec4(0.0, 1.0 / 256.0, 1.0 / 256.0, 1.0 / 256.0);
	vec4 res = fract(depth * bitShift);
	res -= res.xxyz * bitMask;
	return res;
}

`)
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\tfloat depth = (-vViewPosition.z - uPickZNear) / (uPickZFar - uPickZNear);\n")
	b.WriteString("\toutColor = packDepth(clamp(depth, 0.0, 1.0));\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return b.String()
}

// PickNormals returns the program that rasterizes world-space face
// normals, derived per fragment, into color bytes.
func PickNormals(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelPick,
		windingFlip: true,
		worldPos:    true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	b.WriteString("in vec4 vWorldPosition;\n")
	fragmentSectionPlaneInputs(&b, cfg, true)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString(`	vec3 worldNormal = normalize(cross(dFdx(vWorldPosition.xyz), dFdy(vWorldPosition.xyz)));
	outColor = vec4(worldNormal * 0.5 + 0.5, 1.0);
`)
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// Occlusion returns the program for occlusion testing: opaque objects
// rasterize solid white and marker pixels are read back afterwards.
func Occlusion(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:     dtx.ChannelColor, // rides the color channel at the opaque pass value
		windingFlip: true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutColor = vec4(1.0);\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// Snap returns the program that splats every vertex of the pick
// channel as a point carrying its snap-origin-relative world
// coordinate, for vertex snapping.
func Snap(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:  dtx.ChannelPick,
		points:   true,
		worldPos: true,
	}
	vertex = buildVertex(spec, cfg)
	return vertex, snapFragment(cfg)
}

// SnapEdges returns the edge-mode snap program: edges rasterize as
// lines carrying snap-origin-relative coordinates.
func SnapEdges(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:  dtx.ChannelPick,
		edges:    true,
		worldPos: true,
	}
	vertex = buildVertex(spec, cfg)
	return vertex, snapFragment(cfg)
}

func snapFragment(cfg Config) string {
	var b strings.Builder
	header(&b)
	b.WriteString("in vec4 vWorldPosition;\n")
	fragmentSectionPlaneInputs(&b, cfg, true)
	b.WriteString("uniform vec3 uSnapOrigin;\n")
	b.WriteString("\nout vec4 outCoords;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutCoords = vec4(vWorldPosition.xyz - uSnapOrigin, 1.0);\n")
	b.WriteString("}\n")
	return b.String()
}
