// Package shaders generates the GLSL programs for data-texture scene
// rendering. Geometry never reaches the GPU as vertex attributes:
// every draw is an attribute-less glDrawArrays and the vertex shader
// reconstructs each vertex from texelFetch lookups keyed on
// gl_VertexID. Sources vary with light count, section plane count and
// the SAO/log-depth toggles, so they are built as strings rather than
// embedded files; two equal Configs yield byte-identical sources.
package shaders

import (
	"fmt"
	"strings"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
)

// Config selects the variable parts of a generated program.
type Config struct {
	Lights        int  // directional lights shaded in the color pass
	SectionPlanes int  // active section plane slots compiled in
	SAO           bool // modulate color by the ambient occlusion texture
	LogDepth      bool // logarithmic depth buffer
}

// Texel addressing must match the CPU-side packing. The shifts are
// log2 of the row widths.
const (
	objectMask  = dtx.RowWidth - 1
	objectShift = 9
	linearMask  = dtx.LinearTextureWidth - 1
	linearShift = 12
)

// flagChannel names the uvec4 component a pass tests.
var flagChannel = [4]string{"r", "g", "b", "a"}

// vertexSpec drives the shared vertex scaffold.
type vertexSpec struct {
	channel     dtx.FlagChannel
	edges       bool // RG edge indices instead of RGB triangle indices
	points      bool // one point per index entry (snap vertex mode)
	windingFlip bool // orient open-surface triangles toward the eye
	fetchColor  bool
	fetchPick   bool
	worldPos    bool
	viewPos     bool
}

func header(b *strings.Builder) {
	b.WriteString("#version 410 core\n\n")
}

func vertexSamplers(b *strings.Builder) {
	b.WriteString("uniform highp usampler2D uObjectAttributes;\n")
	b.WriteString("uniform highp sampler2D uInstanceMatrices;\n")
	b.WriteString("uniform highp sampler2D uDecodeMatrices;\n")
	b.WriteString("uniform highp usampler2D uVertexPositions;\n")
	b.WriteString("uniform highp usampler2D uPrimitiveIndices;\n")
	b.WriteString("uniform highp usampler2D uPortionIds;\n\n")
}

func vertexUniforms(b *strings.Builder, spec vertexSpec, cfg Config) {
	b.WriteString("uniform mat4 uModelMatrix;\n")
	b.WriteString("uniform mat4 uViewMatrix;\n")
	b.WriteString("uniform mat4 uProjMatrix;\n")
	b.WriteString("uniform int uRenderPass;\n")
	if spec.windingFlip {
		b.WriteString("uniform vec3 uCameraEyeRtc;\n")
	}
	b.WriteString("\n")
}

func vertexOutputs(b *strings.Builder, spec vertexSpec, cfg Config) {
	if spec.fetchColor {
		b.WriteString("out vec4 vColor;\n")
	}
	if spec.fetchPick {
		b.WriteString("flat out vec4 vPickColor;\n")
	}
	if spec.worldPos || cfg.SectionPlanes > 0 {
		b.WriteString("out vec4 vWorldPosition;\n")
	}
	if spec.viewPos {
		b.WriteString("out vec4 vViewPosition;\n")
	}
	if cfg.SectionPlanes > 0 {
		b.WriteString("flat out uint vClippable;\n")
	}
	if cfg.LogDepth {
		b.WriteString("out float vFragDepth;\n")
	}
	b.WriteString("\n")
}

func vertexHelpers(b *strings.Builder) {
	b.WriteString(`int unpackBytes(uvec4 b) {
	return int(b.r) << 24 | int(b.g) << 16 | int(b.b) << 8 | int(b.a);
}

mat4 fetchMat4(sampler2D tex, ivec2 base) {
	return mat4(
		texelFetch(tex, base, 0),
		texelFetch(tex, ivec2(base.x + 1, base.y), 0),
		texelFetch(tex, ivec2(base.x + 2, base.y), 0),
		texelFetch(tex, ivec2(base.x + 3, base.y), 0));
}

`)
	fmt.Fprintf(b, `vec3 fetchPosition(int vertexId) {
	return vec3(texelFetch(uVertexPositions, ivec2(vertexId & %d, vertexId >> %d), 0).rgb);
}

`, linearMask, linearShift)
}

// cullVertex is the sentinel position that moves a vertex outside clip
// space, dropping its primitive without a draw-call change.
const cullVertex = "\t\tgl_Position = vec4(3.0, 3.0, 3.0, 1.0);\n\t\treturn;\n"

// vertexMain emits the shared fetch chain: primitive id to portion to
// object, flag test against the render pass, vertex base, index fetch,
// dequantization and the two matrix transforms.
func vertexMain(b *strings.Builder, spec vertexSpec, cfg Config) {
	b.WriteString("void main(void) {\n")

	switch {
	case spec.points:
		b.WriteString("\tint primitiveIndex = gl_VertexID / 3;\n")
		b.WriteString("\tint which = gl_VertexID % 3;\n")
	case spec.edges:
		b.WriteString("\tint primitiveIndex = gl_VertexID >> 1;\n")
		b.WriteString("\tint which = gl_VertexID & 1;\n")
	default:
		b.WriteString("\tint primitiveIndex = gl_VertexID / 3;\n")
		b.WriteString("\tint which = gl_VertexID % 3;\n")
	}

	fmt.Fprintf(b, "\tint lookupIndex = primitiveIndex >> %d;\n", portionShift)
	fmt.Fprintf(b, "\tint objectIndex = int(texelFetch(uPortionIds, ivec2(lookupIndex & %d, lookupIndex >> %d), 0).r);\n",
		linearMask, linearShift)
	fmt.Fprintf(b, "\tivec2 objectCoords = ivec2(objectIndex & %d, objectIndex >> %d);\n\n",
		objectMask, objectShift)

	// Flag routing: a mismatched channel culls the vertex.
	fmt.Fprintf(b, "\tuvec4 flags = texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0);\n",
		dtx.TexelsPerObject, dtx.TexelFlags)
	fmt.Fprintf(b, "\tif (int(flags.%s) != uRenderPass) {\n%s\t}\n",
		flagChannel[spec.channel], cullVertex)
	fmt.Fprintf(b, "\tuvec4 flags2 = texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0);\n",
		dtx.TexelsPerObject, dtx.TexelFlags2)
	fmt.Fprintf(b, "\tif (flags2.g != 0u) {\n%s\t}\n\n", cullVertex)

	fmt.Fprintf(b, "\tint vertexBase = unpackBytes(texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0));\n",
		dtx.TexelsPerObject, dtx.TexelVertexBase)

	if spec.edges {
		fmt.Fprintf(b, "\tivec2 vertexIds = ivec2(texelFetch(uPrimitiveIndices, ivec2(primitiveIndex & %d, primitiveIndex >> %d), 0).rg) + ivec2(vertexBase);\n\n",
			linearMask, linearShift)
	} else {
		fmt.Fprintf(b, "\tivec3 vertexIds = ivec3(texelFetch(uPrimitiveIndices, ivec2(primitiveIndex & %d, primitiveIndex >> %d), 0).rgb) + ivec3(vertexBase);\n\n",
			linearMask, linearShift)
	}

	fmt.Fprintf(b, "\tmat4 decodeMatrix = fetchMat4(uDecodeMatrices, ivec2(objectCoords.x * %d, objectCoords.y));\n",
		dtx.MatrixTexelsPerObject)
	fmt.Fprintf(b, "\tmat4 instanceMatrix = fetchMat4(uInstanceMatrices, ivec2(objectCoords.x * %d, objectCoords.y));\n\n",
		dtx.MatrixTexelsPerObject)

	if spec.windingFlip {
		// Open surfaces have no stable winding; orient each triangle
		// toward the eye in quantized space so backface culling never
		// eats them.
		fmt.Fprintf(b, "\tuint solid = texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0).r;\n",
			dtx.TexelsPerObject, dtx.TexelSolid)
		b.WriteString(`	if (solid != 1u) {
		vec3 p0 = fetchPosition(vertexIds.x);
		vec3 p1 = fetchPosition(vertexIds.y);
		vec3 p2 = fetchPosition(vertexIds.z);
		vec3 faceNormal = cross(p1 - p0, p2 - p0);
		vec3 eyeQuantized = (inverse(uModelMatrix * instanceMatrix * decodeMatrix) * vec4(uCameraEyeRtc, 1.0)).xyz;
		if (dot(p0 - eyeQuantized, faceNormal) < 0.0) {
			which = 2 - which;
		}
	}
`)
	}

	b.WriteString("\tvec3 position = fetchPosition(vertexIds[which]);\n")
	b.WriteString("\tvec4 worldPosition = uModelMatrix * instanceMatrix * (decodeMatrix * vec4(position, 1.0));\n")
	b.WriteString("\tvec4 viewPosition = uViewMatrix * worldPosition;\n")
	b.WriteString("\tvec4 clipPos = uProjMatrix * viewPosition;\n")
	b.WriteString("\tgl_Position = clipPos;\n")

	if spec.points {
		b.WriteString("\tgl_PointSize = 1.0;\n")
	}
	if spec.fetchColor {
		fmt.Fprintf(b, "\tvColor = vec4(texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0)) / 255.0;\n",
			dtx.TexelsPerObject, dtx.TexelColor)
	}
	if spec.fetchPick {
		fmt.Fprintf(b, "\tvPickColor = vec4(texelFetch(uObjectAttributes, ivec2(objectCoords.x * %d + %d, objectCoords.y), 0)) / 255.0;\n",
			dtx.TexelsPerObject, dtx.TexelPickColor)
	}
	if spec.worldPos || cfg.SectionPlanes > 0 {
		b.WriteString("\tvWorldPosition = worldPosition;\n")
	}
	if spec.viewPos {
		b.WriteString("\tvViewPosition = viewPosition;\n")
	}
	if cfg.SectionPlanes > 0 {
		b.WriteString("\tvClippable = flags2.r;\n")
	}
	if cfg.LogDepth {
		b.WriteString("\tvFragDepth = 1.0 + clipPos.w;\n")
	}
	b.WriteString("}\n")
}

// portionShift is log2 of the portion granularity.
const portionShift = 3

// buildVertex assembles a complete vertex shader for a spec.
func buildVertex(spec vertexSpec, cfg Config) string {
	var b strings.Builder
	header(&b)
	vertexSamplers(&b)
	vertexUniforms(&b, spec, cfg)
	vertexOutputs(&b, spec, cfg)
	vertexHelpers(&b)
	vertexMain(&b, spec, cfg)
	return b.String()
}

// fragmentSectionPlanes emits the clipping block shared by every
// fragment shader. Clippable objects accumulate their distance behind
// each active plane and discard when any is positive.
func fragmentSectionPlanes(b *strings.Builder, cfg Config) {
	if cfg.SectionPlanes == 0 {
		return
	}
	fmt.Fprintf(b, `	if (vClippable != 0u) {
		float dist = 0.0;
		for (int i = 0; i < %d; i++) {
			dist += clamp(-(dot(uSectionPlanes[i].xyz, vWorldPosition.xyz) + uSectionPlanes[i].w), 0.0, 1000.0);
		}
		if (dist > 0.0) {
			discard;
		}
	}
`, cfg.SectionPlanes)
}

// fragmentSectionPlaneInputs declares the clipping inputs. worldDeclared
// skips vWorldPosition when the caller already declared it for its own
// use.
func fragmentSectionPlaneInputs(b *strings.Builder, cfg Config, worldDeclared bool) {
	if cfg.SectionPlanes == 0 {
		return
	}
	if !worldDeclared {
		b.WriteString("in vec4 vWorldPosition;\n")
	}
	b.WriteString("flat in uint vClippable;\n")
	fmt.Fprintf(b, "uniform vec4 uSectionPlanes[%d];\n", cfg.SectionPlanes)
}

func fragmentLogDepthInputs(b *strings.Builder, cfg Config) {
	if !cfg.LogDepth {
		return
	}
	b.WriteString("in float vFragDepth;\n")
	b.WriteString("uniform float uLogDepthFC;\n")
}

func fragmentLogDepth(b *strings.Builder, cfg Config) {
	if !cfg.LogDepth {
		return
	}
	b.WriteString("\tgl_FragDepth = log2(vFragDepth) * uLogDepthFC * 0.5;\n")
}
