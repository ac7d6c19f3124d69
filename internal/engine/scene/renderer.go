package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/scene/shaders"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/shader"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/texture"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// Purpose identifies one specialized layer renderer.
type Purpose int

const (
	PurposeColor Purpose = iota
	PurposeSilhouette
	PurposeEdgesColor
	PurposeEdgesEmphasis
	PurposePick
	PurposePickDepth
	PurposePickNormals
	PurposeDepth
	PurposeOcclusion
	PurposeSnap
	PurposeSnapEdges
	numPurposes
)

// String names the purpose for logs.
func (p Purpose) String() string {
	switch p {
	case PurposeColor:
		return "color"
	case PurposeSilhouette:
		return "silhouette"
	case PurposeEdgesColor:
		return "edgesColor"
	case PurposeEdgesEmphasis:
		return "edgesEmphasis"
	case PurposePick:
		return "pick"
	case PurposePickDepth:
		return "pickDepth"
	case PurposePickNormals:
		return "pickNormals"
	case PurposeDepth:
		return "depth"
	case PurposeOcclusion:
		return "occlusion"
	case PurposeSnap:
		return "snap"
	case PurposeSnapEdges:
		return "snapEdges"
	}
	return "unknown"
}

// sources returns the generated program sources for a purpose.
func (p Purpose) sources(cfg shaders.Config) (vertex, fragment string) {
	switch p {
	case PurposeColor:
		return shaders.Color(cfg)
	case PurposeSilhouette:
		return shaders.Silhouette(cfg)
	case PurposeEdgesColor:
		return shaders.EdgesColor(cfg)
	case PurposeEdgesEmphasis:
		return shaders.EdgesEmphasis(cfg)
	case PurposePick:
		return shaders.Pick(cfg)
	case PurposePickDepth:
		return shaders.PickDepth(cfg)
	case PurposePickNormals:
		return shaders.PickNormals(cfg)
	case PurposeDepth:
		return shaders.Depth(cfg)
	case PurposeOcclusion:
		return shaders.Occlusion(cfg)
	case PurposeSnap:
		return shaders.Snap(cfg)
	case PurposeSnapEdges:
		return shaders.SnapEdges(cfg)
	}
	return "", ""
}

// edges reports whether the purpose draws the edge index textures.
func (p Purpose) edges() bool {
	return p == PurposeEdgesColor || p == PurposeEdgesEmphasis || p == PurposeSnapEdges
}

// layerRenderer is one compiled program plus its health. A failed
// compile leaves ok false and the renderer draws nothing; the error
// is logged once at build time rather than every frame.
type layerRenderer struct {
	program *shader.Program
	ok      bool
}

// rendererCache lazily compiles one renderer per purpose for a fixed
// scene state. The cache key is the state hash; the scene discards
// the whole cache when the hash changes.
type rendererCache struct {
	cfg       shaders.Config
	hash      string
	renderers [numPurposes]*layerRenderer
}

// stateHash summarizes the scene state compiled into the programs.
func stateHash(cfg shaders.Config) string {
	return fmt.Sprintf("lights:%d;planes:%d;sao:%t;logdepth:%t",
		cfg.Lights, cfg.SectionPlanes, cfg.SAO, cfg.LogDepth)
}

func newRendererCache(cfg shaders.Config) *rendererCache {
	return &rendererCache{
		cfg:  cfg,
		hash: stateHash(cfg),
	}
}

// get returns the renderer for a purpose, compiling it on first use.
func (c *rendererCache) get(p Purpose) *layerRenderer {
	if r := c.renderers[p]; r != nil {
		return r
	}

	r := &layerRenderer{}
	vertex, fragment := p.sources(c.cfg)
	program, err := shader.NewProgram(vertex, fragment)
	if err != nil {
		logger.Log.Error("layer renderer compile failed",
			zap.String("purpose", p.String()),
			zap.String("state", c.hash),
			zap.Error(err),
		)
	} else {
		r.program = program
		r.ok = true
	}
	c.renderers[p] = r
	return r
}

// destroy releases every compiled program.
func (c *rendererCache) destroy() {
	for i, r := range c.renderers {
		if r != nil && r.program != nil {
			r.program.Destroy()
		}
		c.renderers[i] = nil
	}
}

// Data texture binding units. The SAO texture rides above them.
const (
	unitAttributes = iota
	unitInstanceMatrices
	unitDecodeMatrices
	unitPositions
	unitIndices
	unitPortions
	unitOcclusion
)

// drawParams carries the per-pass inputs beyond the frame context.
type drawParams struct {
	pass        dtx.RenderPass
	modelMatrix math.Mat4

	ambient     [3]float32   // color purpose
	lightDirs   [][3]float32 // view-space, premultiplied by intensity
	lightColors [][3]float32

	silhouetteColor [4]float32 // silhouette purposes
	edgeColor       [4]float32 // edge emphasis purposes
	pickZNear       float32    // packed depth purposes
	pickZFar        float32
	saoTexture      uint32 // color purpose when SAO is on

	// World-space section planes, (dir, w) per plane. The w term is
	// rebased to the layer origin at draw time.
	sectionPlanes []float32
}

// Uniform names for the per-light values baked into the color shader.
var (
	lightDirNames   = [...]string{"uLightDir0", "uLightDir1", "uLightDir2", "uLightDir3"}
	lightColorNames = [...]string{"uLightColor0", "uLightColor1", "uLightColor2", "uLightColor3"}
)

// draw issues one layer's draw calls for a purpose: uniforms, data
// texture bindings, then one glDrawArrays per non-empty index tier.
func (r *layerRenderer) draw(p Purpose, fc *FrameContext, layer *dtx.Layer, params drawParams) {
	if !r.ok {
		return
	}
	ts := layer.Textures()
	if ts == nil {
		return
	}

	prog := r.program
	prog.Use()

	origin := layer.Origin()
	prog.SetMat4("uModelMatrix", params.modelMatrix)
	prog.SetMat4("uViewMatrix", fc.RTCView(origin))
	prog.SetMat4("uProjMatrix", fc.Proj)

	// The shader compares one flag channel against uRenderPass. Derived
	// passes reuse another channel's value: occlusion tests the color
	// channel for opaque, snap tests the pick channel.
	_, want := dtx.PassChannel(params.pass)
	prog.SetInt("uRenderPass", int32(want))

	eye := fc.EyeRTC(origin)
	prog.SetVec3("uCameraEyeRtc", eye[0], eye[1], eye[2])
	if fc.LogDepthFC != 0 {
		prog.SetFloat("uLogDepthFC", fc.LogDepthFC)
	}
	if len(params.sectionPlanes) > 0 {
		prog.SetVec4Array("uSectionPlanes[0]", rebasePlanes(params.sectionPlanes, origin))
	}

	switch p {
	case PurposeSilhouette:
		c := params.silhouetteColor
		prog.SetVec4("uSilhouetteColor", c[0], c[1], c[2], c[3])
	case PurposeEdgesEmphasis:
		c := params.edgeColor
		prog.SetVec4("uEdgeColor", c[0], c[1], c[2], c[3])
	case PurposePickDepth, PurposeDepth:
		prog.SetFloat("uPickZNear", params.pickZNear)
		prog.SetFloat("uPickZFar", params.pickZFar)
	case PurposeSnap, PurposeSnapEdges:
		// Snap coordinates come back relative to the eye; the nearby
		// anchor keeps them precise in float32.
		prog.SetVec3("uSnapOrigin", eye[0], eye[1], eye[2])
	case PurposeColor:
		a := params.ambient
		prog.SetVec3("uLightAmbient", a[0], a[1], a[2])
		for i := range params.lightDirs {
			d := params.lightDirs[i]
			c := params.lightColors[i]
			prog.SetVec3(lightDirNames[i], d[0], d[1], d[2])
			prog.SetVec3(lightColorNames[i], c[0], c[1], c[2])
		}
		if params.saoTexture != 0 {
			gl.ActiveTexture(gl.TEXTURE0 + unitOcclusion)
			gl.BindTexture(gl.TEXTURE_2D, params.saoTexture)
			prog.SetInt("uOcclusionTexture", unitOcclusion)
			prog.SetVec2("uViewportSize", float32(fc.ViewportW), float32(fc.ViewportH))
		}
	}

	bind := func(t *texture.DataTexture, unit int32, name string) {
		t.Bind(gl.TEXTURE0 + uint32(unit))
		prog.SetInt(name, unit)
	}
	bind(ts.Attributes, unitAttributes, "uObjectAttributes")
	bind(ts.InstanceMatrices, unitInstanceMatrices, "uInstanceMatrices")
	bind(ts.DecodeMatrices, unitDecodeMatrices, "uDecodeMatrices")
	bind(ts.Positions, unitPositions, "uVertexPositions")

	for t := dtx.Tier8; t < dtx.NumTiers; t++ {
		if r.drawTier(p, fc, layer, ts, t, bind) {
			fc.DrawCalls++
		}
	}
}

// rebasePlanes shifts world-space plane offsets to a layer origin, so
// the plane test runs against the shader's origin-relative positions.
func rebasePlanes(planes []float32, origin [3]float64) []float32 {
	if origin == ([3]float64{}) {
		return planes
	}
	out := make([]float32, len(planes))
	copy(out, planes)
	for i := 0; i+3 < len(out); i += 4 {
		out[i+3] += float32(float64(out[i])*origin[0] +
			float64(out[i+1])*origin[1] +
			float64(out[i+2])*origin[2])
	}
	return out
}

// drawTier draws one index tier, returning false when the tier holds
// no primitives for this purpose.
func (r *layerRenderer) drawTier(p Purpose, fc *FrameContext, layer *dtx.Layer, ts *dtx.TextureSet, t dtx.IndexTier, bind func(*texture.DataTexture, int32, string)) bool {
	if p.edges() {
		if ts.EdgeIndices[t] == nil {
			return false
		}
		bind(ts.EdgeIndices[t], unitIndices, "uPrimitiveIndices")
		bind(ts.EdgePortionIDs[t], unitPortions, "uPortionIds")
		count := layer.TierEdgeCount(t)
		gl.DrawArrays(gl.LINES, 0, int32(count*2))
		fc.Edges += count
		return true
	}

	if ts.TriIndices[t] == nil {
		return false
	}
	bind(ts.TriIndices[t], unitIndices, "uPrimitiveIndices")
	bind(ts.TriPortionIDs[t], unitPortions, "uPortionIds")
	count := layer.TierTriangleCount(t)
	if p == PurposeSnap {
		gl.DrawArrays(gl.POINTS, 0, int32(count*3))
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(count*3))
	}
	fc.Triangles += count
	return true
}
