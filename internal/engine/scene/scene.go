// Package scene renders data-texture models: it owns the layers'
// entities, the per-purpose renderer programs, and the frame's pass
// sequence, and serves picking, snapping and occlusion queries from
// offscreen buffers.
package scene

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/camera"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/framebuffer"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/lighting"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/picking"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/sao"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/scene/shaders"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// MaxSectionPlanes is the largest number of active section planes the
// generated shaders are compiled for.
const MaxSectionPlanes = 6

// occlusionEpsilon is the depth slack when comparing a marker against
// the occlusion pass depth buffer.
const occlusionEpsilon = 0.01

// Config contains scene configuration options.
type Config struct {
	Width      int32
	Height     int32
	Near       float32
	Far        float32
	FOV        float32 // vertical field of view, radians
	LogDepth   bool
	SAOEnabled bool
	SAOParams  sao.Params
	Background [3]float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:      1280,
		Height:     720,
		Near:       0.1,
		Far:        5000,
		FOV:        0.785398, // 45 degrees
		LogDepth:   true,
		SAOEnabled: true,
		SAOParams:  sao.DefaultParams(),
		Background: [3]float32{0.78, 0.85, 0.92},
	}
}

// EmphasisMaterial colors one emphasis state's silhouette fill and
// edge overlay.
type EmphasisMaterial struct {
	FillColor [4]float32
	EdgeColor [4]float32
}

// SectionPlane cuts clippable geometry. Everything on the side the
// direction points away from is clipped.
type SectionPlane struct {
	Pos [3]float32
	Dir [3]float32
}

// FrameStats are the draw counters of the last rendered frame.
type FrameStats struct {
	DrawCalls int
	Triangles int
	Edges     int
}

// SnapMode selects what Snap snaps to.
type SnapMode int

const (
	SnapVertex SnapMode = iota
	SnapEdge
)

// SnapResult is a snap query hit.
type SnapResult struct {
	WorldPos [3]float32
	Snapped  bool
}

// Scene manages data-texture models and renders them through the
// generated renderer family.
type Scene struct {
	config Config

	framebuffer *framebuffer.Framebuffer // display target
	pickBuffer  *framebuffer.Framebuffer // pick ids, packed depths, normals
	snapBuffer  *framebuffer.Framebuffer // float snap coordinates
	sao         *sao.Pipeline            // nil when disabled or unavailable
	emptyVAO    uint32                   // attributeless draws need a bound VAO

	// Lighting and emphasis materials, mutable between frames. Adding
	// or removing lights recompiles the renderers on the next frame.
	Lights            *lighting.Rig
	XrayMaterial      EmphasisMaterial
	HighlightMaterial EmphasisMaterial
	SelectedMaterial  EmphasisMaterial

	sectionPlanes []SectionPlane

	models     []*Model
	modelsByID map[string]*Model
	entities   []*Entity // pick id - 1 indexes this

	cache *rendererCache

	rendered  bool
	lastView  math.Mat4
	lastProj  math.Mat4
	lastEye   math.Vec3
	lastStats FrameStats
}

// New creates a new scene with the given configuration. Requires a
// current GL context.
func New(cfg Config) (*Scene, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("scene: invalid size %dx%d", cfg.Width, cfg.Height)
	}

	s := &Scene{
		config:     cfg,
		Lights:     lighting.DefaultRig(),
		modelsByID: map[string]*Model{},
		XrayMaterial: EmphasisMaterial{
			FillColor: [4]float32{0.9, 0.7, 0.6, 0.4},
			EdgeColor: [4]float32{0.35, 0.35, 0.45, 1.0},
		},
		HighlightMaterial: EmphasisMaterial{
			FillColor: [4]float32{1.0, 1.0, 0.0, 0.5},
			EdgeColor: [4]float32{1.0, 1.0, 0.0, 1.0},
		},
		SelectedMaterial: EmphasisMaterial{
			FillColor: [4]float32{0.0, 1.0, 0.0, 0.5},
			EdgeColor: [4]float32{0.0, 1.0, 0.0, 1.0},
		},
	}

	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	s.pickBuffer, err = framebuffer.NewKind(cfg.Width, cfg.Height, framebuffer.KindData)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating pick buffer: %w", err)
	}
	s.snapBuffer, err = framebuffer.NewKind(cfg.Width, cfg.Height, framebuffer.KindFloat)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating snap buffer: %w", err)
	}

	if cfg.SAOEnabled {
		s.sao, err = sao.New(cfg.Width, cfg.Height, cfg.SAOParams)
		if err != nil {
			// The scene keeps rendering without ambient occlusion.
			logger.Log.Error("ambient occlusion unavailable", zap.Error(err))
			s.sao = nil
		}
	}

	gl.GenVertexArrays(1, &s.emptyVAO)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	return s, nil
}

// CreateModel registers an empty model under an ID.
func (s *Scene) CreateModel(id string, matrix math.Mat4) (*Model, error) {
	if id == "" {
		return nil, fmt.Errorf("scene: model needs an id")
	}
	if _, ok := s.modelsByID[id]; ok {
		return nil, fmt.Errorf("scene: model %q already exists", id)
	}
	m := newModel(s, id, matrix)
	s.models = append(s.models, m)
	s.modelsByID[id] = m
	return m, nil
}

// DestroyModel removes a model and releases its GPU textures. Pick
// ids of its entities stay allocated and resolve to nothing.
func (s *Scene) DestroyModel(id string) {
	m, ok := s.modelsByID[id]
	if !ok {
		return
	}
	for _, e := range m.entities {
		if e.pickID != 0 {
			s.entities[e.pickID-1] = nil
		}
	}
	m.Destroy()
	delete(s.modelsByID, id)
	for i, other := range s.models {
		if other == m {
			s.models = append(s.models[:i], s.models[i+1:]...)
			break
		}
	}
}

// Model returns a registered model, nil if unknown.
func (s *Scene) Model(id string) *Model { return s.modelsByID[id] }

// registerEntity allocates the next pick id for an entity.
func (s *Scene) registerEntity(e *Entity) uint32 {
	s.entities = append(s.entities, e)
	return uint32(len(s.entities))
}

// EntityByPickID resolves a decoded pick id, nil for 0 or unknown.
func (s *Scene) EntityByPickID(id uint32) *Entity {
	if id == 0 || int(id) > len(s.entities) {
		return nil
	}
	return s.entities[id-1]
}

// AABB returns the union of all model bounds.
func (s *Scene) AABB() geometry.Bounds {
	out := geometry.EmptyBounds()
	for _, m := range s.models {
		if !m.AABB().Empty() {
			out.Union(m.AABB())
		}
	}
	return out
}

// SetSectionPlanes replaces the active section planes. The renderers
// recompile for the new plane count on the next frame.
func (s *Scene) SetSectionPlanes(planes []SectionPlane) error {
	if len(planes) > MaxSectionPlanes {
		return fmt.Errorf("scene: %d section planes exceed the maximum %d", len(planes), MaxSectionPlanes)
	}
	s.sectionPlanes = append(s.sectionPlanes[:0], planes...)
	return nil
}

// SectionPlanes returns the active section planes.
func (s *Scene) SectionPlanes() []SectionPlane { return s.sectionPlanes }

// shaderConfig snapshots the scene state the generated programs are
// specialized against.
func (s *Scene) shaderConfig() shaders.Config {
	return shaders.Config{
		Lights:        s.Lights.Count(),
		SectionPlanes: len(s.sectionPlanes),
		SAO:           s.sao != nil,
		LogDepth:      s.config.LogDepth,
	}
}

// RenderersValid reports whether the cached renderers still match the
// scene state.
func (s *Scene) RenderersValid() bool {
	return s.cache != nil && s.cache.hash == stateHash(s.shaderConfig())
}

// ensureRenderers rebuilds the renderer cache when the scene state
// hash moved.
func (s *Scene) ensureRenderers() {
	cfg := s.shaderConfig()
	h := stateHash(cfg)
	if s.cache != nil && s.cache.hash == h {
		return
	}
	if s.cache != nil {
		logger.Log.Info("renderer cache invalidated",
			zap.String("from", s.cache.hash),
			zap.String("to", h),
		)
		s.cache.destroy()
	}
	s.cache = newRendererCache(cfg)
}

// packedPlanes returns the active planes as (dir, w) vec4s in world
// space.
func (s *Scene) packedPlanes() []float32 {
	if len(s.sectionPlanes) == 0 {
		return nil
	}
	out := make([]float32, 0, len(s.sectionPlanes)*4)
	for _, p := range s.sectionPlanes {
		w := -(p.Dir[0]*p.Pos[0] + p.Dir[1]*p.Pos[1] + p.Dir[2]*p.Pos[2])
		out = append(out, p.Dir[0], p.Dir[1], p.Dir[2], w)
	}
	return out
}

// baseParams assembles the per-frame draw parameters shared by every
// pass.
func (s *Scene) baseParams(view math.Mat4) drawParams {
	params := drawParams{
		sectionPlanes: s.packedPlanes(),
		ambient:       s.Lights.AmbientScaled(),
		pickZNear:     s.config.Near,
		pickZFar:      s.config.Far,
	}
	for i := 0; i < s.Lights.Count(); i++ {
		params.lightDirs = append(params.lightDirs, s.Lights.ViewDir(i, view))
		params.lightColors = append(params.lightColors, s.Lights.ColorScaled(i))
	}
	return params
}

// drawPass draws one render pass over every layer of every finalized
// model.
func (s *Scene) drawPass(fc *FrameContext, p Purpose, pass dtx.RenderPass, params drawParams) {
	r := s.cache.get(p)
	params.pass = pass
	for _, m := range s.models {
		if !m.finalized {
			continue
		}
		params.modelMatrix = m.matrix
		for _, l := range m.layers {
			r.draw(p, fc, l, params)
		}
	}
}

// Render renders the scene from an orbit camera and returns the color
// texture.
func (s *Scene) Render(cam *camera.OrbitCamera) uint32 {
	return s.RenderWithView(cam.ViewMatrix())
}

// RenderWithView renders the scene with a pre-computed view matrix.
func (s *Scene) RenderWithView(view math.Mat4) uint32 {
	cfg := s.config
	aspect := float32(cfg.Width) / float32(cfg.Height)
	proj := math.Perspective(cfg.FOV, aspect, cfg.Near, cfg.Far)

	invView := view.Inverse()
	eye := math.Vec3{X: invView[12], Y: invView[13], Z: invView[14]}

	fc := newFrameContext(view, proj, eye, cfg.Width, cfg.Height, cfg.Far, cfg.LogDepth)
	s.ensureRenderers()
	params := s.baseParams(view)

	gl.BindVertexArray(s.emptyVAO)

	// Ambient occlusion: packed depth pre-pass, then the estimate and
	// blur. The color pass samples the result.
	var saoTex uint32
	if s.sao != nil {
		restore := s.sao.DepthTarget().BindWithViewport()
		gl.ClearColor(0, 0, 0, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		s.drawPass(fc, PurposeDepth, dtx.PassColorOpaque, params)
		restore()

		tanHalfFov := float32(gomath.Tan(float64(cfg.FOV) / 2))
		s.sao.Process(cfg.Near, cfg.Far, tanHalfFov, aspect)
		saoTex = s.sao.OcclusionTexture()
	}

	restore := s.framebuffer.BindWithViewport()
	defer restore()

	bg := cfg.Background
	s.framebuffer.Clear(bg[0], bg[1], bg[2], 1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)

	// Opaque fills and edges.
	params.saoTexture = saoTex
	s.drawPass(fc, PurposeColor, dtx.PassColorOpaque, params)
	s.drawPass(fc, PurposeEdgesColor, dtx.PassEdgesColorOpaque, params)

	// Transparent fills and edges blend over the opaque result and
	// leave the depth buffer alone.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	s.drawPass(fc, PurposeColor, dtx.PassColorTransparent, params)
	s.drawPass(fc, PurposeEdgesColor, dtx.PassEdgesColorTransparent, params)

	// Emphasis overlays: translucent silhouette fills, then their edge
	// colors.
	params.silhouetteColor = s.XrayMaterial.FillColor
	s.drawPass(fc, PurposeSilhouette, dtx.PassSilhouetteXrayed, params)
	params.silhouetteColor = s.HighlightMaterial.FillColor
	s.drawPass(fc, PurposeSilhouette, dtx.PassSilhouetteHighlighted, params)
	params.silhouetteColor = s.SelectedMaterial.FillColor
	s.drawPass(fc, PurposeSilhouette, dtx.PassSilhouetteSelected, params)

	params.edgeColor = s.XrayMaterial.EdgeColor
	s.drawPass(fc, PurposeEdgesEmphasis, dtx.PassEdgesXrayed, params)
	params.edgeColor = s.HighlightMaterial.EdgeColor
	s.drawPass(fc, PurposeEdgesEmphasis, dtx.PassEdgesHighlighted, params)
	params.edgeColor = s.SelectedMaterial.EdgeColor
	s.drawPass(fc, PurposeEdgesEmphasis, dtx.PassEdgesSelected, params)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	s.rendered = true
	s.lastView = view
	s.lastProj = proj
	s.lastEye = eye
	s.lastStats = FrameStats{
		DrawCalls: fc.DrawCalls,
		Triangles: fc.Triangles,
		Edges:     fc.Edges,
	}
	return s.framebuffer.ColorTexture()
}

// LastFrame returns the draw counters of the last rendered frame.
func (s *Scene) LastFrame() FrameStats { return s.lastStats }

// pickContext rebuilds a frame context for the most recently rendered
// view. Queries before the first frame miss.
func (s *Scene) pickContext() (*FrameContext, bool) {
	if !s.rendered {
		return nil, false
	}
	cfg := s.config
	return newFrameContext(s.lastView, s.lastProj, s.lastEye, cfg.Width, cfg.Height, cfg.Far, cfg.LogDepth), true
}

// pickPixel converts canvas coordinates (origin top-left) to a pick
// buffer texel (origin bottom-left).
func (s *Scene) pickPixel(x, y int32) (int32, int32, bool) {
	px := x
	py := s.config.Height - 1 - y
	if px < 0 || px >= s.config.Width || py < 0 || py >= s.config.Height {
		return 0, 0, false
	}
	return px, py, true
}

// drawPickPass renders one pick-family purpose into a buffer, scissored
// to a small rectangle around the queried pixel.
func (s *Scene) drawPickPass(fb *framebuffer.Framebuffer, p Purpose, pass dtx.RenderPass, x, y, radius int32) {
	fc, ok := s.pickContext()
	if !ok {
		return
	}
	s.ensureRenderers()
	params := s.baseParams(s.lastView)

	gl.BindVertexArray(s.emptyVAO)
	restore := fb.BindWithViewport()
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x-radius, y-radius, radius*2+1, radius*2+1)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	s.drawPass(fc, p, pass, params)
	gl.Disable(gl.SCISSOR_TEST)
	restore()
}

// Pick resolves the entity under a canvas pixel against the most
// recently rendered view. Returns nil when nothing pickable is there.
func (s *Scene) Pick(x, y int32) *Entity {
	px, py, ok := s.pickPixel(x, y)
	if !ok || !s.rendered {
		return nil
	}
	s.drawPickPass(s.pickBuffer, PurposePick, dtx.PassPick, px, py, 0)
	pix := s.pickBuffer.ReadPixelsAt(px, py, 1, 1)
	if len(pix) < 4 {
		return nil
	}
	id := picking.DecodeID([4]uint8{pix[0], pix[1], pix[2], pix[3]})
	return s.EntityByPickID(id)
}

// PickWorldPosition returns the world position under a canvas pixel,
// read from a packed-depth render of the pick channel.
func (s *Scene) PickWorldPosition(x, y int32) ([3]float32, bool) {
	px, py, ok := s.pickPixel(x, y)
	if !ok || !s.rendered {
		return [3]float32{}, false
	}
	s.drawPickPass(s.pickBuffer, PurposePickDepth, dtx.PassPick, px, py, 0)
	pix := s.pickBuffer.ReadPixelsAt(px, py, 1, 1)
	if len(pix) < 4 {
		return [3]float32{}, false
	}
	depth := picking.UnpackDepth([4]uint8{pix[0], pix[1], pix[2], pix[3]})
	if depth <= 0 {
		return [3]float32{}, false
	}

	cfg := s.config
	viewZ := cfg.Near + depth*(cfg.Far-cfg.Near)
	aspect := float32(cfg.Width) / float32(cfg.Height)
	tanHalfFov := float32(gomath.Tan(float64(cfg.FOV) / 2))
	ndcX := (float32(px)+0.5)/float32(cfg.Width)*2 - 1
	ndcY := (float32(py)+0.5)/float32(cfg.Height)*2 - 1

	viewPos := [3]float32{
		ndcX * tanHalfFov * aspect * viewZ,
		ndcY * tanHalfFov * viewZ,
		-viewZ,
	}
	return s.lastView.Inverse().TransformPoint(viewPos), true
}

// PickWorldNormal returns the face normal under a canvas pixel.
func (s *Scene) PickWorldNormal(x, y int32) ([3]float32, bool) {
	px, py, ok := s.pickPixel(x, y)
	if !ok || !s.rendered {
		return [3]float32{}, false
	}
	s.drawPickPass(s.pickBuffer, PurposePickNormals, dtx.PassPick, px, py, 0)
	pix := s.pickBuffer.ReadPixelsAt(px, py, 1, 1)
	if len(pix) < 4 || pix[3] == 0 {
		return [3]float32{}, false
	}
	n := [3]float32{
		float32(pix[0])/255*2 - 1,
		float32(pix[1])/255*2 - 1,
		float32(pix[2])/255*2 - 1,
	}
	len3 := float32(gomath.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
	if len3 == 0 {
		return [3]float32{}, false
	}
	return [3]float32{n[0] / len3, n[1] / len3, n[2] / len3}, true
}

// PickRay returns the world-space ray through a canvas pixel for the
// most recently rendered view.
func (s *Scene) PickRay(x, y int32) (picking.Ray, bool) {
	if !s.rendered {
		return picking.Ray{}, false
	}
	cfg := s.config
	inv := s.lastProj.Mul(s.lastView).Inverse()
	return picking.ScreenToRay(float32(x), float32(y), float32(cfg.Width), float32(cfg.Height), inv), true
}

// Snap finds the nearest vertex or edge within radius pixels of a
// canvas position. Pickable geometry rasterizes eye-relative
// coordinates into the float buffer; the closest written pixel wins.
func (s *Scene) Snap(x, y, radius int32, mode SnapMode) SnapResult {
	px, py, ok := s.pickPixel(x, y)
	if !ok || !s.rendered {
		return SnapResult{}
	}
	if radius < 1 {
		radius = 1
	}

	purpose := PurposeSnap
	if mode == SnapEdge {
		purpose = PurposeSnapEdges
	}
	s.drawPickPass(s.snapBuffer, purpose, dtx.PassSnap, px, py, radius)

	x0 := maxI32(px-radius, 0)
	y0 := maxI32(py-radius, 0)
	x1 := minI32(px+radius, s.config.Width-1)
	y1 := minI32(py+radius, s.config.Height-1)
	w := x1 - x0 + 1
	h := y1 - y0 + 1
	vals := s.snapBuffer.ReadFloatsAt(x0, y0, w, h)
	if len(vals) < int(w*h)*4 {
		return SnapResult{}
	}

	best := int64(-1)
	var bestPos [3]float32
	for row := int32(0); row < h; row++ {
		for col := int32(0); col < w; col++ {
			i := (row*w + col) * 4
			if vals[i+3] == 0 {
				continue
			}
			dx := int64(x0 + col - px)
			dy := int64(y0 + row - py)
			d := dx*dx + dy*dy
			if best < 0 || d < best {
				best = d
				bestPos = [3]float32{vals[i], vals[i+1], vals[i+2]}
			}
		}
	}
	if best < 0 {
		return SnapResult{}
	}
	// Coordinates came back eye-relative, layer origins cancel out.
	return SnapResult{
		WorldPos: [3]float32{
			bestPos[0] + s.lastEye.X,
			bestPos[1] + s.lastEye.Y,
			bestPos[2] + s.lastEye.Z,
		},
		Snapped: true,
	}
}

// TestOcclusion reports, per world-space marker, whether opaque
// geometry hides it in the most recently rendered view.
func (s *Scene) TestOcclusion(markers [][3]float32) []bool {
	out := make([]bool, len(markers))
	fc, ok := s.pickContext()
	if !ok {
		return out
	}
	s.ensureRenderers()
	params := s.baseParams(s.lastView)

	gl.BindVertexArray(s.emptyVAO)
	restore := s.pickBuffer.BindWithViewport()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	s.drawPass(fc, PurposeOcclusion, dtx.PassOcclusion, params)
	restore()

	viewProj := s.lastProj.Mul(s.lastView)
	for i, marker := range markers {
		clip := viewProj.MulVec4(math.Vec4{marker[0], marker[1], marker[2], 1})
		if clip[3] <= 0 {
			continue
		}
		ndcX := clip[0] / clip[3]
		ndcY := clip[1] / clip[3]
		px := int32((ndcX*0.5 + 0.5) * float32(s.config.Width))
		py := int32((ndcY*0.5 + 0.5) * float32(s.config.Height))
		if px < 0 || px >= s.config.Width || py < 0 || py >= s.config.Height {
			continue
		}

		var markerDepth float32
		if s.config.LogDepth {
			markerDepth = float32(gomath.Log2(float64(1+clip[3]))) * fc.LogDepthFC * 0.5
		} else {
			markerDepth = (clip[2]/clip[3])*0.5 + 0.5
		}

		depths := s.pickBuffer.ReadDepthAt(px, py, 1, 1)
		if len(depths) < 1 {
			continue
		}
		out[i] = markerDepth <= depths[0]+occlusionEpsilon
	}
	return out
}

// Resize updates the render targets to a new viewport size.
func (s *Scene) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.framebuffer.Resize(width, height)
	s.pickBuffer.Resize(width, height)
	s.snapBuffer.Resize(width, height)
	if s.sao != nil {
		s.sao.Resize(width, height)
	}
}

// ColorTexture returns the display color attachment.
func (s *Scene) ColorTexture() uint32 {
	return s.framebuffer.ColorTexture()
}

// CaptureImage reads back the rendered frame as RGBA in GL row
// order, bottom row first. Callers writing image files flip it.
func (s *Scene) CaptureImage() ([]byte, int32, int32) {
	w, h := s.framebuffer.Size()
	return s.framebuffer.ReadPixels(), w, h
}

// Destroy releases every model, renderer and render target.
func (s *Scene) Destroy() {
	for _, m := range s.models {
		m.Destroy()
	}
	s.models = nil
	s.modelsByID = map[string]*Model{}

	if s.cache != nil {
		s.cache.destroy()
		s.cache = nil
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
		s.framebuffer = nil
	}
	if s.pickBuffer != nil {
		s.pickBuffer.Destroy()
		s.pickBuffer = nil
	}
	if s.snapBuffer != nil {
		s.snapBuffer.Destroy()
		s.snapBuffer = nil
	}
	if s.sao != nil {
		s.sao.Destroy()
		s.sao = nil
	}
	if s.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &s.emptyVAO)
		s.emptyVAO = 0
	}
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
