// Package viewer runs the interactive model viewer: it owns the window,
// the cameras, the scene and the LOD controller, and drives the frame
// loop that ties them together.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/config"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/camera"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/input"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/lighting"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/lod"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/renderer"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/scene"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/window"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
	"github.com/xeokit/xeokit-sdk-sub013/internal/stats"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

const windowTitle = "DTX Viewer"

// statsInterval is the frame cadence of the metrics feed.
const statsInterval = 30

// Viewer is the running application.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	scene    *scene.Scene
	input    *input.Input

	model *scene.Model

	orbit   *camera.OrbitCamera
	fly     *camera.FlyCamera
	flyMode bool

	tracker *lod.FrameRateTracker
	culling *lod.CullingManager
	stats   *stats.Server

	keysDown map[sdl.Scancode]bool
	dragging bool
	mouseX   int
	mouseY   int

	edges bool
	xray  bool
	frame uint64
}

// New builds the whole viewer: window and GL context, scene with the
// generated demo model, cameras framed on it, and the optional LOD and
// stats machinery.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		keysDown: make(map[sdl.Scancode]bool),
		edges:    cfg.Scene.Edges,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// Renderer initializes GL; everything GL-dependent comes after.
	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	sceneCfg := scene.DefaultConfig()
	sceneCfg.Width = int32(cfg.Graphics.Width)
	sceneCfg.Height = int32(cfg.Graphics.Height)
	sceneCfg.LogDepth = cfg.Graphics.LogDepth
	sceneCfg.SAOEnabled = cfg.Graphics.SAO
	v.scene, err = scene.New(sceneCfg)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	v.scene.Lights = lighting.SunRig(140, 55)

	v.model, err = buildDemoModel(v.scene, cfg.Scene)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("building demo model: %w", err)
	}
	if err := v.model.Upload(); err != nil {
		v.Close()
		return nil, fmt.Errorf("uploading demo model: %w", err)
	}
	logger.Info("demo model ready",
		zap.Int("entities", len(v.model.Entities())),
		zap.Int("layers", len(v.model.Layers())),
	)

	v.input = input.New()
	v.setupCameras()
	v.setupLOD()

	if cfg.Stats.Enabled {
		v.stats = stats.New(cfg.Stats.ListenAddr)
		v.stats.Start()
	}

	return v, nil
}

func (v *Viewer) setupCameras() {
	v.orbit = camera.NewOrbitCamera()
	v.fly = camera.NewFlyCamera()

	b := v.scene.AABB()
	if b.Empty() {
		return
	}
	v.orbit.FitToBounds(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])

	// Street level at the near edge, looking into the block.
	c := b.Center()
	v.fly.Pos.X = c[0]
	v.fly.Pos.Y = b.Min[1] + 12
	v.fly.Pos.Z = b.Max[2] + 40
	v.fly.Yaw = 0
	v.fly.Pitch = 0
}

func (v *Viewer) setupLOD() {
	if !v.cfg.LOD.Enabled {
		return
	}
	entities := v.model.Entities()
	objects := make([]lod.Object, 0, len(entities))
	for _, e := range entities {
		objects = append(objects, e)
	}
	v.culling = lod.NewCullingManager(objects, lod.Config{
		TargetFPS: v.cfg.LOD.TargetFPS,
		Levels:    v.cfg.LOD.Thresholds,
	})
	v.tracker = lod.NewFrameRateTracker()
	v.tracker.Attach(v.culling)
	logger.Info("LOD culling enabled",
		zap.Float64("targetFPS", v.culling.TargetFPS()),
		zap.Ints("thresholds", v.cfg.LOD.Thresholds),
	)
}

// Run drives the frame loop until quit.
func (v *Viewer) Run() error {
	v.running = true

	var frameDur time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameDur = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	logger.Info("starting viewer loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if v.input.Update() {
			break
		}
		switched := v.handleEvents()
		v.handleHeldKeys(dt)

		moved := v.activeConsumeMotion() || switched
		if v.tracker != nil {
			v.tracker.Tick(frameStart, moved)
		}

		texture := v.scene.RenderWithView(v.activeView())
		v.renderer.Present(texture)
		v.window.SwapBuffers()

		v.frame++
		v.publishStats()

		if frameDur > 0 {
			if elapsed := time.Since(frameStart); elapsed < frameDur {
				time.Sleep(frameDur - elapsed)
			}
		}
	}
	return nil
}

func (v *Viewer) activeView() math.Mat4 {
	if v.flyMode {
		return v.fly.ViewMatrix()
	}
	return v.orbit.ViewMatrix()
}

func (v *Viewer) activeConsumeMotion() bool {
	if v.flyMode {
		return v.fly.ConsumeMotion()
	}
	return v.orbit.ConsumeMotion()
}

// handleEvents drains the input queue. Returns true if the active
// camera was switched, which counts as view motion.
func (v *Viewer) handleEvents() bool {
	switched := false
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.renderer.Resize(e.Width, e.Height)
			v.scene.Resize(int32(e.Width), int32(e.Height))

		case input.EventKeyDown:
			v.keysDown[e.Key] = true
			if v.handleKeyPress(e.Key) {
				switched = true
			}

		case input.EventKeyUp:
			delete(v.keysDown, e.Key)

		case input.EventMouseDown:
			v.mouseX, v.mouseY = e.MouseX, e.MouseY
			switch e.Button {
			case sdl.BUTTON_LEFT:
				v.dragging = true
			case sdl.BUTTON_MIDDLE:
				if !v.flyMode {
					v.setPivotAtCursor()
				}
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}

		case input.EventMouseMove:
			v.mouseX, v.mouseY = e.MouseX, e.MouseY
			if v.dragging {
				if v.flyMode {
					v.fly.HandleLook(float32(e.RelX), float32(e.RelY))
				} else {
					v.orbit.HandleDrag(float32(e.RelX), float32(e.RelY))
				}
			}

		case input.EventMouseWheel:
			if v.flyMode {
				v.fly.HandleMove(float32(e.WheelY)*4, 0, 0)
			} else {
				v.orbit.HandleZoom(float32(e.WheelY))
			}
		}
	}
	return switched
}

// handleKeyPress reacts to one-shot keys. Returns true when the camera
// mode changed.
func (v *Viewer) handleKeyPress(key sdl.Scancode) bool {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_F:
		v.flyMode = !v.flyMode
		logger.Info("camera mode", zap.Bool("fly", v.flyMode))
		return true

	case sdl.SCANCODE_R:
		b := v.scene.AABB()
		if !b.Empty() {
			v.orbit.FitToBounds(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		}

	case sdl.SCANCODE_P:
		v.pickAtCursor()

	case sdl.SCANCODE_X:
		v.xray = !v.xray
		for _, e := range v.model.Entities() {
			e.SetXrayed(v.xray && !e.Selected())
		}
		logger.Info("x-ray mode", zap.Bool("on", v.xray))

	case sdl.SCANCODE_E:
		v.edges = !v.edges
		for _, e := range v.model.Entities() {
			e.SetEdges(v.edges)
		}
		logger.Info("edge overlay", zap.Bool("on", v.edges))

	case sdl.SCANCODE_C, sdl.SCANCODE_F12:
		v.captureScreenshot()
	}
	return false
}

// handleHeldKeys applies continuous movement. Scaled by dt so speed is
// frame rate independent.
func (v *Viewer) handleHeldKeys(dt float64) {
	var forward, right, up float32
	if v.keysDown[sdl.SCANCODE_W] {
		forward++
	}
	if v.keysDown[sdl.SCANCODE_S] {
		forward--
	}
	if v.keysDown[sdl.SCANCODE_D] {
		right++
	}
	if v.keysDown[sdl.SCANCODE_A] {
		right--
	}
	if v.keysDown[sdl.SCANCODE_SPACE] {
		up++
	}
	if v.keysDown[sdl.SCANCODE_LSHIFT] {
		up--
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}

	step := float32(dt * 60)
	if v.flyMode {
		v.fly.HandleMove(forward*step, right*step, up*step)
	} else {
		v.orbit.HandleMovement(forward*step, right*step, up*step)
	}
}

// pickAtCursor picks the entity under the mouse and toggles its
// selection.
func (v *Viewer) pickAtCursor() {
	x, y := int32(v.mouseX), int32(v.mouseY)
	e := v.scene.Pick(x, y)
	if e == nil {
		logger.Debug("pick missed", zap.Int32("x", x), zap.Int32("y", y))
		return
	}
	e.SetSelected(!e.Selected())

	fields := []zap.Field{
		zap.String("entity", e.ID()),
		zap.Int("triangles", e.TriangleCount()),
		zap.Bool("selected", e.Selected()),
	}
	if pos, ok := v.scene.PickWorldPosition(x, y); ok {
		fields = append(fields,
			zap.Float32("x", pos[0]),
			zap.Float32("y", pos[1]),
			zap.Float32("z", pos[2]),
		)
	}
	logger.Info("picked", fields...)
}

// setPivotAtCursor re-centers the orbit camera on the point under the
// mouse. Prefers the exact surface point from the depth pick; when the
// cursor is over empty space the pivot falls back to where the cursor
// ray enters the model bounds, then to the ground plane.
func (v *Viewer) setPivotAtCursor() {
	x, y := int32(v.mouseX), int32(v.mouseY)
	if pos, ok := v.scene.PickWorldPosition(x, y); ok {
		v.orbit.SetCenter(pos[0], pos[1], pos[2])
		return
	}
	ray, ok := v.scene.PickRay(x, y)
	if !ok {
		return
	}
	if t, hit := ray.HitBounds(v.scene.AABB()); hit {
		p := ray.At(t)
		v.orbit.SetCenter(p.X, p.Y, p.Z)
		return
	}
	if p, hit := ray.HitPlaneY(0); hit {
		v.orbit.SetCenter(p.X, p.Y, p.Z)
	}
}

func (v *Viewer) captureScreenshot() {
	pixels, w, h := v.scene.CaptureImage()
	stamp := time.Now().Format("2006-01-02_15-04-05")
	name, err := saveScreenshot(pixels, int(w), int(h), stamp)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) publishStats() {
	if v.stats == nil || v.frame%statsInterval != 0 {
		return
	}
	last := v.scene.LastFrame()
	f := stats.Frame{DrawCalls: last.DrawCalls, Triangles: last.Triangles, Frame: v.frame}
	if v.tracker != nil {
		f.FPS = v.tracker.FPS()
	}
	if v.culling != nil {
		f.LodLevel = v.culling.LodLevelIndex()
		f.CulledObjects = v.culling.CulledObjects()
	}
	v.stats.Publish(f)
}

// Close tears the viewer down in reverse creation order.
func (v *Viewer) Close() {
	if v.stats != nil {
		v.stats.Close()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
