package scene

import (
	gomath "math"

	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// FrameContext carries the state shared by every layer draw of one
// frame: matrices, the eye position, the viewport, and the frame's
// draw counters.
type FrameContext struct {
	View math.Mat4
	Proj math.Mat4
	Eye  math.Vec3

	ViewportW int32
	ViewportH int32

	// LogDepthFC is the logarithmic depth coefficient, zero when the
	// log depth buffer is disabled.
	LogDepthFC float32

	rtcViews map[[3]float64]math.Mat4

	// Draw counters, accumulated across passes.
	DrawCalls int
	Triangles int // submitted triangles, padding included
	Edges     int // submitted edges, padding included
}

func newFrameContext(view, proj math.Mat4, eye math.Vec3, w, h int32, far float32, logDepth bool) *FrameContext {
	fc := &FrameContext{
		View:      view,
		Proj:      proj,
		Eye:       eye,
		ViewportW: w,
		ViewportH: h,
		rtcViews:  make(map[[3]float64]math.Mat4),
	}
	if logDepth {
		fc.LogDepthFC = 2.0 / float32(gomath.Log2(float64(far)+1.0))
	}
	return fc
}

// RTCView returns the view matrix rebased to a layer origin, cached
// per origin for the frame. Layers at the zero origin use the plain
// view matrix.
func (fc *FrameContext) RTCView(origin [3]float64) math.Mat4 {
	if origin == ([3]float64{}) {
		return fc.View
	}
	if m, ok := fc.rtcViews[origin]; ok {
		return m
	}
	m := math.RTCViewMatrix(fc.View, origin)
	fc.rtcViews[origin] = m
	return m
}

// EyeRTC returns the eye position relative to a layer origin. The
// subtraction runs in float64 so distant origins cancel before the
// float32 narrowing.
func (fc *FrameContext) EyeRTC(origin [3]float64) [3]float32 {
	return [3]float32{
		float32(float64(fc.Eye.X) - origin[0]),
		float32(float64(fc.Eye.Y) - origin[1]),
		float32(float64(fc.Eye.Z) - origin[2]),
	}
}
