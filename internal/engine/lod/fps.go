// Package lod holds frame rate near a target by culling scene objects
// in triangle-count buckets, heaviest first. A tracker estimates the
// achieved frame rate and drives one culling manager per model.
package lod

import (
	"time"
)

// fpsWindowSize is the number of inter-frame intervals averaged into
// the frame rate estimate.
const fpsWindowSize = 4

// UnknownFPS is returned until enough frames have been sampled.
const UnknownFPS = -1

// FrameRateTracker estimates the achieved frame rate from frame tick
// timestamps and fans each tick out to the attached culling managers.
// One tracker serves a viewer session; managers attach when their
// model loads and detach when it is destroyed.
type FrameRateTracker struct {
	intervals [fpsWindowSize]float64 // milliseconds
	count     int
	next      int
	last      time.Time
	started   bool

	managers []*CullingManager
}

// NewFrameRateTracker returns a tracker with an empty sample window.
func NewFrameRateTracker() *FrameRateTracker {
	return &FrameRateTracker{}
}

// Attach subscribes a culling manager to frame ticks.
func (t *FrameRateTracker) Attach(m *CullingManager) {
	t.managers = append(t.managers, m)
}

// Detach unsubscribes a culling manager.
func (t *FrameRateTracker) Detach(m *CullingManager) {
	for i, other := range t.managers {
		if other == m {
			t.managers = append(t.managers[:i], t.managers[i+1:]...)
			return
		}
	}
}

// Tick records a frame boundary and advances every attached manager.
// cameraMoved reports whether the camera changed since the last tick;
// culling only applies while the camera is in motion.
func (t *FrameRateTracker) Tick(now time.Time, cameraMoved bool) {
	if t.started {
		t.sample(float64(now.Sub(t.last)) / float64(time.Millisecond))
	}
	t.last = now
	t.started = true

	fps := t.FPS()
	for _, m := range t.managers {
		m.tick(fps, cameraMoved)
	}
}

// sample pushes one inter-frame interval into the rolling window.
func (t *FrameRateTracker) sample(intervalMS float64) {
	t.intervals[t.next] = intervalMS
	t.next = (t.next + 1) % fpsWindowSize
	if t.count < fpsWindowSize {
		t.count++
	}
}

// FPS returns the frame rate over the sample window, or UnknownFPS
// until the window has filled. Callers must not make culling decisions
// on an unknown rate.
func (t *FrameRateTracker) FPS() float64 {
	if t.count < fpsWindowSize {
		return UnknownFPS
	}
	var sum float64
	for _, v := range t.intervals {
		sum += v
	}
	if sum <= 0 {
		return UnknownFPS
	}
	return fpsWindowSize / sum * 1000
}

// Reset clears the sample window, for pauses that would otherwise
// record one giant interval.
func (t *FrameRateTracker) Reset() {
	t.count = 0
	t.next = 0
	t.started = false
}
