// Package lighting provides the light rig for scene rendering.
package lighting

import (
	"fmt"

	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// MaxDirLights is the maximum number of directional lights compiled
// into the color shaders.
const MaxDirLights = 4

// DirLight is one directional light. Dir points from the light toward
// the scene, in world space.
type DirLight struct {
	Dir       [3]float32
	Color     [3]float32 // 0-1 range
	Intensity float32
}

// Rig holds the ambient term and directional lights of a scene. The
// light count is part of the renderer cache key, so programs recompile
// when lights are added or removed but not when they merely move.
type Rig struct {
	Ambient          [3]float32
	AmbientIntensity float32
	lights           []DirLight
}

// DefaultRig returns a rig with a neutral ambient term and two
// directional fills, one warm from the upper left and one cool from
// the lower right.
func DefaultRig() *Rig {
	r := &Rig{
		Ambient:          [3]float32{1.0, 1.0, 1.0},
		AmbientIntensity: 0.3,
	}
	r.Add(DirLight{
		Dir:       [3]float32{0.8, -0.6, -0.8},
		Color:     [3]float32{1.0, 1.0, 0.95},
		Intensity: 0.9,
	})
	r.Add(DirLight{
		Dir:       [3]float32{-0.5, -0.3, 0.6},
		Color:     [3]float32{0.8, 0.85, 1.0},
		Intensity: 0.5,
	})
	return r
}

// Add appends a directional light. Returns false if the rig is full.
func (r *Rig) Add(light DirLight) bool {
	if len(r.lights) >= MaxDirLights {
		return false
	}
	r.lights = append(r.lights, light)
	return true
}

// SetLights replaces all lights, truncating to MaxDirLights.
func (r *Rig) SetLights(lights []DirLight) {
	count := len(lights)
	if count > MaxDirLights {
		count = MaxDirLights
	}
	r.lights = append(r.lights[:0], lights[:count]...)
}

// Clear removes all directional lights.
func (r *Rig) Clear() {
	r.lights = r.lights[:0]
}

// Count returns the number of directional lights.
func (r *Rig) Count() int {
	return len(r.lights)
}

// Light returns light i.
func (r *Rig) Light(i int) DirLight {
	return r.lights[i]
}

// AmbientScaled returns the ambient color premultiplied by its
// intensity, as the shaders consume it.
func (r *Rig) AmbientScaled() [3]float32 {
	return [3]float32{
		r.Ambient[0] * r.AmbientIntensity,
		r.Ambient[1] * r.AmbientIntensity,
		r.Ambient[2] * r.AmbientIntensity,
	}
}

// ColorScaled returns light i's color premultiplied by intensity.
func (r *Rig) ColorScaled(i int) [3]float32 {
	l := r.lights[i]
	return [3]float32{
		l.Color[0] * l.Intensity,
		l.Color[1] * l.Intensity,
		l.Color[2] * l.Intensity,
	}
}

// ViewDir returns light i's direction transformed into view space,
// where the color shaders evaluate it against derivative normals.
func (r *Rig) ViewDir(i int, view math.Mat4) [3]float32 {
	return view.TransformDirection(r.lights[i].Dir)
}

// Hash identifies the rig state that forces a shader rebuild.
func (r *Rig) Hash() string {
	return fmt.Sprintf("lights:%d", len(r.lights))
}
