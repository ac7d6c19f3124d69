// Package picking resolves pick-buffer readbacks into entities and
// casts cursor rays for CPU-side queries when the GPU pick misses.
package picking

import (
	gomath "math"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin math.Vec3
	Dir    math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// ScreenToRay builds the world-space ray through a canvas pixel.
// x and y are canvas coordinates with the origin at top-left, and
// invViewProj is the inverted projection*view matrix. The origin sits
// on the near plane.
func ScreenToRay(x, y, width, height float32, invViewProj math.Mat4) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height // canvas y grows down, NDC y grows up

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, clip math.Vec4) math.Vec3 {
	w := inv.MulVec4(clip)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// HitPlaneY intersects the ray with the horizontal plane at the given
// height. Misses when the ray is parallel to the plane or the plane
// lies behind the origin.
func (r Ray) HitPlaneY(planeY float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Dir.Y)) < 1e-6 {
		return math.Vec3{}, false
	}
	t := (planeY - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// HitBounds runs a slab test against an axis-aligned box. Returns the
// entry distance, or the exit distance when the origin is inside the
// box.
func (r Ray) HitBounds(b geometry.Bounds) (float32, bool) {
	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Dir.X, r.Dir.Y, r.Dir.Z}

	tmin := float32(gomath.Inf(-1))
	tmax := float32(gomath.Inf(1))
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[i] - origin[i]) / dir[i]
		t2 := (b.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
