package picking

import (
	gomath "math"
	"testing"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

func testInvViewProj() math.Mat4 {
	view := math.LookAt(
		math.Vec3{Z: 10},
		math.Vec3{},
		math.Vec3{Y: 1},
	)
	proj := math.Perspective(1.0, 800.0/600.0, 0.1, 100)
	return proj.Mul(view).Inverse()
}

func TestScreenToRayCenter(t *testing.T) {
	r := ScreenToRay(400, 300, 800, 600, testInvViewProj())

	// The center pixel looks straight down the view axis.
	if gomath.Abs(float64(r.Dir.X)) > 1e-4 || gomath.Abs(float64(r.Dir.Y)) > 1e-4 {
		t.Errorf("center ray dir = %+v, want axis-aligned", r.Dir)
	}
	if r.Dir.Z > -0.999 {
		t.Errorf("center ray dir.Z = %v, want -1", r.Dir.Z)
	}
	// Origin sits on the near plane in front of the eye at z=10.
	if gomath.Abs(float64(r.Origin.Z-9.9)) > 0.01 {
		t.Errorf("center ray origin.Z = %v, want 9.9", r.Origin.Z)
	}
}

func TestScreenToRayFlipsY(t *testing.T) {
	inv := testInvViewProj()
	top := ScreenToRay(400, 0, 800, 600, inv)
	if top.Dir.Y <= 0 {
		t.Errorf("top pixel dir.Y = %v, want > 0", top.Dir.Y)
	}
	right := ScreenToRay(800, 300, 800, 600, inv)
	if right.Dir.X <= 0 {
		t.Errorf("right pixel dir.X = %v, want > 0", right.Dir.X)
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 1, Y: 2, Z: 3}, Dir: math.Vec3{Z: -1}}
	got := r.At(2)
	want := math.Vec3{X: 1, Y: 2, Z: 1}
	if got != want {
		t.Errorf("At(2) = %+v, want %+v", got, want)
	}
}

func TestHitPlaneY(t *testing.T) {
	down := Ray{Origin: math.Vec3{X: 2, Y: 10, Z: 3}, Dir: math.Vec3{Y: -1}}
	p, ok := down.HitPlaneY(0)
	if !ok {
		t.Fatal("downward ray missed the ground plane")
	}
	if p.X != 2 || p.Y != 0 || p.Z != 3 {
		t.Errorf("hit point = %+v, want (2, 0, 3)", p)
	}

	parallel := Ray{Origin: math.Vec3{Y: 10}, Dir: math.Vec3{X: 1}}
	if _, ok := parallel.HitPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}

	away := Ray{Origin: math.Vec3{Y: 10}, Dir: math.Vec3{Y: 1}}
	if _, ok := away.HitPlaneY(0); ok {
		t.Error("plane behind origin should miss")
	}
}

func TestHitBounds(t *testing.T) {
	box := geometry.Bounds{
		Min: [3]float32{-1, -1, -1},
		Max: [3]float32{1, 1, 1},
	}

	front := Ray{Origin: math.Vec3{Z: 5}, Dir: math.Vec3{Z: -1}}
	tEnter, hit := front.HitBounds(box)
	if !hit {
		t.Fatal("frontal ray missed the box")
	}
	if gomath.Abs(float64(tEnter-4)) > 1e-5 {
		t.Errorf("entry distance = %v, want 4", tEnter)
	}

	inside := Ray{Dir: math.Vec3{Z: -1}}
	tExit, hit := inside.HitBounds(box)
	if !hit {
		t.Fatal("ray starting inside missed the box")
	}
	if gomath.Abs(float64(tExit-1)) > 1e-5 {
		t.Errorf("exit distance = %v, want 1", tExit)
	}

	beside := Ray{Origin: math.Vec3{X: 5, Z: 5}, Dir: math.Vec3{Z: -1}}
	if _, hit := beside.HitBounds(box); hit {
		t.Error("ray beside the box should miss")
	}

	behind := Ray{Origin: math.Vec3{Z: -5}, Dir: math.Vec3{Z: -1}}
	if _, hit := behind.HitBounds(box); hit {
		t.Error("box behind the ray should miss")
	}

	if _, hit := front.HitBounds(geometry.EmptyBounds()); hit {
		t.Error("empty bounds should miss")
	}
}
