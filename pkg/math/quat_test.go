package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	// Should have Y component and W = cos(45deg)
	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatMul(t *testing.T) {
	// Two 45 degree Y rotations should combine into a 90 degree one
	half := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/4))
	full := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	combined := half.Mul(half)
	if math.Abs(float64(combined.W-full.W)) > 0.001 || math.Abs(float64(combined.Y-full.Y)) > 0.001 {
		t.Errorf("Quat.Mul: got (%v,%v,%v,%v), want (%v,%v,%v,%v)",
			combined.X, combined.Y, combined.Z, combined.W, full.X, full.Y, full.Z, full.W)
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.7)
	result := q.Mul(QuatIdentity())

	if math.Abs(float64(result.X-q.X)) > 0.0001 ||
		math.Abs(float64(result.Y-q.Y)) > 0.0001 ||
		math.Abs(float64(result.Z-q.Z)) > 0.0001 ||
		math.Abs(float64(result.W-q.W)) > 0.0001 {
		t.Errorf("q * identity should equal q, got (%v,%v,%v,%v)", result.X, result.Y, result.Z, result.W)
	}
}
