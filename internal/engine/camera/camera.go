// Package camera provides the viewer's navigation cameras.
package camera

import (
	gomath "math"

	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// OrbitCamera orbits around a center point. Every interaction marks
// the camera as moved; the render loop consumes that flag to drive
// level-of-detail culling, which only acts while the view changes.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	moved bool
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     1.0,
		MaxDistance:     5000.0,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
	c.moved = true
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
	c.moved = true
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	if forward == 0 && right == 0 && up == 0 {
		return
	}

	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))

	// Right direction (perpendicular to forward)
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Negate forward so pushing forward moves into the scene
	c.CenterX += (-dirX*forward + rightX*right) * speed
	c.CenterZ += (-dirZ*forward + rightZ*right) * speed
	c.CenterY += up * speed
	c.moved = true
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
	c.moved = true
}

// FitToBounds frames the given bounding box: center on it and back
// off far enough to see the whole diagonal.
func (c *OrbitCamera) FitToBounds(minX, minY, minZ, maxX, maxY, maxZ float32) {
	c.CenterX = (minX + maxX) / 2
	c.CenterY = (minY + maxY) / 2
	c.CenterZ = (minZ + maxZ) / 2

	dx := float64(maxX - minX)
	dy := float64(maxY - minY)
	dz := float64(maxZ - minZ)
	diagonal := float32(gomath.Sqrt(dx*dx + dy*dy + dz*dz))

	c.Distance = diagonal * 1.2
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
	c.moved = true
}

// ConsumeMotion reports whether the camera changed since the last
// call and clears the flag. Called once per frame tick.
func (c *OrbitCamera) ConsumeMotion() bool {
	moved := c.moved
	c.moved = false
	return moved
}

// FlyCamera is a free first-person camera: walk through large models
// instead of orbiting them.
type FlyCamera struct {
	Pos   math.Vec3
	Yaw   float32 // Horizontal angle (radians), 0 looks down -Z
	Pitch float32 // Vertical angle (radians)

	MinPitch float32
	MaxPitch float32

	MoveSpeed       float32 // units per move step
	LookSensitivity float32

	moved bool
}

// NewFlyCamera creates a fly camera with default settings.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Pos:             math.Vec3{X: 0, Y: 50, Z: 200},
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		MoveSpeed:       2.0,
		LookSensitivity: 0.003,
	}
}

// Forward returns the view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	return math.Vec3{
		X: float32(-cp * gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: float32(-cp * gomath.Cos(float64(c.Yaw))),
	}
}

// Right returns the strafe direction on the XZ plane.
func (c *FlyCamera) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Y: 0,
		Z: float32(-gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Pos, c.Pos.Add(c.Forward()), up)
}

// HandleLook turns the camera by a mouse delta.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.LookSensitivity
	c.Pitch -= deltaY * c.LookSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
	c.moved = true
}

// HandleMove translates the camera along its own axes.
func (c *FlyCamera) HandleMove(forward, right, up float32) {
	if forward == 0 && right == 0 && up == 0 {
		return
	}
	delta := c.Forward().Scale(forward * c.MoveSpeed).
		Add(c.Right().Scale(right * c.MoveSpeed)).
		Add(math.Vec3{Y: up * c.MoveSpeed})
	c.Pos = c.Pos.Add(delta)
	c.moved = true
}

// ConsumeMotion reports whether the camera changed since the last
// call and clears the flag.
func (c *FlyCamera) ConsumeMotion() bool {
	moved := c.moved
	c.moved = false
	return moved
}
