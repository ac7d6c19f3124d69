// Package shape generates procedural triangle meshes for demo scenes
// and tests.
package shape

import (
	gomath "math"
)

// Mesh is an indexed triangle list, ready for geometry registration.
type Mesh struct {
	Positions []float32
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Box returns an axis-aligned box centered at the origin. Corners are
// shared; face normals come from flat shading.
func Box(width, height, depth float32) Mesh {
	w := width / 2
	h := height / 2
	d := depth / 2
	return Mesh{
		Positions: []float32{
			-w, -h, -d,
			w, -h, -d,
			w, h, -d,
			-w, h, -d,
			-w, -h, d,
			w, -h, d,
			w, h, d,
			-w, h, d,
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 4, 7, 0, 7, 3, // left
			1, 6, 5, 1, 2, 6, // right
			3, 7, 6, 3, 6, 2, // top
			0, 1, 5, 0, 5, 4, // bottom
		},
	}
}

// Sphere returns a latitude-longitude sphere centered at the origin.
// segments is clamped to at least 3 and rings to at least 2; pole
// slivers are dropped.
func Sphere(radius float32, segments, rings int) Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var m Mesh
	for r := 0; r <= rings; r++ {
		phi := gomath.Pi * float64(r) / float64(rings)
		y := gomath.Cos(phi)
		ringRadius := gomath.Sin(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * gomath.Pi * float64(s) / float64(segments)
			m.Positions = append(m.Positions,
				radius*float32(ringRadius*gomath.Cos(theta)),
				radius*float32(y),
				radius*float32(ringRadius*gomath.Sin(theta)),
			)
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			i0 := uint32(r)*stride + uint32(s)
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			if r > 0 {
				m.Indices = append(m.Indices, i0, i2, i1)
			}
			if r < rings-1 {
				m.Indices = append(m.Indices, i1, i2, i3)
			}
		}
	}
	return m
}
