// Package geometry provides CPU-side geometry preparation for the
// data-texture renderer: bounds tracking, position quantization and
// edge index derivation.
package geometry

// Geometry holds one shared geometry in model space. Positions stay as
// raw floats here; quantization happens when the geometry enters a
// layer.
type Geometry struct {
	Positions   []float32 // 3 per vertex
	Indices     []uint32  // 3 per triangle
	EdgeIndices []uint32  // 2 per edge
	// Solid marks a closed watertight mesh. Solid geometry can be
	// drawn with backface culling; open geometry is rendered
	// two-sided with the winding flipped toward the viewer.
	Solid bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// EdgeCount returns the number of edges.
func (g *Geometry) EdgeCount() int {
	return len(g.EdgeIndices) / 2
}

// ComputeBounds returns the axis-aligned bounding box of the positions.
func (g *Geometry) ComputeBounds() Bounds {
	b := EmptyBounds()
	for i := 0; i+2 < len(g.Positions); i += 3 {
		b.Grow([3]float32{g.Positions[i], g.Positions[i+1], g.Positions[i+2]})
	}
	return b
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns bounds that any grown point will replace.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Grow expands the bounds to include point p.
func (b *Bounds) Grow(p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}

// Union expands the bounds to include other.
func (b *Bounds) Union(other Bounds) {
	b.Grow(other.Min)
	b.Grow(other.Max)
}

// Empty reports whether the bounds have never been grown.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float32 {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	dz := b.Max[2] - b.Min[2]
	return sqrtf(dx*dx + dy*dy + dz*dz)
}
