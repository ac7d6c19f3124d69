package dtx

import (
	"errors"

	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// ErrStagingReleased is returned when an emulator is requested for a
// layer whose CPU-side staging was already released by Upload.
var ErrStagingReleased = errors.New("dtx: layer staging released")

// Emulator replays on the CPU the fetch chain the vertex shader runs
// against the packed textures: portion ID to object index, object
// flags against the render pass, vertex base, index fetch, position
// dequantization and the instance transform. It reads the staged
// texture data of a finalized layer, so it is only valid between
// Finalize and Upload.
type Emulator struct {
	l *Layer
}

func NewEmulator(l *Layer) (*Emulator, error) {
	if !l.finalized {
		return nil, ErrLayerNotFinalized
	}
	if l.positions == nil {
		return nil, ErrStagingReleased
	}
	return &Emulator{l: l}, nil
}

// TriangleCount reports the number of triangles packed into a tier,
// including the degenerate triangles that pad each object to a
// portion boundary.
func (e *Emulator) TriangleCount(tier IndexTier) int {
	return len(e.l.triIndices[tier]) / 3
}

// EdgeCount reports the number of edges packed into a tier, padding
// included.
func (e *Emulator) EdgeCount(tier IndexTier) int {
	return len(e.l.edgeIndices[tier]) / 2
}

// Triangle decodes one triangle of a tier for a render pass. It
// returns the owning object index and the world-space vertices.
// rendered is false when the shader would cull the triangle by
// moving it outside clip space, which happens when the object's flag
// for the pass channel does not match the pass or the object is LOD
// culled. Padding triangles decode like any other and come back
// degenerate, with all three vertices equal.
func (e *Emulator) Triangle(tier IndexTier, pass RenderPass, primitiveID int) (objectIdx int, verts [3][3]float32, rendered bool) {
	objectIdx = int(e.l.triPortions[tier][primitiveID>>3])
	if !e.passes(objectIdx, pass) {
		return objectIdx, verts, false
	}
	base := e.vertexBase(objectIdx)
	for c := 0; c < 3; c++ {
		idx := e.l.triIndices[tier][primitiveID*3+c]
		verts[c] = e.position(objectIdx, base+idx)
	}
	return objectIdx, verts, true
}

// Edge decodes one edge of a tier for a render pass, following the
// same chain as Triangle.
func (e *Emulator) Edge(tier IndexTier, pass RenderPass, primitiveID int) (objectIdx int, verts [2][3]float32, rendered bool) {
	objectIdx = int(e.l.edgePortions[tier][primitiveID>>3])
	if !e.passes(objectIdx, pass) {
		return objectIdx, verts, false
	}
	base := e.vertexBase(objectIdx)
	for c := 0; c < 2; c++ {
		idx := e.l.edgeIndices[tier][primitiveID*2+c]
		verts[c] = e.position(objectIdx, base+idx)
	}
	return objectIdx, verts, true
}

// RenderedTriangles decodes every triangle of every tier that a pass
// would draw, in packed order.
func (e *Emulator) RenderedTriangles(pass RenderPass) [][3][3]float32 {
	var out [][3][3]float32
	for tier := Tier8; tier < NumTiers; tier++ {
		for p := 0; p < e.TriangleCount(tier); p++ {
			if _, verts, ok := e.Triangle(tier, pass, p); ok {
				out = append(out, verts)
			}
		}
	}
	return out
}

// passes mirrors the shader's flag test: the object's flag byte for
// the pass channel must equal the pass, and the object must not be
// LOD culled.
func (e *Emulator) passes(objectIdx int, pass RenderPass) bool {
	channel, want := PassChannel(pass)
	if RenderPass(e.attributeByte(objectIdx, TexelFlags, int(channel))) != want {
		return false
	}
	if e.attributeByte(objectIdx, TexelFlags2, 1) != 0 {
		return false
	}
	return true
}

func (e *Emulator) vertexBase(objectIdx int) uint32 {
	var b [4]uint8
	for i := range b {
		b[i] = e.attributeByte(objectIdx, TexelVertexBase, i)
	}
	return UnpackUint32(b)
}

func (e *Emulator) position(objectIdx int, vertex uint32) [3]float32 {
	var q [3]uint16
	for c := 0; c < 3; c++ {
		q[c] = e.l.positions[int(vertex)*3+c]
	}
	decode := e.matrix(e.l.decodeMatrices, objectIdx)
	instance := e.matrix(e.l.instanceMatrices, objectIdx)
	local := decode.TransformPoint([3]float32{float32(q[0]), float32(q[1]), float32(q[2])})
	return instance.TransformPoint(local)
}

func (e *Emulator) attributeByte(objectIdx, texel, component int) uint8 {
	x, y := ObjectTexel(objectIdx, texel)
	w, _ := AttributeTextureDims(e.l.ObjectCount())
	return e.l.attributes[(int(y)*int(w)+int(x))*4+component]
}

func (e *Emulator) matrix(staging []float32, objectIdx int) math.Mat4 {
	var m math.Mat4
	copy(m[:], staging[objectIdx*16:objectIdx*16+16])
	return m
}
