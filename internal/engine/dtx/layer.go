package dtx

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// LayerGeometry is a shared geometry interned into a layer's position
// texture. Multiple objects may reference it; each object gets its own
// index range so the portion-id lookup stays unambiguous.
type LayerGeometry struct {
	vertexBase   uint32
	tier         IndexTier
	decodeMatrix math.Mat4
	bounds       geometry.Bounds
	indices      []uint32
	edgeIndices  []uint32
	solid        bool
}

// TriangleCount returns the geometry's triangle count.
func (g *LayerGeometry) TriangleCount() int { return len(g.indices) / 3 }

// EdgeCount returns the geometry's edge count.
func (g *LayerGeometry) EdgeCount() int { return len(g.edgeIndices) / 2 }

// Tier returns the index tier the geometry's objects draw in.
func (g *LayerGeometry) Tier() IndexTier { return g.tier }

// Bounds returns the geometry's model-space bounds.
func (g *LayerGeometry) Bounds() geometry.Bounds { return g.bounds }

// ObjectConfig parameterizes one object added to a layer.
type ObjectConfig struct {
	Geometry       *LayerGeometry
	InstanceMatrix math.Mat4
	Color          [4]uint8 // RGB + opacity in A
	PickColor      [4]uint8
	Flags          ObjectFlags
}

// object is the CPU-retained record backing in-place texel mutation.
type object struct {
	geom      *LayerGeometry
	color     [4]uint8
	pickColor [4]uint8
	flags     ObjectFlags
	instance  math.Mat4
	firstTri  int // first padded triangle id in the tier
	firstEdge int // first padded edge id in the tier
}

// Layer batches every object sharing a relative-to-center origin into
// one set of data textures. Build with AddGeometry/AddObject, pack
// with Finalize, move to the GPU with Upload. Color, flag and matrix
// texels stay mutable afterwards; everything else is frozen.
type Layer struct {
	origin    [3]float64
	finalized bool

	positions []uint16 // 3 per vertex, all geometries appended

	triIndices   [NumTiers][]uint32 // vertex-base-relative, 3 per triangle, padded
	edgeIndices  [NumTiers][]uint32 // 2 per edge, padded
	triPortions  [NumTiers][]uint16 // owning object per PortionGranularity triangles
	edgePortions [NumTiers][]uint16

	objects []*object

	// Built by Finalize. The attribute and matrix staging mirrors GPU
	// state and is retained for in-place mutation; bulk staging is
	// released by Upload.
	attributes       []uint8
	instanceMatrices []float32
	decodeMatrices   []float32

	textures *TextureSet
}

// NewLayer creates an empty layer for the given origin.
func NewLayer(origin [3]float64) *Layer {
	return &Layer{origin: origin}
}

// Origin returns the layer's relative-to-center origin.
func (l *Layer) Origin() [3]float64 { return l.origin }

// Finalized reports whether Finalize has run.
func (l *Layer) Finalized() bool { return l.finalized }

// ObjectCount returns the number of objects added so far.
func (l *Layer) ObjectCount() int { return len(l.objects) }

// VertexCount returns the number of shared vertices staged so far.
func (l *Layer) VertexCount() int { return len(l.positions) / 3 }

// TierTriangleCount returns the padded triangle count drawn for a
// tier. Padding triangles are degenerate and rasterize nothing.
func (l *Layer) TierTriangleCount(t IndexTier) int { return len(l.triIndices[t]) / 3 }

// TierEdgeCount returns the padded edge count drawn for a tier.
func (l *Layer) TierEdgeCount(t IndexTier) int { return len(l.edgeIndices[t]) / 2 }

// AddGeometry interns a geometry into the layer, quantizing its
// positions against its own bounds. The returned handle feeds
// AddObject; a geometry shared by several objects is added once.
func (l *Layer) AddGeometry(g *geometry.Geometry) (*LayerGeometry, error) {
	if l.finalized {
		return nil, ErrLayerFinalized
	}
	vertexCount := g.VertexCount()
	if vertexCount == 0 || len(g.Indices) < 3 {
		return nil, fmt.Errorf("dtx: geometry needs vertices and at least one triangle")
	}
	if len(g.Positions)%3 != 0 {
		return nil, fmt.Errorf("dtx: positions length %d not a multiple of 3", len(g.Positions))
	}

	maxIndex := uint32(0)
	for _, idx := range g.Indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("dtx: triangle index %d out of range for %d vertices", idx, vertexCount)
		}
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	for _, idx := range g.EdgeIndices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("dtx: edge index %d out of range for %d vertices", idx, vertexCount)
		}
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	if l.VertexCount()+vertexCount > LinearTextureWidth*MaxTextureHeight {
		return nil, ErrTooManyVertices
	}

	bounds := g.ComputeBounds()
	quantized, decode := geometry.QuantizePositions(g.Positions, bounds)

	lg := &LayerGeometry{
		vertexBase:   uint32(l.VertexCount()),
		tier:         TierFor(maxIndex),
		decodeMatrix: decode,
		bounds:       bounds,
		indices:      g.Indices,
		edgeIndices:  g.EdgeIndices,
		solid:        g.Solid,
	}
	l.positions = append(l.positions, quantized...)
	return lg, nil
}

// AddObject creates one drawable object over an interned geometry and
// returns its index within the layer. The object's primitive ranges
// are padded to the portion granularity with degenerate primitives.
func (l *Layer) AddObject(cfg ObjectConfig) (int, error) {
	if l.finalized {
		return 0, ErrLayerFinalized
	}
	if cfg.Geometry == nil {
		return 0, fmt.Errorf("dtx: object needs a geometry")
	}
	if len(l.objects) >= MaxObjectsPerLayer {
		return 0, ErrTooManyObjects
	}

	idx := len(l.objects)
	tier := cfg.Geometry.tier

	firstTri := l.TierTriangleCount(tier)
	paddedTris := padTo(cfg.Geometry.TriangleCount(), PortionGranularity)
	if firstTri+paddedTris > LinearTextureWidth*MaxTextureHeight {
		return 0, fmt.Errorf("dtx: triangle texture capacity exceeded in tier %s", tier)
	}
	firstEdge := l.TierEdgeCount(tier)
	paddedEdges := padTo(cfg.Geometry.EdgeCount(), PortionGranularity)
	if firstEdge+paddedEdges > LinearTextureWidth*MaxTextureHeight {
		return 0, fmt.Errorf("dtx: edge texture capacity exceeded in tier %s", tier)
	}

	l.triIndices[tier] = append(l.triIndices[tier], cfg.Geometry.indices...)
	pad := cfg.Geometry.indices[0]
	for l.TierTriangleCount(tier)%PortionGranularity != 0 {
		l.triIndices[tier] = append(l.triIndices[tier], pad, pad, pad)
	}
	for n := firstTri; n < l.TierTriangleCount(tier); n += PortionGranularity {
		l.triPortions[tier] = append(l.triPortions[tier], uint16(idx))
	}

	if len(cfg.Geometry.edgeIndices) > 0 {
		l.edgeIndices[tier] = append(l.edgeIndices[tier], cfg.Geometry.edgeIndices...)
		edgePad := cfg.Geometry.edgeIndices[0]
		for l.TierEdgeCount(tier)%PortionGranularity != 0 {
			l.edgeIndices[tier] = append(l.edgeIndices[tier], edgePad, edgePad)
		}
		for n := firstEdge; n < l.TierEdgeCount(tier); n += PortionGranularity {
			l.edgePortions[tier] = append(l.edgePortions[tier], uint16(idx))
		}
	}

	flags := cfg.Flags
	flags.Transparent = cfg.Color[3] < 255

	l.objects = append(l.objects, &object{
		geom:      cfg.Geometry,
		color:     cfg.Color,
		pickColor: cfg.PickColor,
		flags:     flags,
		instance:  cfg.InstanceMatrix,
		firstTri:  firstTri,
		firstEdge: firstEdge,
	})
	return idx, nil
}

// Finalize packs the attribute and matrix staging. After Finalize no
// geometry or object may be added; flag, color and matrix mutation
// stays available.
func (l *Layer) Finalize() error {
	if l.finalized {
		return ErrLayerFinalized
	}

	aw, ah := AttributeTextureDims(len(l.objects))
	l.attributes = make([]uint8, int(aw)*int(ah)*4)

	mw, mh := MatrixTextureDims(len(l.objects))
	l.instanceMatrices = make([]float32, int(mw)*int(mh)*4)
	l.decodeMatrices = make([]float32, int(mw)*int(mh)*4)

	for idx, obj := range l.objects {
		l.packTexel(idx, TexelColor, obj.color)
		l.packTexel(idx, TexelPickColor, obj.pickColor)
		l.packTexel(idx, TexelFlags, ComputePassFlags(obj.flags))
		l.packTexel(idx, TexelFlags2, ComputeFlags2(obj.flags))
		l.packTexel(idx, TexelVertexBase, PackUint32(obj.geom.vertexBase))
		l.packTexel(idx, TexelTriBase, PackUint32(uint32(obj.firstTri)))
		l.packTexel(idx, TexelEdgeBase, PackUint32(uint32(obj.firstEdge)))
		solid := [4]uint8{}
		if obj.geom.solid {
			solid[0] = 1
		}
		l.packTexel(idx, TexelSolid, solid)

		l.packMatrix(l.instanceMatrices, idx, obj.instance)
		l.packMatrix(l.decodeMatrices, idx, obj.geom.decodeMatrix)
	}

	l.finalized = true
	logger.Log.Debug("dtx layer finalized",
		zap.Int("objects", len(l.objects)),
		zap.Int("vertices", l.VertexCount()),
		zap.Int("triangles8", l.TierTriangleCount(Tier8)),
		zap.Int("triangles16", l.TierTriangleCount(Tier16)),
		zap.Int("triangles32", l.TierTriangleCount(Tier32)),
	)
	return nil
}

// Upload moves the packed layer to the GPU and releases the bulk
// staging. Attribute and matrix staging is retained for mutation.
func (l *Layer) Upload() error {
	if !l.finalized {
		return ErrLayerNotFinalized
	}
	if l.textures != nil {
		return nil
	}

	ts, err := newTextureSet(l)
	if err != nil {
		return fmt.Errorf("uploading layer textures: %w", err)
	}
	l.textures = ts

	l.positions = nil
	for t := Tier8; t < NumTiers; t++ {
		l.triIndices[t] = nil
		l.edgeIndices[t] = nil
		l.triPortions[t] = nil
		l.edgePortions[t] = nil
	}
	return nil
}

// Textures returns the GPU texture set, nil before Upload.
func (l *Layer) Textures() *TextureSet { return l.textures }

// Destroy releases the layer's GPU textures.
func (l *Layer) Destroy() {
	if l.textures != nil {
		l.textures.Destroy()
		l.textures = nil
	}
}

// Flags returns a copy of an object's current state flags.
func (l *Layer) Flags(idx int) (ObjectFlags, error) {
	obj, err := l.objectAt(idx)
	if err != nil {
		return ObjectFlags{}, err
	}
	return obj.flags, nil
}

// SetFlags replaces an object's state flags, recomputing both flag
// texels. Transparency always follows the stored color's alpha.
func (l *Layer) SetFlags(idx int, f ObjectFlags) error {
	obj, err := l.objectAt(idx)
	if err != nil {
		return err
	}
	f.Transparent = obj.color[3] < 255
	obj.flags = f
	if l.finalized {
		l.writeFlagTexels(idx)
	}
	return nil
}

// SetColor replaces an object's color and opacity. A change of alpha
// across the opaque threshold re-routes the color pass, so the flag
// texels refresh along with the color texel.
func (l *Layer) SetColor(idx int, color [4]uint8) error {
	obj, err := l.objectAt(idx)
	if err != nil {
		return err
	}
	obj.color = color
	obj.flags.Transparent = color[3] < 255
	if l.finalized {
		l.writeTexel(idx, TexelColor, color)
		l.writeFlagTexels(idx)
	}
	return nil
}

// SetInstanceMatrix replaces an object's placement matrix.
func (l *Layer) SetInstanceMatrix(idx int, m math.Mat4) error {
	obj, err := l.objectAt(idx)
	if err != nil {
		return err
	}
	obj.instance = m
	if l.finalized {
		l.packMatrix(l.instanceMatrices, idx, m)
		if l.textures != nil {
			x, y := MatrixTexel(idx)
			l.textures.InstanceMatrices.SubImageFloat32(x, y, MatrixTexelsPerObject, 1, m[:])
		}
	}
	return nil
}

// ObjectColor returns a copy of an object's color texel.
func (l *Layer) ObjectColor(idx int) ([4]uint8, error) {
	obj, err := l.objectAt(idx)
	if err != nil {
		return [4]uint8{}, err
	}
	return obj.color, nil
}

// ObjectTriangleCount returns one object's unpadded triangle count.
func (l *Layer) ObjectTriangleCount(idx int) (int, error) {
	obj, err := l.objectAt(idx)
	if err != nil {
		return 0, err
	}
	return obj.geom.TriangleCount(), nil
}

func (l *Layer) objectAt(idx int) (*object, error) {
	if idx < 0 || idx >= len(l.objects) {
		return nil, fmt.Errorf("dtx: object %d out of range (%d objects)", idx, len(l.objects))
	}
	return l.objects[idx], nil
}

// packTexel writes one attribute texel into the staging buffer.
func (l *Layer) packTexel(idx, texel int, value [4]uint8) {
	x, y := ObjectTexel(idx, texel)
	w, _ := AttributeTextureDims(len(l.objects))
	off := (int(y)*int(w) + int(x)) * 4
	copy(l.attributes[off:off+4], value[:])
}

// writeTexel updates staging and, when resident, the GPU texel.
func (l *Layer) writeTexel(idx, texel int, value [4]uint8) {
	l.packTexel(idx, texel, value)
	if l.textures != nil {
		x, y := ObjectTexel(idx, texel)
		l.textures.Attributes.SubImageUint8(x, y, 1, 1, value[:])
	}
}

// writeFlagTexels refreshes the two adjacent flag texels in one write.
func (l *Layer) writeFlagTexels(idx int) {
	obj := l.objects[idx]
	flags := ComputePassFlags(obj.flags)
	flags2 := ComputeFlags2(obj.flags)

	l.packTexel(idx, TexelFlags, flags)
	l.packTexel(idx, TexelFlags2, flags2)
	if l.textures != nil {
		var both [8]uint8
		copy(both[:4], flags[:])
		copy(both[4:], flags2[:])
		x, y := ObjectTexel(idx, TexelFlags)
		l.textures.Attributes.SubImageUint8(x, y, 2, 1, both[:])
	}
}

// packMatrix writes a matrix into 4 RGBA32F staging texels.
func (l *Layer) packMatrix(dst []float32, idx int, m math.Mat4) {
	x, y := MatrixTexel(idx)
	w, _ := MatrixTextureDims(len(l.objects))
	off := (int(y)*int(w) + int(x)) * 4
	copy(dst[off:off+16], m[:])
}

func padTo(n, granularity int) int {
	return (n + granularity - 1) / granularity * granularity
}
