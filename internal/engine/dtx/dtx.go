// Package dtx implements the data-texture scene representation: all
// per-object state, quantized vertex positions and primitive indices
// for a batch of objects live in a small set of integer textures, and
// draw calls pull everything through texelFetch instead of vertex
// attributes. One Layer batches every object sharing a relative-to-
// center origin; a layer draws with at most one call per index tier.
package dtx

import "errors"

const (
	// RowWidth is the number of objects per attribute-texture row.
	// Shaders address object idx at column (idx % RowWidth) * TexelsPerObject.
	RowWidth = 512

	// TexelsPerObject is the number of RGBA8UI texels in one object's
	// attribute record.
	TexelsPerObject = 8

	// MatrixTexelsPerObject is the number of RGBA32F texels holding one
	// 4x4 matrix.
	MatrixTexelsPerObject = 4

	// LinearTextureWidth is the row width, in texels, of the position,
	// index and portion-id textures. One record per texel.
	LinearTextureWidth = 4096

	// MaxTextureHeight is the smallest MAX_TEXTURE_SIZE the targeted GL
	// profile guarantees; capacity checks use it rather than querying.
	MaxTextureHeight = 16384

	// PortionGranularity is the number of primitives covered by one
	// portion-id entry. Object primitive ranges are padded to this
	// granularity with degenerate primitives so a >>3 lookup can never
	// land on a neighbouring object.
	PortionGranularity = 8

	// MaxObjectsPerLayer bounds one layer's object count; portion ids
	// are 16-bit.
	MaxObjectsPerLayer = 1 << 16
)

// Attribute record texel offsets within an object's 8-texel row slot.
const (
	TexelColor        = 0 // RGBA color, 0-255, A = opacity
	TexelPickColor    = 1 // RGBA pick color (entity id codec)
	TexelFlags        = 2 // render-pass per channel: R color, G silhouette, B edges, A pick
	TexelFlags2       = 3 // R clippable, G LOD-culled
	TexelVertexBase   = 4 // first vertex index, 4 packed bytes, big-endian
	TexelTriBase      = 5 // first padded triangle id in the object's tier, packed
	TexelEdgeBase     = 6 // first padded edge id in the object's tier, packed
	TexelSolid        = 7 // R = 1 when geometry is closed
)

var (
	// ErrLayerFinalized is returned by build operations after Finalize.
	ErrLayerFinalized = errors.New("dtx: layer already finalized")

	// ErrLayerNotFinalized is returned by operations that need the
	// packed form before Finalize has run.
	ErrLayerNotFinalized = errors.New("dtx: layer not finalized")

	// ErrTooManyObjects is returned when a layer's object capacity is
	// exhausted.
	ErrTooManyObjects = errors.New("dtx: layer object capacity exceeded")

	// ErrTooManyVertices is returned when the shared position texture
	// cannot hold another geometry.
	ErrTooManyVertices = errors.New("dtx: position texture capacity exceeded")
)

// IndexTier is the integer width of an object's primitive indices.
// Each tier has its own index and portion-id textures; a layer issues
// one draw per non-empty tier.
type IndexTier int

const (
	Tier8 IndexTier = iota
	Tier16
	Tier32
	NumTiers
)

// String returns the tier's bit width.
func (t IndexTier) String() string {
	switch t {
	case Tier8:
		return "8"
	case Tier16:
		return "16"
	case Tier32:
		return "32"
	}
	return "?"
}

// TierFor returns the smallest tier able to represent maxIndex, the
// largest vertex-base-relative index used by an object's primitives.
func TierFor(maxIndex uint32) IndexTier {
	switch {
	case maxIndex <= 0xFF:
		return Tier8
	case maxIndex <= 0xFFFF:
		return Tier16
	default:
		return Tier32
	}
}

// PackUint32 splits v into 4 big-endian bytes for an RGBA8UI texel.
func PackUint32(v uint32) [4]uint8 {
	return [4]uint8{
		uint8(v >> 24),
		uint8(v >> 16),
		uint8(v >> 8),
		uint8(v),
	}
}

// UnpackUint32 reassembles a value packed with PackUint32, mirroring
// the shader-side shift-or chain.
func UnpackUint32(b [4]uint8) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
