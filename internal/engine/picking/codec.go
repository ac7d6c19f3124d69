package picking

// Pick ids are rasterized as RGBA8 colors and recovered from pixel
// readbacks. Id 0 is reserved for "nothing picked" so a cleared pick
// buffer decodes to no hit.

// EncodeID packs a pick id into an RGBA8 pick color, little-endian.
func EncodeID(id uint32) [4]uint8 {
	return [4]uint8{
		uint8(id),
		uint8(id >> 8),
		uint8(id >> 16),
		uint8(id >> 24),
	}
}

// DecodeID recovers the pick id from a read-back pixel.
func DecodeID(rgba [4]uint8) uint32 {
	return uint32(rgba[0]) |
		uint32(rgba[1])<<8 |
		uint32(rgba[2])<<16 |
		uint32(rgba[3])<<24
}

// UnpackDepth reverses the shader-side depth packing, returning the
// normalized depth encoded in an RGBA8 pixel.
func UnpackDepth(rgba [4]uint8) float32 {
	const s = 1.0 / 256.0
	return float32(rgba[0])/255.0*s*s*s +
		float32(rgba[1])/255.0*s*s +
		float32(rgba[2])/255.0*s +
		float32(rgba[3])/255.0
}
