package dtx

// Texel addressing mirrors the fetch arithmetic compiled into the
// shaders; the CPU emulator and the GLSL must agree on these formulas.

// ObjectTexel returns the texture coordinate of one texel of an
// object's attribute record.
func ObjectTexel(objectIdx, texel int) (x, y int32) {
	return int32((objectIdx%RowWidth)*TexelsPerObject + texel), int32(objectIdx / RowWidth)
}

// MatrixTexel returns the coordinate of the first of the 4 texels
// holding an object's matrix.
func MatrixTexel(objectIdx int) (x, y int32) {
	return int32((objectIdx % RowWidth) * MatrixTexelsPerObject), int32(objectIdx / RowWidth)
}

// LinearTexel addresses textures packing one record per texel in rows
// of LinearTextureWidth.
func LinearTexel(index int) (x, y int32) {
	return int32(index % LinearTextureWidth), int32(index / LinearTextureWidth)
}

// AttributeTextureDims returns the dimensions of the attribute texture
// for a layer of numObjects.
func AttributeTextureDims(numObjects int) (w, h int32) {
	return RowWidth * TexelsPerObject, int32(rowsFor(numObjects))
}

// MatrixTextureDims returns the dimensions of a matrix texture for a
// layer of numObjects.
func MatrixTextureDims(numObjects int) (w, h int32) {
	return RowWidth * MatrixTexelsPerObject, int32(rowsFor(numObjects))
}

// LinearTextureDims returns the dimensions of a linear texture holding
// numRecords one-texel records.
func LinearTextureDims(numRecords int) (w, h int32) {
	h = int32((numRecords + LinearTextureWidth - 1) / LinearTextureWidth)
	if h == 0 {
		h = 1
	}
	return LinearTextureWidth, h
}

func rowsFor(numObjects int) int {
	rows := (numObjects + RowWidth - 1) / RowWidth
	if rows == 0 {
		rows = 1
	}
	return rows
}
