package dtx

import "testing"

func TestObjectTexel(t *testing.T) {
	x, y := ObjectTexel(0, TexelColor)
	if x != 0 || y != 0 {
		t.Errorf("object 0 texel 0: got (%d, %d), want (0, 0)", x, y)
	}

	x, y = ObjectTexel(1, TexelFlags)
	if x != 1*TexelsPerObject+TexelFlags || y != 0 {
		t.Errorf("object 1 flags: got (%d, %d), want (%d, 0)", x, y, TexelsPerObject+TexelFlags)
	}

	// First object of the second row.
	x, y = ObjectTexel(RowWidth, TexelColor)
	if x != 0 || y != 1 {
		t.Errorf("object %d: got (%d, %d), want (0, 1)", RowWidth, x, y)
	}

	x, y = ObjectTexel(RowWidth+3, TexelSolid)
	if x != 3*TexelsPerObject+TexelSolid || y != 1 {
		t.Errorf("object %d solid: got (%d, %d), want (%d, 1)",
			RowWidth+3, x, y, 3*TexelsPerObject+TexelSolid)
	}
}

func TestMatrixTexel(t *testing.T) {
	x, y := MatrixTexel(0)
	if x != 0 || y != 0 {
		t.Errorf("matrix 0: got (%d, %d), want (0, 0)", x, y)
	}

	x, y = MatrixTexel(RowWidth + 2)
	if x != 2*MatrixTexelsPerObject || y != 1 {
		t.Errorf("matrix %d: got (%d, %d), want (%d, 1)", RowWidth+2, x, y, 2*MatrixTexelsPerObject)
	}
}

func TestLinearTexel(t *testing.T) {
	x, y := LinearTexel(LinearTextureWidth - 1)
	if x != LinearTextureWidth-1 || y != 0 {
		t.Errorf("last texel of row 0: got (%d, %d)", x, y)
	}

	x, y = LinearTexel(LinearTextureWidth)
	if x != 0 || y != 1 {
		t.Errorf("first texel of row 1: got (%d, %d)", x, y)
	}
}

func TestTextureDims(t *testing.T) {
	w, h := AttributeTextureDims(1)
	if w != RowWidth*TexelsPerObject || h != 1 {
		t.Errorf("1 object: got %dx%d", w, h)
	}

	_, h = AttributeTextureDims(RowWidth)
	if h != 1 {
		t.Errorf("%d objects should still fit one row, got %d rows", RowWidth, h)
	}

	_, h = AttributeTextureDims(RowWidth + 1)
	if h != 2 {
		t.Errorf("%d objects: got %d rows, want 2", RowWidth+1, h)
	}

	// Empty layers still allocate one row.
	_, h = AttributeTextureDims(0)
	if h != 1 {
		t.Errorf("0 objects: got %d rows, want 1", h)
	}

	w, h = LinearTextureDims(0)
	if w != LinearTextureWidth || h != 1 {
		t.Errorf("0 records: got %dx%d", w, h)
	}
	_, h = LinearTextureDims(LinearTextureWidth + 1)
	if h != 2 {
		t.Errorf("%d records: got %d rows, want 2", LinearTextureWidth+1, h)
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		maxIndex uint32
		want     IndexTier
	}{
		{0, Tier8},
		{255, Tier8},
		{256, Tier16},
		{65535, Tier16},
		{65536, Tier32},
		{1 << 24, Tier32},
	}
	for _, c := range cases {
		if got := TierFor(c.maxIndex); got != c.want {
			t.Errorf("TierFor(%d): got %s, want %s", c.maxIndex, got, c.want)
		}
	}
}

func TestPackUint32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 255, 256, 65535, 65536, 0xDEADBEEF, 0xFFFFFFFF}
	for _, v := range values {
		if got := UnpackUint32(PackUint32(v)); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}

	// Big-endian byte order, as the shader's shift-or chain expects.
	b := PackUint32(0x01020304)
	if b != [4]uint8{1, 2, 3, 4} {
		t.Errorf("byte order: got %v, want [1 2 3 4]", b)
	}
}

func TestPadTo(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0},
		{1, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{16, 16},
	}
	for _, c := range cases {
		if got := padTo(c.n, PortionGranularity); got != c.want {
			t.Errorf("padTo(%d): got %d, want %d", c.n, got, c.want)
		}
	}
}
