// Package texture provides GL data textures for the texture-encoded
// scene representation. A data texture is not an image: every texel is
// a record the shaders read with texelFetch, so filtering is always
// NEAREST and formats are unsigned-integer or full float.
package texture

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Format identifies the texel layout of a data texture.
type Format int

const (
	RGBA8UI Format = iota // 4 x uint8, object attribute records
	RGB8UI                // 3 x uint8, 8-bit triangle indices
	RG8UI                 // 2 x uint8, 8-bit edge indices
	RGB16UI               // 3 x uint16, quantized positions, 16-bit triangle indices
	RG16UI                // 2 x uint16, 16-bit edge indices
	RGB32UI               // 3 x uint32, 32-bit triangle indices
	RG32UI                // 2 x uint32, 32-bit edge indices
	R16UI                 // 1 x uint16, portion ids
	RGBA32F               // 4 x float32, matrices
)

// Components returns the number of values per texel.
func (f Format) Components() int {
	switch f {
	case RGBA8UI, RGBA32F:
		return 4
	case RGB8UI, RGB16UI, RGB32UI:
		return 3
	case RG8UI, RG16UI, RG32UI:
		return 2
	case R16UI:
		return 1
	}
	return 0
}

// String returns the GLSL-facing name of the format.
func (f Format) String() string {
	switch f {
	case RGBA8UI:
		return "RGBA8UI"
	case RGB8UI:
		return "RGB8UI"
	case RG8UI:
		return "RG8UI"
	case RGB16UI:
		return "RGB16UI"
	case RG16UI:
		return "RG16UI"
	case RGB32UI:
		return "RGB32UI"
	case RG32UI:
		return "RG32UI"
	case R16UI:
		return "R16UI"
	case RGBA32F:
		return "RGBA32F"
	}
	return "unknown"
}

func (f Format) glEnums() (internal int32, format, xtype uint32) {
	switch f {
	case RGBA8UI:
		return gl.RGBA8UI, gl.RGBA_INTEGER, gl.UNSIGNED_BYTE
	case RGB8UI:
		return gl.RGB8UI, gl.RGB_INTEGER, gl.UNSIGNED_BYTE
	case RG8UI:
		return gl.RG8UI, gl.RG_INTEGER, gl.UNSIGNED_BYTE
	case RGB16UI:
		return gl.RGB16UI, gl.RGB_INTEGER, gl.UNSIGNED_SHORT
	case RG16UI:
		return gl.RG16UI, gl.RG_INTEGER, gl.UNSIGNED_SHORT
	case RGB32UI:
		return gl.RGB32UI, gl.RGB_INTEGER, gl.UNSIGNED_INT
	case RG32UI:
		return gl.RG32UI, gl.RG_INTEGER, gl.UNSIGNED_INT
	case R16UI:
		return gl.R16UI, gl.RED_INTEGER, gl.UNSIGNED_SHORT
	case RGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	}
	return 0, 0, 0
}

// DataTexture wraps one GL texture holding packed records.
type DataTexture struct {
	Handle uint32
	Format Format
	Width  int32
	Height int32
}

// NewUint8 builds a data texture from 8-bit staging data.
// len(data) must equal width*height*components.
func NewUint8(f Format, width, height int32, data []uint8) (*DataTexture, error) {
	if err := checkSize(f, width, height, len(data)); err != nil {
		return nil, err
	}
	return create(f, width, height, gl.Ptr(data)), nil
}

// NewUint16 builds a data texture from 16-bit staging data.
func NewUint16(f Format, width, height int32, data []uint16) (*DataTexture, error) {
	if err := checkSize(f, width, height, len(data)); err != nil {
		return nil, err
	}
	return create(f, width, height, gl.Ptr(data)), nil
}

// NewUint32 builds a data texture from 32-bit staging data.
func NewUint32(f Format, width, height int32, data []uint32) (*DataTexture, error) {
	if err := checkSize(f, width, height, len(data)); err != nil {
		return nil, err
	}
	return create(f, width, height, gl.Ptr(data)), nil
}

// NewFloat32 builds a data texture from float staging data.
func NewFloat32(f Format, width, height int32, data []float32) (*DataTexture, error) {
	if err := checkSize(f, width, height, len(data)); err != nil {
		return nil, err
	}
	return create(f, width, height, gl.Ptr(data)), nil
}

func checkSize(f Format, width, height int32, got int) error {
	want := int(width) * int(height) * f.Components()
	if got != want {
		return fmt.Errorf("%v texture %dx%d needs %d values, got %d", f, width, height, want, got)
	}
	return nil
}

func create(f Format, width, height int32, pixels unsafe.Pointer) *DataTexture {
	t := &DataTexture{
		Format: f,
		Width:  width,
		Height: height,
	}

	internal, format, xtype := f.glEnums()

	gl.GenTextures(1, &t.Handle)
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)

	// Staging rows are tightly packed; RGB/RG widths are not 4-aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, format, xtype, pixels)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Bind binds the texture to the given texture unit.
func (t *DataTexture) Bind(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
}

// SubImageUint8 overwrites a rectangle of texels with 8-bit data.
// Used for in-place object state mutation after finalize.
func (t *DataTexture) SubImageUint8(x, y, width, height int32, data []uint8) {
	_, format, xtype := t.Format.glEnums()
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, width, height, format, xtype, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// SubImageFloat32 overwrites a rectangle of texels with float data.
func (t *DataTexture) SubImageFloat32(x, y, width, height int32, data []float32) {
	_, format, xtype := t.Format.glEnums()
	gl.BindTexture(gl.TEXTURE_2D, t.Handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, width, height, format, xtype, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy releases the GL texture.
func (t *DataTexture) Destroy() {
	if t.Handle != 0 {
		gl.DeleteTextures(1, &t.Handle)
		t.Handle = 0
	}
}
