package dtx

import (
	"fmt"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/texture"
)

// TextureSet is the GPU-resident form of a finalized layer. Tier slots
// without primitives hold nil.
type TextureSet struct {
	Attributes       *texture.DataTexture // RGBA8UI, 8 texels per object
	InstanceMatrices *texture.DataTexture // RGBA32F, 4 texels per object
	DecodeMatrices   *texture.DataTexture // RGBA32F, 4 texels per object
	Positions        *texture.DataTexture // RGB16UI, quantized vertices

	TriIndices     [NumTiers]*texture.DataTexture // RGB8UI/RGB16UI/RGB32UI
	EdgeIndices    [NumTiers]*texture.DataTexture // RG8UI/RG16UI/RG32UI
	TriPortionIDs  [NumTiers]*texture.DataTexture // R16UI
	EdgePortionIDs [NumTiers]*texture.DataTexture // R16UI
}

func newTextureSet(l *Layer) (*TextureSet, error) {
	ts := &TextureSet{}
	var err error

	defer func() {
		if err != nil {
			ts.Destroy()
		}
	}()

	aw, ah := AttributeTextureDims(l.ObjectCount())
	if ts.Attributes, err = texture.NewUint8(texture.RGBA8UI, aw, ah, l.attributes); err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}

	mw, mh := MatrixTextureDims(l.ObjectCount())
	if ts.InstanceMatrices, err = texture.NewFloat32(texture.RGBA32F, mw, mh, l.instanceMatrices); err != nil {
		return nil, fmt.Errorf("instance matrices: %w", err)
	}
	if ts.DecodeMatrices, err = texture.NewFloat32(texture.RGBA32F, mw, mh, l.decodeMatrices); err != nil {
		return nil, fmt.Errorf("decode matrices: %w", err)
	}

	pw, ph := LinearTextureDims(l.VertexCount())
	positions := make([]uint16, int(pw)*int(ph)*3)
	copy(positions, l.positions)
	if ts.Positions, err = texture.NewUint16(texture.RGB16UI, pw, ph, positions); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	for t := Tier8; t < NumTiers; t++ {
		if len(l.triIndices[t]) > 0 {
			if ts.TriIndices[t], err = indexTexture(t, l.triIndices[t], 3); err != nil {
				return nil, fmt.Errorf("tier %s triangles: %w", t, err)
			}
			if ts.TriPortionIDs[t], err = portionTexture(l.triPortions[t]); err != nil {
				return nil, fmt.Errorf("tier %s triangle portions: %w", t, err)
			}
		}
		if len(l.edgeIndices[t]) > 0 {
			if ts.EdgeIndices[t], err = indexTexture(t, l.edgeIndices[t], 2); err != nil {
				return nil, fmt.Errorf("tier %s edges: %w", t, err)
			}
			if ts.EdgePortionIDs[t], err = portionTexture(l.edgePortions[t]); err != nil {
				return nil, fmt.Errorf("tier %s edge portions: %w", t, err)
			}
		}
	}
	return ts, nil
}

// indexTexture packs one tier's staged indices into the narrowest
// texel format the tier permits. components is 3 for triangles, 2 for
// edges.
func indexTexture(tier IndexTier, staging []uint32, components int) (*texture.DataTexture, error) {
	w, h := LinearTextureDims(len(staging) / components)
	size := int(w) * int(h) * components

	switch tier {
	case Tier8:
		format := texture.RGB8UI
		if components == 2 {
			format = texture.RG8UI
		}
		data := make([]uint8, size)
		for i, v := range staging {
			data[i] = uint8(v)
		}
		return texture.NewUint8(format, w, h, data)

	case Tier16:
		format := texture.RGB16UI
		if components == 2 {
			format = texture.RG16UI
		}
		data := make([]uint16, size)
		for i, v := range staging {
			data[i] = uint16(v)
		}
		return texture.NewUint16(format, w, h, data)

	default:
		format := texture.RGB32UI
		if components == 2 {
			format = texture.RG32UI
		}
		data := make([]uint32, size)
		copy(data, staging)
		return texture.NewUint32(format, w, h, data)
	}
}

func portionTexture(ids []uint16) (*texture.DataTexture, error) {
	w, h := LinearTextureDims(len(ids))
	data := make([]uint16, int(w)*int(h))
	copy(data, ids)
	return texture.NewUint16(texture.R16UI, w, h, data)
}

// Destroy releases every texture in the set.
func (ts *TextureSet) Destroy() {
	destroy := func(t *texture.DataTexture) {
		if t != nil {
			t.Destroy()
		}
	}
	destroy(ts.Attributes)
	destroy(ts.InstanceMatrices)
	destroy(ts.DecodeMatrices)
	destroy(ts.Positions)
	for t := Tier8; t < NumTiers; t++ {
		destroy(ts.TriIndices[t])
		destroy(ts.EdgeIndices[t])
		destroy(ts.TriPortionIDs[t])
		destroy(ts.EdgePortionIDs[t])
	}
}
