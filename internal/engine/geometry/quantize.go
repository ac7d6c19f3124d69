package geometry

import (
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// QuantRange is the largest quantized coordinate value.
const QuantRange = 65535

// QuantizePositions compresses positions to unsigned 16-bit integers
// spanning the given bounds and returns the matching decode matrix.
// Axes with zero extent collapse to coordinate 0.
func QuantizePositions(positions []float32, b Bounds) ([]uint16, math.Mat4) {
	xScale := axisScale(b.Min[0], b.Max[0])
	yScale := axisScale(b.Min[1], b.Max[1])
	zScale := axisScale(b.Min[2], b.Max[2])

	out := make([]uint16, len(positions))
	for i := 0; i+2 < len(positions); i += 3 {
		out[i] = quantizeAxis(positions[i], b.Min[0], xScale)
		out[i+1] = quantizeAxis(positions[i+1], b.Min[1], yScale)
		out[i+2] = quantizeAxis(positions[i+2], b.Min[2], zScale)
	}
	return out, DecodeMatrix(b)
}

// DecodeMatrix returns the matrix that expands quantized coordinates
// back to model space: translate(min) * scale(extent / QuantRange).
func DecodeMatrix(b Bounds) math.Mat4 {
	m := math.Translate(b.Min[0], b.Min[1], b.Min[2])
	return m.Mul(math.Scale(
		axisExtent(b.Min[0], b.Max[0])/QuantRange,
		axisExtent(b.Min[1], b.Max[1])/QuantRange,
		axisExtent(b.Min[2], b.Max[2])/QuantRange,
	))
}

// DecodePosition expands one quantized vertex back to model space. The
// GPU applies the decode matrix instead; this is the CPU-side
// equivalent for picking and tests.
func DecodePosition(m math.Mat4, q [3]uint16) [3]float32 {
	return m.TransformPoint([3]float32{float32(q[0]), float32(q[1]), float32(q[2])})
}

func axisScale(min, max float32) float32 {
	extent := max - min
	if extent == 0 {
		return 0
	}
	return QuantRange / extent
}

func axisExtent(min, max float32) float32 {
	extent := max - min
	if extent == 0 {
		// Zero-extent axes still need a nonzero diagonal so the decode
		// matrix stays invertible.
		return 1.0 / QuantRange
	}
	return extent
}

func quantizeAxis(v, min, scale float32) uint16 {
	q := (v - min) * scale
	if q <= 0 {
		return 0
	}
	if q >= QuantRange {
		return QuantRange
	}
	return uint16(q + 0.5)
}
