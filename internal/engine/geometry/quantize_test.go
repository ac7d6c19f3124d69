package geometry

import (
	"testing"
)

func TestQuantizeRoundTrip(t *testing.T) {
	positions := []float32{
		-10, 0, 5,
		20, 30, -5,
		0, 15, 0,
		20, 0, 5,
	}

	b := EmptyBounds()
	for i := 0; i < len(positions); i += 3 {
		b.Grow([3]float32{positions[i], positions[i+1], positions[i+2]})
	}

	quantized, decode := QuantizePositions(positions, b)
	if len(quantized) != len(positions) {
		t.Fatalf("expected %d quantized values, got %d", len(positions), len(quantized))
	}

	// Worst-case quantization error is half an axis step
	for i := 0; i < len(positions); i += 3 {
		q := [3]uint16{quantized[i], quantized[i+1], quantized[i+2]}
		p := DecodePosition(decode, q)
		for axis := 0; axis < 3; axis++ {
			extent := b.Max[axis] - b.Min[axis]
			tolerance := extent/QuantRange + 1e-4
			diff := p[axis] - positions[i+axis]
			if diff < 0 {
				diff = -diff
			}
			if diff > tolerance {
				t.Errorf("vertex %d axis %d: decoded %f, want %f (tolerance %f)",
					i/3, axis, p[axis], positions[i+axis], tolerance)
			}
		}
	}
}

func TestQuantizeBoundsCorners(t *testing.T) {
	b := Bounds{Min: [3]float32{-1, -2, -3}, Max: [3]float32{1, 2, 3}}
	positions := []float32{
		-1, -2, -3,
		1, 2, 3,
	}

	quantized, _ := QuantizePositions(positions, b)

	// Min corner maps to 0, max corner to QuantRange
	for axis := 0; axis < 3; axis++ {
		if quantized[axis] != 0 {
			t.Errorf("min corner axis %d: got %d, want 0", axis, quantized[axis])
		}
		if quantized[3+axis] != QuantRange {
			t.Errorf("max corner axis %d: got %d, want %d", axis, quantized[3+axis], QuantRange)
		}
	}
}

func TestQuantizeClamps(t *testing.T) {
	// Positions outside the bounds clamp instead of wrapping
	b := Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}
	positions := []float32{
		-5, 15, 5,
	}

	quantized, _ := QuantizePositions(positions, b)
	if quantized[0] != 0 {
		t.Errorf("below-min should clamp to 0, got %d", quantized[0])
	}
	if quantized[1] != QuantRange {
		t.Errorf("above-max should clamp to %d, got %d", QuantRange, quantized[1])
	}
}

func TestQuantizeFlatAxis(t *testing.T) {
	// Zero-extent axis: all coordinates collapse to the min value
	b := Bounds{Min: [3]float32{0, 5, 0}, Max: [3]float32{10, 5, 10}}
	positions := []float32{
		3, 5, 7,
	}

	quantized, decode := QuantizePositions(positions, b)
	if quantized[1] != 0 {
		t.Errorf("flat axis should quantize to 0, got %d", quantized[1])
	}

	p := DecodePosition(decode, [3]uint16{quantized[0], quantized[1], quantized[2]})
	diff := p[1] - 5
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-4 {
		t.Errorf("flat axis should decode to 5, got %f", p[1])
	}
}

func TestBoundsGrow(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() {
		t.Error("EmptyBounds should report Empty")
	}

	b.Grow([3]float32{1, 2, 3})
	b.Grow([3]float32{-1, 5, 0})

	if b.Empty() {
		t.Error("grown bounds should not report Empty")
	}
	if b.Min != [3]float32{-1, 2, 0} {
		t.Errorf("Min = %v, want (-1, 2, 0)", b.Min)
	}
	if b.Max != [3]float32{1, 5, 3} {
		t.Errorf("Max = %v, want (1, 5, 3)", b.Max)
	}

	c := b.Center()
	if c != [3]float32{0, 3.5, 1.5} {
		t.Errorf("Center = %v, want (0, 3.5, 1.5)", c)
	}
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}}
	b := Bounds{Min: [3]float32{-2, 0.5, 0}, Max: [3]float32{0.5, 3, 1}}

	a.Union(b)
	if a.Min != [3]float32{-2, 0, 0} {
		t.Errorf("Union Min = %v, want (-2, 0, 0)", a.Min)
	}
	if a.Max != [3]float32{1, 3, 1} {
		t.Errorf("Union Max = %v, want (1, 3, 1)", a.Max)
	}
}
