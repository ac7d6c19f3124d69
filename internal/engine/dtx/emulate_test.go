package dtx

import (
	"errors"
	"testing"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// cube is a unit cube with 8 shared vertices, 12 triangles and its 12
// outline edges. All vertices sit on the quantization bounds corners,
// so dequantized positions reproduce the input exactly up to float
// rounding.
func cube() *geometry.Geometry {
	return &geometry.Geometry{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			0, 0, 1,
			1, 0, 1,
			1, 1, 1,
			0, 1, 1,
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3,
			4, 6, 5, 4, 7, 6,
			0, 4, 5, 0, 5, 1,
			3, 2, 6, 3, 6, 7,
			0, 3, 7, 0, 7, 4,
			1, 5, 6, 1, 6, 2,
		},
		EdgeIndices: []uint32{
			0, 1, 1, 2, 2, 3, 3, 0,
			4, 5, 5, 6, 6, 7, 7, 4,
			0, 4, 1, 5, 2, 6, 3, 7,
		},
		Solid: true,
	}
}

// twoCubeLayer builds a finalized layer with two objects over one
// shared cube: object 0 at the origin, object 1 translated +10 in x.
func twoCubeLayer(t *testing.T) *Layer {
	t.Helper()

	l := NewLayer([3]float64{})
	lg, err := l.AddGeometry(cube())
	if err != nil {
		t.Fatalf("AddGeometry: %v", err)
	}

	if _, err := l.AddObject(ObjectConfig{
		Geometry:       lg,
		InstanceMatrix: math.Identity(),
		Color:          [4]uint8{255, 0, 0, 255},
		PickColor:      [4]uint8{1, 0, 0, 255},
		Flags:          ObjectFlags{Visible: true, Pickable: true, Edges: true},
	}); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if _, err := l.AddObject(ObjectConfig{
		Geometry:       lg,
		InstanceMatrix: math.Translate(10, 0, 0),
		Color:          [4]uint8{0, 255, 0, 255},
		PickColor:      [4]uint8{2, 0, 0, 255},
		Flags:          ObjectFlags{Visible: true, Edges: true},
	}); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	if err := l.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return l
}

func vertsNear(t *testing.T, got, want [3]float32, context string) {
	t.Helper()
	const tol = 1e-3
	for c := 0; c < 3; c++ {
		d := got[c] - want[c]
		if d < -tol || d > tol {
			t.Errorf("%s: got %v, want %v", context, got, want)
			return
		}
	}
}

func TestEmulatorRoundTrip(t *testing.T) {
	l := twoCubeLayer(t)
	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	// 12 triangles pad to 16 per object.
	if got := e.TriangleCount(Tier8); got != 32 {
		t.Fatalf("padded triangle count: got %d, want 32", got)
	}

	// Object 0, first triangle: cube corners 0, 1, 2.
	obj, verts, rendered := e.Triangle(Tier8, PassColorOpaque, 0)
	if obj != 0 || !rendered {
		t.Fatalf("triangle 0: got object %d rendered %v", obj, rendered)
	}
	vertsNear(t, verts[0], [3]float32{0, 0, 0}, "triangle 0 vertex 0")
	vertsNear(t, verts[1], [3]float32{1, 0, 0}, "triangle 0 vertex 1")
	vertsNear(t, verts[2], [3]float32{1, 1, 0}, "triangle 0 vertex 2")

	// Object 1 starts at the next portion boundary; its instance
	// matrix shifts everything +10 in x.
	obj, verts, rendered = e.Triangle(Tier8, PassColorOpaque, 16)
	if obj != 1 || !rendered {
		t.Fatalf("triangle 16: got object %d rendered %v", obj, rendered)
	}
	vertsNear(t, verts[0], [3]float32{10, 0, 0}, "triangle 16 vertex 0")
	vertsNear(t, verts[1], [3]float32{11, 0, 0}, "triangle 16 vertex 1")
	vertsNear(t, verts[2], [3]float32{11, 1, 0}, "triangle 16 vertex 2")
}

func TestEmulatorPaddingDegenerate(t *testing.T) {
	l := twoCubeLayer(t)
	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	// Triangles 12..15 are object 0's padding: drawn, but collapsed
	// to a single point so they rasterize nothing.
	for p := 12; p < 16; p++ {
		obj, verts, rendered := e.Triangle(Tier8, PassColorOpaque, p)
		if obj != 0 || !rendered {
			t.Fatalf("padding triangle %d: got object %d rendered %v", p, obj, rendered)
		}
		if verts[0] != verts[1] || verts[1] != verts[2] {
			t.Errorf("padding triangle %d should be degenerate, got %v", p, verts)
		}
	}
}

func TestEmulatorPassCulling(t *testing.T) {
	l := twoCubeLayer(t)

	if err := l.SetFlags(0, ObjectFlags{Visible: false}); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}

	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	if _, _, rendered := e.Triangle(Tier8, PassColorOpaque, 0); rendered {
		t.Error("hidden object should not render")
	}
	if _, _, rendered := e.Triangle(Tier8, PassColorOpaque, 16); !rendered {
		t.Error("visible object should render")
	}

	// Only object 1's 16 padded triangles survive the pass.
	if got := len(e.RenderedTriangles(PassColorOpaque)); got != 16 {
		t.Errorf("rendered triangles: got %d, want 16", got)
	}
}

func TestEmulatorLODCulling(t *testing.T) {
	l := twoCubeLayer(t)

	f, _ := l.Flags(1)
	f.CulledLOD = true
	if err := l.SetFlags(1, f); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}

	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	if _, _, rendered := e.Triangle(Tier8, PassColorOpaque, 16); rendered {
		t.Error("LOD-culled object should not render")
	}
	if _, _, rendered := e.Triangle(Tier8, PassColorOpaque, 0); !rendered {
		t.Error("unculled object should still render")
	}
}

func TestEmulatorPickAndSnap(t *testing.T) {
	l := twoCubeLayer(t)
	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	// Object 0 is pickable, object 1 is not.
	if _, _, rendered := e.Triangle(Tier8, PassPick, 0); !rendered {
		t.Error("pickable object missing from pick pass")
	}
	if _, _, rendered := e.Triangle(Tier8, PassPick, 16); rendered {
		t.Error("unpickable object drawn in pick pass")
	}

	// Snap rides the pick channel.
	if _, _, rendered := e.Triangle(Tier8, PassSnap, 0); !rendered {
		t.Error("pickable object missing from snap pass")
	}
	if _, _, rendered := e.Triangle(Tier8, PassSnap, 16); rendered {
		t.Error("unpickable object drawn in snap pass")
	}
}

func TestEmulatorOcclusionPass(t *testing.T) {
	l := twoCubeLayer(t)

	// Alpha below 255 re-routes object 1 to the transparent pass,
	// which the occlusion pass does not consider.
	if err := l.SetColor(1, [4]uint8{0, 255, 0, 100}); err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	if _, _, rendered := e.Triangle(Tier8, PassOcclusion, 0); !rendered {
		t.Error("opaque object missing from occlusion pass")
	}
	if _, _, rendered := e.Triangle(Tier8, PassOcclusion, 16); rendered {
		t.Error("transparent object drawn in occlusion pass")
	}
}

func TestEmulatorEdges(t *testing.T) {
	l := twoCubeLayer(t)
	e, err := NewEmulator(l)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}

	// 12 edges pad to 16 per object.
	if got := e.EdgeCount(Tier8); got != 32 {
		t.Fatalf("padded edge count: got %d, want 32", got)
	}

	obj, verts, rendered := e.Edge(Tier8, PassEdgesColorOpaque, 0)
	if obj != 0 || !rendered {
		t.Fatalf("edge 0: got object %d rendered %v", obj, rendered)
	}
	vertsNear(t, verts[0], [3]float32{0, 0, 0}, "edge 0 vertex 0")
	vertsNear(t, verts[1], [3]float32{1, 0, 0}, "edge 0 vertex 1")

	obj, verts, rendered = e.Edge(Tier8, PassEdgesColorOpaque, 16)
	if obj != 1 || !rendered {
		t.Fatalf("edge 16: got object %d rendered %v", obj, rendered)
	}
	vertsNear(t, verts[0], [3]float32{10, 0, 0}, "edge 16 vertex 0")
}

func TestEmulatorLifecycle(t *testing.T) {
	l := NewLayer([3]float64{})
	if _, err := NewEmulator(l); !errors.Is(err, ErrLayerNotFinalized) {
		t.Errorf("emulator before Finalize: got %v", err)
	}

	l = twoCubeLayer(t)
	l.positions = nil // as Upload leaves it
	if _, err := NewEmulator(l); !errors.Is(err, ErrStagingReleased) {
		t.Errorf("emulator after staging release: got %v", err)
	}
}
