package viewer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/xeokit/xeokit-sdk-sub013/internal/config"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/scene"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/shape"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// Meshes far from the model center batch into separate layers; this is
// the snap size of their shared origins.
const demoTileSize = 64.0

const lotSpacing = 24.0

// demoScene is a generated city block, expressed as the configs the
// scene model builder accepts.
type demoScene struct {
	geometries []scene.GeometryConfig
	meshes     []scene.MeshConfig
	entities   []scene.EntityConfig
}

var buildingPalette = [][3]uint8{
	{188, 178, 162},
	{170, 160, 150},
	{152, 140, 128},
	{190, 150, 120},
	{160, 130, 110},
	{200, 196, 188},
}

// generateDemo lays out a square city block: a ground slab, a grid of
// buildings rising toward a central landmark, domes on the tall ones
// and trees along the lots. Sphere tessellation is deliberately spread
// over several triangle counts so frame-rate driven culling has
// distinct buckets to work through.
func generateDemo(cfg config.SceneConfig) demoScene {
	n := cfg.Buildings
	if n < 1 {
		n = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var d demoScene
	d.geometries = demoGeometries()

	flags := scene.DefaultEntityFlags()
	flags.Edges = cfg.Edges

	half := float64(n) * lotSpacing / 2
	citySize := float32(n)*lotSpacing + 2*lotSpacing

	// Ground slab under the whole block.
	d.addMesh(scene.MeshConfig{
		ID:         "ground",
		GeometryID: "box",
		Matrix:     math.Translate(0, -0.5, 0).Mul(math.Scale(citySize, 1, citySize)),
		Color:      [3]uint8{120, 125, 118},
		Opacity:    255,
	})
	d.entities = append(d.entities, scene.EntityConfig{
		ID:       "ground",
		MeshIDs:  []string{"ground"},
		IsObject: true,
		Flags:    flags,
	})

	center := (n - 1) / 2
	for gx := 0; gx < n; gx++ {
		for gz := 0; gz < n; gz++ {
			if gx == center && gz == center {
				continue // landmark lot
			}
			cx := float64(gx)*lotSpacing - half + lotSpacing/2
			cz := float64(gz)*lotSpacing - half + lotSpacing/2
			d.addBuilding(rng, flags, gx, gz, cx, cz, n)

			if rng.Float64() < 0.3 {
				d.addTree(rng, flags, gx, gz, cx, cz)
			}
		}
	}

	d.addLandmark(flags)
	return d
}

// demoGeometries returns the shared geometry set. Every building reuses
// the unit box; spheres come in three tessellations.
func demoGeometries() []scene.GeometryConfig {
	box := shape.Box(1, 1, 1)
	high := shape.Sphere(1, 48, 32)
	mid := shape.Sphere(1, 24, 16)
	low := shape.Sphere(1, 12, 8)
	return []scene.GeometryConfig{
		{ID: "box", Positions: box.Positions, Indices: box.Indices, Solid: true},
		{ID: "sphere-high", Positions: high.Positions, Indices: high.Indices, Solid: true},
		{ID: "sphere-mid", Positions: mid.Positions, Indices: mid.Indices, Solid: true},
		{ID: "sphere-low", Positions: low.Positions, Indices: low.Indices, Solid: true},
	}
}

// addMesh rebases the mesh matrix onto its tile origin before storing.
func (d *demoScene) addMesh(cfg scene.MeshConfig) {
	tx := float64(cfg.Matrix[12])
	tz := float64(cfg.Matrix[14])
	ox := snapToTile(tx)
	oz := snapToTile(tz)
	cfg.Origin = [3]float64{ox, 0, oz}
	cfg.Matrix[12] = float32(tx - ox)
	cfg.Matrix[14] = float32(tz - oz)
	d.meshes = append(d.meshes, cfg)
}

func snapToTile(v float64) float64 {
	t := int(v / demoTileSize)
	return float64(t) * demoTileSize
}

func (d *demoScene) addBuilding(rng *rand.Rand, flags dtx.ObjectFlags, gx, gz int, cx, cz float64, n int) {
	w := 10 + rng.Float32()*8
	depth := 10 + rng.Float32()*8

	// Height rises toward the block center.
	dx, dz := 0.0, 0.0
	if n > 1 {
		dx = float64(gx)/float64(n-1)*2 - 1
		dz = float64(gz)/float64(n-1)*2 - 1
	}
	centerBias := 1 - (dx*dx+dz*dz)/2
	h := float32(10 + centerBias*90 + rng.Float64()*30)

	glass := rng.Float64() < 0.15
	color := buildingPalette[rng.Intn(len(buildingPalette))]
	opacity := uint8(255)
	if glass {
		color = [3]uint8{110, 160, 190}
		opacity = 170
	}

	id := fmt.Sprintf("building-%d-%d", gx, gz)
	bodyID := id + "-body"
	d.addMesh(scene.MeshConfig{
		ID:         bodyID,
		GeometryID: "box",
		Matrix:     math.Translate(float32(cx), h/2, float32(cz)).Mul(math.Scale(w, h, depth)),
		Color:      color,
		Opacity:    opacity,
	})
	meshIDs := []string{bodyID}

	// Tall buildings get a dome; tessellation follows height so the
	// culling buckets fill top to bottom.
	if h > 60 && rng.Float64() < 0.5 {
		geom := "sphere-low"
		switch {
		case h > 110:
			geom = "sphere-high"
		case h > 85:
			geom = "sphere-mid"
		}
		r := minf(w, depth) * 0.45
		domeID := id + "-dome"
		d.addMesh(scene.MeshConfig{
			ID:         domeID,
			GeometryID: geom,
			Matrix:     math.Translate(float32(cx), h+r*0.4, float32(cz)).Mul(math.Scale(r, r, r)),
			Color:      [3]uint8{140, 155, 170},
			Opacity:    opacity,
		})
		meshIDs = append(meshIDs, domeID)
	}

	d.entities = append(d.entities, scene.EntityConfig{
		ID:       id,
		MeshIDs:  meshIDs,
		IsObject: true,
		Flags:    flags,
	})
}

func (d *demoScene) addTree(rng *rand.Rand, flags dtx.ObjectFlags, gx, gz int, cx, cz float64) {
	id := fmt.Sprintf("tree-%d-%d", gx, gz)
	r := 1.5 + rng.Float32()*1.5
	d.addMesh(scene.MeshConfig{
		ID:         id,
		GeometryID: "sphere-low",
		Matrix:     math.Translate(float32(cx-lotSpacing/2+2), r+0.5, float32(cz-lotSpacing/2+2)).Mul(math.Scale(r, r, r)),
		Color:      [3]uint8{70, 120, 60},
		Opacity:    255,
	})
	d.entities = append(d.entities, scene.EntityConfig{
		ID:       id,
		MeshIDs:  []string{id},
		IsObject: true,
		Flags:    flags,
	})
}

// addLandmark puts a pedestal and a finely tessellated sphere on the
// central lot.
func (d *demoScene) addLandmark(flags dtx.ObjectFlags) {
	d.addMesh(scene.MeshConfig{
		ID:         "landmark-pedestal",
		GeometryID: "box",
		Matrix:     math.Translate(0, 4, 0).Mul(math.Scale(14, 8, 14)),
		Color:      [3]uint8{200, 196, 188},
		Opacity:    255,
	})
	d.addMesh(scene.MeshConfig{
		ID:         "landmark-sphere",
		GeometryID: "sphere-high",
		Matrix:     math.Translate(0, 16, 0).Mul(math.Scale(8, 8, 8)),
		Color:      [3]uint8{210, 170, 90},
		Opacity:    255,
	})
	d.entities = append(d.entities, scene.EntityConfig{
		ID:       "landmark",
		MeshIDs:  []string{"landmark-pedestal", "landmark-sphere"},
		IsObject: true,
		Flags:    flags,
	})
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// buildDemoModel feeds the generated city into a scene model and
// finalizes it. Upload is left to the caller so tests can stay off the
// GPU.
func buildDemoModel(s *scene.Scene, cfg config.SceneConfig) (*scene.Model, error) {
	d := generateDemo(cfg)

	model, err := s.CreateModel("demo-city", math.Identity())
	if err != nil {
		return nil, err
	}
	for _, g := range d.geometries {
		if err := model.CreateGeometry(g); err != nil {
			return nil, fmt.Errorf("geometry %s: %w", g.ID, err)
		}
	}
	for _, m := range d.meshes {
		if err := model.CreateMesh(m); err != nil {
			return nil, fmt.Errorf("mesh %s: %w", m.ID, err)
		}
	}
	for _, e := range d.entities {
		if _, err := model.CreateEntity(e); err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.ID, err)
		}
	}
	if err := model.Finalize(); err != nil {
		return nil, fmt.Errorf("finalizing model: %w", err)
	}
	return model, nil
}
