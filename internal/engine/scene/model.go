package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/picking"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// edgeThresholdDeg is the adjacent-face angle above which an edge is
// derived for meshes that supply no explicit edge list.
const edgeThresholdDeg = 10

var errModelFinalized = errors.New("scene: model already finalized")

// GeometryConfig registers a reusable geometry with a model.
// EdgeIndices may be nil; edges are then derived from the triangles.
type GeometryConfig struct {
	ID          string
	Positions   []float32
	Indices     []uint32
	EdgeIndices []uint32
	Solid       bool
}

// MeshConfig instantiates a registered geometry at a placement.
// Origin is the relative-to-center bucket the mesh renders in; meshes
// sharing an origin batch into the same layers.
type MeshConfig struct {
	ID         string
	GeometryID string
	Origin     [3]float64
	Matrix     math.Mat4
	Color      [3]uint8
	Opacity    uint8
}

// EntityConfig groups meshes into one stateful object. IsObject
// entities register for picking; helper entities do not.
type EntityConfig struct {
	ID       string
	MeshIDs  []string
	IsObject bool
	Flags    dtx.ObjectFlags
}

// DefaultEntityFlags returns the initial state of a regular object:
// visible, pickable and clippable, no emphasis.
func DefaultEntityFlags() dtx.ObjectFlags {
	return dtx.ObjectFlags{
		Visible:   true,
		Pickable:  true,
		Clippable: true,
	}
}

// mesh ties one geometry instance to the layer slot that renders it.
// Layer and object index are assigned at Finalize.
type mesh struct {
	id     string
	geomID string
	geom   *geometry.Geometry
	origin [3]float64
	matrix math.Mat4
	color  [4]uint8

	entity    *Entity
	layer     *dtx.Layer
	objectIdx int
}

// Model batches geometry into data-texture layers and exposes its
// objects as entities. Build with CreateGeometry, CreateMesh and
// CreateEntity, pack with Finalize, move to the GPU with Upload.
type Model struct {
	id     string
	scene  *Scene
	matrix math.Mat4

	geometries map[string]*geometry.Geometry
	meshes     map[string]*mesh
	meshOrder  []*mesh
	entities   []*Entity

	layers    []*dtx.Layer
	openLayer map[[3]float64]*dtx.Layer
	interned  map[*dtx.Layer]map[string]*dtx.LayerGeometry

	aabb      geometry.Bounds
	finalized bool
}

func newModel(s *Scene, id string, matrix math.Mat4) *Model {
	return &Model{
		id:         id,
		scene:      s,
		matrix:     matrix,
		geometries: map[string]*geometry.Geometry{},
		meshes:     map[string]*mesh{},
		openLayer:  map[[3]float64]*dtx.Layer{},
		interned:   map[*dtx.Layer]map[string]*dtx.LayerGeometry{},
		aabb:       geometry.EmptyBounds(),
	}
}

// ID returns the model's identifier.
func (m *Model) ID() string { return m.id }

// Matrix returns the model's world matrix.
func (m *Model) Matrix() math.Mat4 { return m.matrix }

// Layers returns the model's layers in build order.
func (m *Model) Layers() []*dtx.Layer { return m.layers }

// Entities returns the model's entities in creation order.
func (m *Model) Entities() []*Entity { return m.entities }

// AABB returns the model's world-space bounds, valid after Finalize.
func (m *Model) AABB() geometry.Bounds { return m.aabb }

// Finalized reports whether Finalize has run.
func (m *Model) Finalized() bool { return m.finalized }

// CreateGeometry registers a geometry under an ID. When no edge list
// is given, edges are derived from triangle adjacency.
func (m *Model) CreateGeometry(cfg GeometryConfig) error {
	if m.finalized {
		return errModelFinalized
	}
	if cfg.ID == "" {
		return fmt.Errorf("scene: geometry needs an id")
	}
	if _, ok := m.geometries[cfg.ID]; ok {
		return fmt.Errorf("scene: geometry %q already exists", cfg.ID)
	}
	if len(cfg.Positions) == 0 || len(cfg.Indices) < 3 {
		return fmt.Errorf("scene: geometry %q needs positions and at least one triangle", cfg.ID)
	}

	edges := cfg.EdgeIndices
	if edges == nil {
		edges = geometry.BuildEdgeIndices(cfg.Positions, cfg.Indices, edgeThresholdDeg)
	}
	m.geometries[cfg.ID] = &geometry.Geometry{
		Positions:   cfg.Positions,
		Indices:     cfg.Indices,
		EdgeIndices: edges,
		Solid:       cfg.Solid,
	}
	return nil
}

// CreateMesh instantiates a registered geometry. The mesh renders only
// once an entity adopts it.
func (m *Model) CreateMesh(cfg MeshConfig) error {
	if m.finalized {
		return errModelFinalized
	}
	if cfg.ID == "" {
		return fmt.Errorf("scene: mesh needs an id")
	}
	if _, ok := m.meshes[cfg.ID]; ok {
		return fmt.Errorf("scene: mesh %q already exists", cfg.ID)
	}
	geom, ok := m.geometries[cfg.GeometryID]
	if !ok {
		return fmt.Errorf("scene: mesh %q references unknown geometry %q", cfg.ID, cfg.GeometryID)
	}

	msh := &mesh{
		id:     cfg.ID,
		geomID: cfg.GeometryID,
		geom:   geom,
		origin: cfg.Origin,
		matrix: cfg.Matrix,
		color:  [4]uint8{cfg.Color[0], cfg.Color[1], cfg.Color[2], cfg.Opacity},
	}
	m.meshes[cfg.ID] = msh
	m.meshOrder = append(m.meshOrder, msh)
	return nil
}

// CreateEntity groups meshes into one object. Every mesh may belong to
// at most one entity.
func (m *Model) CreateEntity(cfg EntityConfig) (*Entity, error) {
	if m.finalized {
		return nil, errModelFinalized
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("scene: entity needs an id")
	}
	if len(cfg.MeshIDs) == 0 {
		return nil, fmt.Errorf("scene: entity %q needs at least one mesh", cfg.ID)
	}

	e := &Entity{
		id:    cfg.ID,
		model: m,
		flags: cfg.Flags,
		aabb:  geometry.EmptyBounds(),
	}
	for _, meshID := range cfg.MeshIDs {
		msh, ok := m.meshes[meshID]
		if !ok {
			return nil, fmt.Errorf("scene: entity %q references unknown mesh %q", cfg.ID, meshID)
		}
		if msh.entity != nil {
			return nil, fmt.Errorf("scene: mesh %q already belongs to entity %q", meshID, msh.entity.id)
		}
		e.triangles += msh.geom.TriangleCount()
	}
	// All meshes validated; adopt them.
	for _, meshID := range cfg.MeshIDs {
		msh := m.meshes[meshID]
		msh.entity = e
		e.meshes = append(e.meshes, msh)
	}
	if cfg.IsObject {
		e.pickID = m.scene.registerEntity(e)
	}
	m.entities = append(m.entities, e)
	return e, nil
}

// Finalize assigns every adopted mesh to a layer, packs the layers and
// locks the model against further building. Meshes no entity adopted
// are skipped with a warning.
func (m *Model) Finalize() error {
	if m.finalized {
		return errModelFinalized
	}

	for _, msh := range m.meshOrder {
		if msh.entity == nil {
			logger.Log.Warn("mesh belongs to no entity, skipping",
				zap.String("model", m.id),
				zap.String("mesh", msh.id),
			)
			continue
		}
		if err := m.placeMesh(msh); err != nil {
			return fmt.Errorf("placing mesh %q: %w", msh.id, err)
		}
		m.growAABB(msh)
	}

	objects := 0
	for _, l := range m.layers {
		if err := l.Finalize(); err != nil {
			return fmt.Errorf("finalizing layer: %w", err)
		}
		objects += l.ObjectCount()
	}
	m.finalized = true

	logger.Log.Info("model finalized",
		zap.String("model", m.id),
		zap.Int("layers", len(m.layers)),
		zap.Int("objects", objects),
		zap.Int("entities", len(m.entities)),
	)
	return nil
}

// placeMesh interns the mesh's geometry into a layer for its origin
// and allocates its object slot. A full layer is retired and replaced
// with a fresh one for that origin.
func (m *Model) placeMesh(msh *mesh) error {
	for attempt := 0; ; attempt++ {
		l := m.openLayer[msh.origin]
		if l == nil {
			l = dtx.NewLayer(msh.origin)
			m.openLayer[msh.origin] = l
			m.layers = append(m.layers, l)
			m.interned[l] = map[string]*dtx.LayerGeometry{}
		}

		idx, err := m.addToLayer(l, msh)
		if err == nil {
			msh.layer = l
			msh.objectIdx = idx
			return nil
		}
		if attempt > 0 || !layerFull(err) {
			return err
		}
		// Retire the full layer; the next iteration opens a fresh one.
		delete(m.openLayer, msh.origin)
	}
}

func (m *Model) addToLayer(l *dtx.Layer, msh *mesh) (int, error) {
	lg, ok := m.interned[l][msh.geomID]
	if !ok {
		var err error
		lg, err = l.AddGeometry(msh.geom)
		if err != nil {
			return 0, err
		}
		m.interned[l][msh.geomID] = lg
	}

	var pickColor [4]uint8
	if msh.entity.pickID != 0 {
		pickColor = picking.EncodeID(msh.entity.pickID)
	}
	return l.AddObject(dtx.ObjectConfig{
		Geometry:       lg,
		InstanceMatrix: msh.matrix,
		Color:          msh.entity.appliedColor(msh),
		PickColor:      pickColor,
		Flags:          msh.entity.flags,
	})
}

// layerFull reports whether an error means the layer ran out of
// capacity, recoverable by starting a new layer.
func layerFull(err error) bool {
	return errors.Is(err, dtx.ErrTooManyObjects) || errors.Is(err, dtx.ErrTooManyVertices)
}

// growAABB extends the model bounds by a placed mesh. World position
// is the layer origin plus the model and instance transforms.
func (m *Model) growAABB(msh *mesh) {
	b := msh.geom.ComputeBounds()
	for _, corner := range boundsCorners(b) {
		p := m.matrix.TransformPoint(msh.matrix.TransformPoint(corner))
		p[0] += float32(msh.origin[0])
		p[1] += float32(msh.origin[1])
		p[2] += float32(msh.origin[2])
		m.aabb.Grow(p)
		if msh.entity != nil {
			msh.entity.aabb.Grow(p)
		}
	}
}

func boundsCorners(b geometry.Bounds) [8][3]float32 {
	var out [8][3]float32
	for i := 0; i < 8; i++ {
		out[i] = [3]float32{
			pick01(b.Min[0], b.Max[0], i&1 != 0),
			pick01(b.Min[1], b.Max[1], i&2 != 0),
			pick01(b.Min[2], b.Max[2], i&4 != 0),
		}
	}
	return out
}

func pick01(min, max float32, hi bool) float32 {
	if hi {
		return max
	}
	return min
}

// Upload moves every layer's textures to the GPU. Requires a current
// GL context.
func (m *Model) Upload() error {
	if !m.finalized {
		return fmt.Errorf("scene: model %q not finalized", m.id)
	}
	for _, l := range m.layers {
		if err := l.Upload(); err != nil {
			return fmt.Errorf("uploading layer: %w", err)
		}
	}
	return nil
}

// Destroy releases every layer's GPU textures.
func (m *Model) Destroy() {
	for _, l := range m.layers {
		l.Destroy()
	}
	m.layers = nil
	m.openLayer = map[[3]float64]*dtx.Layer{}
}
