package scene

import (
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/geometry"
)

// Entity is one stateful object spanning one or more meshes. Flag and
// color setters write straight through to the owning layers' texels,
// so a change is visible on the next draw.
type Entity struct {
	id        string
	model     *Model
	pickID    uint32
	flags     dtx.ObjectFlags
	meshes    []*mesh
	triangles int
	aabb      geometry.Bounds

	colorize *[3]uint8
	opacity  *uint8
}

// ID returns the entity's identifier.
func (e *Entity) ID() string { return e.id }

// Model returns the owning model.
func (e *Entity) Model() *Model { return e.model }

// PickID returns the entity's pick identifier, 0 for helper entities.
func (e *Entity) PickID() uint32 { return e.pickID }

// TriangleCount returns the summed triangle count of the entity's
// meshes, the quantity LOD bucketing runs on.
func (e *Entity) TriangleCount() int { return e.triangles }

// AABB returns the entity's world-space bounds, valid after the model
// is finalized.
func (e *Entity) AABB() geometry.Bounds { return e.aabb }

// Flags returns a copy of the entity's state flags.
func (e *Entity) Flags() dtx.ObjectFlags { return e.flags }

func (e *Entity) Visible() bool     { return e.flags.Visible }
func (e *Entity) Culled() bool      { return e.flags.Culled }
func (e *Entity) LodCulled() bool   { return e.flags.CulledLOD }
func (e *Entity) Xrayed() bool      { return e.flags.Xrayed }
func (e *Entity) Highlighted() bool { return e.flags.Highlighted }
func (e *Entity) Selected() bool    { return e.flags.Selected }
func (e *Entity) Edges() bool       { return e.flags.Edges }
func (e *Entity) Pickable() bool    { return e.flags.Pickable }
func (e *Entity) Clippable() bool   { return e.flags.Clippable }

// SetVisible shows or hides the entity in every pass.
func (e *Entity) SetVisible(v bool) {
	if e.flags.Visible == v {
		return
	}
	e.flags.Visible = v
	e.pushFlags()
}

// SetCulled sets the application-driven cull state.
func (e *Entity) SetCulled(v bool) {
	if e.flags.Culled == v {
		return
	}
	e.flags.Culled = v
	e.pushFlags()
}

// SetLodCulled sets the cull state driven by the LOD controller.
func (e *Entity) SetLodCulled(v bool) {
	if e.flags.CulledLOD == v {
		return
	}
	e.flags.CulledLOD = v
	e.pushFlags()
}

// SetXrayed moves the entity between the color and xray passes.
func (e *Entity) SetXrayed(v bool) {
	if e.flags.Xrayed == v {
		return
	}
	e.flags.Xrayed = v
	e.pushFlags()
}

// SetHighlighted overlays the entity with the highlight silhouette.
func (e *Entity) SetHighlighted(v bool) {
	if e.flags.Highlighted == v {
		return
	}
	e.flags.Highlighted = v
	e.pushFlags()
}

// SetSelected overlays the entity with the selection silhouette.
func (e *Entity) SetSelected(v bool) {
	if e.flags.Selected == v {
		return
	}
	e.flags.Selected = v
	e.pushFlags()
}

// SetEdges toggles the entity's edge overlay.
func (e *Entity) SetEdges(v bool) {
	if e.flags.Edges == v {
		return
	}
	e.flags.Edges = v
	e.pushFlags()
}

// SetPickable includes or excludes the entity from the pick pass.
func (e *Entity) SetPickable(v bool) {
	if e.flags.Pickable == v {
		return
	}
	e.flags.Pickable = v
	e.pushFlags()
}

// SetClippable controls whether section planes cut the entity.
func (e *Entity) SetClippable(v bool) {
	if e.flags.Clippable == v {
		return
	}
	e.flags.Clippable = v
	e.pushFlags()
}

// SetColorize overrides the entity's color, keeping each mesh's
// opacity. RestoreColor undoes it.
func (e *Entity) SetColorize(rgb [3]uint8) {
	c := rgb
	e.colorize = &c
	e.pushColors()
}

// SetOpacity overrides the entity's opacity. Crossing the opaque
// threshold re-routes the color pass between opaque and transparent.
func (e *Entity) SetOpacity(a uint8) {
	o := a
	e.opacity = &o
	e.pushColors()
}

// RestoreColor drops any colorize and opacity overrides.
func (e *Entity) RestoreColor() {
	if e.colorize == nil && e.opacity == nil {
		return
	}
	e.colorize = nil
	e.opacity = nil
	e.pushColors()
}

// appliedColor returns a mesh's color with the entity overrides in.
func (e *Entity) appliedColor(msh *mesh) [4]uint8 {
	c := msh.color
	if e.colorize != nil {
		c[0], c[1], c[2] = e.colorize[0], e.colorize[1], e.colorize[2]
	}
	if e.opacity != nil {
		c[3] = *e.opacity
	}
	return c
}

// pushFlags writes the entity flags into every placed mesh's texels.
// Meshes not yet placed pick the flags up at placement.
func (e *Entity) pushFlags() {
	for _, msh := range e.meshes {
		if msh.layer != nil {
			_ = msh.layer.SetFlags(msh.objectIdx, e.flags)
		}
	}
}

func (e *Entity) pushColors() {
	for _, msh := range e.meshes {
		if msh.layer != nil {
			_ = msh.layer.SetColor(msh.objectIdx, e.appliedColor(msh))
		}
	}
}
