package dtx

// RenderPass identifies one draw phase of a frame. The attribute
// texture stores, per object, the pass number each flag channel is
// routed to; a renderer culls every vertex whose object's channel does
// not match the pass being drawn.
type RenderPass uint8

const (
	PassNotRendered RenderPass = iota
	PassColorOpaque
	PassColorTransparent
	PassSilhouetteHighlighted
	PassSilhouetteSelected
	PassSilhouetteXrayed
	PassEdgesColorOpaque
	PassEdgesColorTransparent
	PassEdgesHighlighted
	PassEdgesSelected
	PassEdgesXrayed
	PassPick
	PassOcclusion
	PassSnap
)

// String names the pass for logs.
func (p RenderPass) String() string {
	switch p {
	case PassNotRendered:
		return "notRendered"
	case PassColorOpaque:
		return "colorOpaque"
	case PassColorTransparent:
		return "colorTransparent"
	case PassSilhouetteHighlighted:
		return "silhouetteHighlighted"
	case PassSilhouetteSelected:
		return "silhouetteSelected"
	case PassSilhouetteXrayed:
		return "silhouetteXrayed"
	case PassEdgesColorOpaque:
		return "edgesColorOpaque"
	case PassEdgesColorTransparent:
		return "edgesColorTransparent"
	case PassEdgesHighlighted:
		return "edgesHighlighted"
	case PassEdgesSelected:
		return "edgesSelected"
	case PassEdgesXrayed:
		return "edgesXrayed"
	case PassPick:
		return "pick"
	case PassOcclusion:
		return "occlusion"
	case PassSnap:
		return "snap"
	}
	return "unknown"
}

// FlagChannel is the attribute-flag component a renderer tests.
type FlagChannel int

const (
	ChannelColor      FlagChannel = 0 // flags.r
	ChannelSilhouette FlagChannel = 1 // flags.g
	ChannelEdges      FlagChannel = 2 // flags.b
	ChannelPick       FlagChannel = 3 // flags.a
)

// ObjectFlags is the externally driven state of one object. The texel
// form is derived from it by ComputePassFlags.
type ObjectFlags struct {
	Visible     bool
	Culled      bool // explicitly culled by the application
	CulledLOD   bool // culled by the LOD controller
	Pickable    bool
	Clippable   bool
	Xrayed      bool
	Highlighted bool
	Selected    bool
	Edges       bool // edge overlay enabled
	Transparent bool // color alpha below 255
}

// hidden reports whether the object is excluded from every pass.
func (f ObjectFlags) hidden() bool {
	return !f.Visible || f.Culled || f.CulledLOD
}

// ComputePassFlags routes the object's state to per-channel render
// passes: R color, G silhouette, B edges, A pick.
func ComputePassFlags(f ObjectFlags) [4]uint8 {
	var out [4]uint8 // all channels start at PassNotRendered

	if f.hidden() {
		return out
	}

	// Color channel. Xrayed objects appear only as silhouettes.
	if !f.Xrayed {
		if f.Transparent {
			out[ChannelColor] = uint8(PassColorTransparent)
		} else {
			out[ChannelColor] = uint8(PassColorOpaque)
		}
	}

	// Silhouette channel.
	switch {
	case f.Selected:
		out[ChannelSilhouette] = uint8(PassSilhouetteSelected)
	case f.Highlighted:
		out[ChannelSilhouette] = uint8(PassSilhouetteHighlighted)
	case f.Xrayed:
		out[ChannelSilhouette] = uint8(PassSilhouetteXrayed)
	}

	// Edges channel.
	if f.Edges {
		switch {
		case f.Selected:
			out[ChannelEdges] = uint8(PassEdgesSelected)
		case f.Highlighted:
			out[ChannelEdges] = uint8(PassEdgesHighlighted)
		case f.Xrayed:
			out[ChannelEdges] = uint8(PassEdgesXrayed)
		case f.Transparent:
			out[ChannelEdges] = uint8(PassEdgesColorTransparent)
		default:
			out[ChannelEdges] = uint8(PassEdgesColorOpaque)
		}
	}

	// Pick channel.
	if f.Pickable {
		out[ChannelPick] = uint8(PassPick)
	}

	return out
}

// ComputeFlags2 packs the secondary state texel: R clippable, G
// LOD-culled.
func ComputeFlags2(f ObjectFlags) [4]uint8 {
	var out [4]uint8
	if f.Clippable {
		out[0] = 1
	}
	if f.CulledLOD {
		out[1] = 1
	}
	return out
}

// PassChannel returns the flag channel a pass tests, and the pass
// value the channel must hold for the object to be drawn. Snap and
// occlusion ride existing channels: snap reuses the pick routing,
// occlusion tests opaque-color visibility.
func PassChannel(p RenderPass) (FlagChannel, RenderPass) {
	switch p {
	case PassColorOpaque, PassColorTransparent:
		return ChannelColor, p
	case PassSilhouetteHighlighted, PassSilhouetteSelected, PassSilhouetteXrayed:
		return ChannelSilhouette, p
	case PassEdgesColorOpaque, PassEdgesColorTransparent, PassEdgesHighlighted,
		PassEdgesSelected, PassEdgesXrayed:
		return ChannelEdges, p
	case PassPick, PassSnap:
		return ChannelPick, PassPick
	case PassOcclusion:
		return ChannelColor, PassColorOpaque
	}
	return ChannelColor, PassNotRendered
}
