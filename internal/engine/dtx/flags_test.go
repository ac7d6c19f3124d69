package dtx

import "testing"

func TestPassFlagsHidden(t *testing.T) {
	states := []ObjectFlags{
		{Visible: false, Pickable: true, Edges: true},
		{Visible: true, Culled: true},
		{Visible: true, CulledLOD: true, Selected: true},
	}
	for _, f := range states {
		if got := ComputePassFlags(f); got != [4]uint8{} {
			t.Errorf("hidden object %+v: got flags %v, want all notRendered", f, got)
		}
	}
}

func TestPassFlagsOpaque(t *testing.T) {
	f := ObjectFlags{Visible: true, Pickable: true}
	got := ComputePassFlags(f)

	if got[ChannelColor] != uint8(PassColorOpaque) {
		t.Errorf("color channel: got %d, want colorOpaque", got[ChannelColor])
	}
	if got[ChannelSilhouette] != uint8(PassNotRendered) {
		t.Errorf("silhouette channel: got %d, want notRendered", got[ChannelSilhouette])
	}
	if got[ChannelEdges] != uint8(PassNotRendered) {
		t.Errorf("edges channel: got %d, want notRendered", got[ChannelEdges])
	}
	if got[ChannelPick] != uint8(PassPick) {
		t.Errorf("pick channel: got %d, want pick", got[ChannelPick])
	}
}

func TestPassFlagsTransparent(t *testing.T) {
	f := ObjectFlags{Visible: true, Transparent: true, Edges: true}
	got := ComputePassFlags(f)

	if got[ChannelColor] != uint8(PassColorTransparent) {
		t.Errorf("color channel: got %d, want colorTransparent", got[ChannelColor])
	}
	if got[ChannelEdges] != uint8(PassEdgesColorTransparent) {
		t.Errorf("edges channel: got %d, want edgesColorTransparent", got[ChannelEdges])
	}
}

func TestPassFlagsXrayed(t *testing.T) {
	f := ObjectFlags{Visible: true, Xrayed: true, Edges: true}
	got := ComputePassFlags(f)

	// Xrayed objects leave the color pass entirely; only the
	// silhouette (and edge) passes draw them.
	if got[ChannelColor] != uint8(PassNotRendered) {
		t.Errorf("color channel: got %d, want notRendered", got[ChannelColor])
	}
	if got[ChannelSilhouette] != uint8(PassSilhouetteXrayed) {
		t.Errorf("silhouette channel: got %d, want silhouetteXrayed", got[ChannelSilhouette])
	}
	if got[ChannelEdges] != uint8(PassEdgesXrayed) {
		t.Errorf("edges channel: got %d, want edgesXrayed", got[ChannelEdges])
	}
}

func TestPassFlagsSelectionPriority(t *testing.T) {
	f := ObjectFlags{Visible: true, Xrayed: true, Highlighted: true, Selected: true, Edges: true}
	got := ComputePassFlags(f)

	if got[ChannelSilhouette] != uint8(PassSilhouetteSelected) {
		t.Errorf("selected should win the silhouette channel, got %d", got[ChannelSilhouette])
	}
	if got[ChannelEdges] != uint8(PassEdgesSelected) {
		t.Errorf("selected should win the edges channel, got %d", got[ChannelEdges])
	}

	f.Selected = false
	got = ComputePassFlags(f)
	if got[ChannelSilhouette] != uint8(PassSilhouetteHighlighted) {
		t.Errorf("highlighted should beat xrayed, got %d", got[ChannelSilhouette])
	}
}

func TestPassFlagsOpaqueEdges(t *testing.T) {
	f := ObjectFlags{Visible: true, Edges: true}
	got := ComputePassFlags(f)

	if got[ChannelEdges] != uint8(PassEdgesColorOpaque) {
		t.Errorf("edges channel: got %d, want edgesColorOpaque", got[ChannelEdges])
	}
}

func TestFlags2(t *testing.T) {
	got := ComputeFlags2(ObjectFlags{Clippable: true})
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("clippable: got %v, want [1 0 0 0]", got)
	}

	got = ComputeFlags2(ObjectFlags{CulledLOD: true})
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("lod culled: got %v, want [0 1 0 0]", got)
	}
}

func TestPassChannel(t *testing.T) {
	cases := []struct {
		pass    RenderPass
		channel FlagChannel
		want    RenderPass
	}{
		{PassColorOpaque, ChannelColor, PassColorOpaque},
		{PassColorTransparent, ChannelColor, PassColorTransparent},
		{PassSilhouetteSelected, ChannelSilhouette, PassSilhouetteSelected},
		{PassEdgesHighlighted, ChannelEdges, PassEdgesHighlighted},
		{PassPick, ChannelPick, PassPick},
		{PassSnap, ChannelPick, PassPick},
		{PassOcclusion, ChannelColor, PassColorOpaque},
	}
	for _, c := range cases {
		channel, want := PassChannel(c.pass)
		if channel != c.channel || want != c.want {
			t.Errorf("PassChannel(%s): got (%d, %s), want (%d, %s)",
				c.pass, channel, want, c.channel, c.want)
		}
	}
}
