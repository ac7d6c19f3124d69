package scene

import (
	"strings"
	"testing"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/scene/shaders"
)

func TestPurposeSources(t *testing.T) {
	cfg := shaders.Config{Lights: 2, SectionPlanes: 1, LogDepth: true}
	for p := PurposeColor; p < numPurposes; p++ {
		v, f := p.sources(cfg)
		if v == "" || f == "" {
			t.Errorf("purpose %s generated empty sources", p)
		}
		if !strings.HasPrefix(v, "#version 410 core") {
			t.Errorf("purpose %s vertex source missing version header", p)
		}
	}
}

func TestPurposeString(t *testing.T) {
	seen := map[string]Purpose{}
	for p := PurposeColor; p < numPurposes; p++ {
		s := p.String()
		if s == "unknown" {
			t.Errorf("purpose %d has no name", p)
		}
		if prev, ok := seen[s]; ok {
			t.Errorf("purposes %d and %d share the name %q", prev, p, s)
		}
		seen[s] = p
	}
}

func TestPurposeEdges(t *testing.T) {
	edgePurposes := map[Purpose]bool{
		PurposeEdgesColor:    true,
		PurposeEdgesEmphasis: true,
		PurposeSnapEdges:     true,
	}
	for p := PurposeColor; p < numPurposes; p++ {
		if got, want := p.edges(), edgePurposes[p]; got != want {
			t.Errorf("purpose %s edges = %t, want %t", p, got, want)
		}
	}
}

func TestStateHash(t *testing.T) {
	a := stateHash(shaders.Config{Lights: 2, SectionPlanes: 1})
	b := stateHash(shaders.Config{Lights: 2, SectionPlanes: 1})
	if a != b {
		t.Errorf("equal configs hash differently: %q vs %q", a, b)
	}

	variants := []shaders.Config{
		{Lights: 3, SectionPlanes: 1},
		{Lights: 2, SectionPlanes: 2},
		{Lights: 2, SectionPlanes: 1, SAO: true},
		{Lights: 2, SectionPlanes: 1, LogDepth: true},
	}
	for _, cfg := range variants {
		if h := stateHash(cfg); h == a {
			t.Errorf("config %+v collides with baseline hash %q", cfg, a)
		}
	}
}
