package shaders

import (
	"strings"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/dtx"
)

// EdgesColor returns the wireframe-overlay program for the plain
// color passes. Edges draw in the object's own color darkened, so the
// overlay reads as structure rather than highlight.
func EdgesColor(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel:    dtx.ChannelEdges,
		edges:      true,
		fetchColor: true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	b.WriteString("in vec4 vColor;\n")
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutColor = vec4(vColor.rgb * 0.5, vColor.a);\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}

// EdgesEmphasis returns the wireframe program for the xray, highlight
// and select edge passes, drawn in a uniform material color.
func EdgesEmphasis(cfg Config) (vertex, fragment string) {
	spec := vertexSpec{
		channel: dtx.ChannelEdges,
		edges:   true,
	}
	vertex = buildVertex(spec, cfg)

	var b strings.Builder
	header(&b)
	fragmentSectionPlaneInputs(&b, cfg, false)
	fragmentLogDepthInputs(&b, cfg)
	b.WriteString("uniform vec4 uEdgeColor;\n")
	b.WriteString("\nout vec4 outColor;\n\n")
	b.WriteString("void main(void) {\n")
	fragmentSectionPlanes(&b, cfg)
	b.WriteString("\toutColor = uEdgeColor;\n")
	fragmentLogDepth(&b, cfg)
	b.WriteString("}\n")
	return vertex, b.String()
}
