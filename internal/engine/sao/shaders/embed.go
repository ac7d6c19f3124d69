// Package shaders provides embedded GLSL sources for the ambient
// obscurance passes.
package shaders

import _ "embed"

// FullscreenVertexShader draws a viewport-covering triangle from
// gl_VertexID alone.
//
//go:embed fullscreen.vert
var FullscreenVertexShader string

// OcclusionFragmentShader estimates ambient obscurance from the
// packed depth texture.
//
//go:embed occlusion.frag
var OcclusionFragmentShader string

// BlurFragmentShader is one direction of the depth-limited blur.
//
//go:embed blur.frag
var BlurFragmentShader string
