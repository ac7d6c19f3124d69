// Package renderer owns the window-facing side of a frame: OpenGL
// initialization and presenting an offscreen color texture onto the
// default framebuffer.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/shader"
	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
)

const presentVertexShader = `#version 410 core
out vec2 vUV;
void main() {
	vUV = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	gl_Position = vec4(vUV * 2.0 - 1.0, 0.0, 1.0);
}
`

const presentFragmentShader = `#version 410 core
in vec2 vUV;
uniform sampler2D uSceneTexture;
out vec4 outColor;
void main() {
	outColor = texture(uSceneTexture, vUV);
}
`

// Config holds presenter configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer initializes GL state for a window and blits offscreen
// scene output to it with a fullscreen triangle.
type Renderer struct {
	config  Config
	program *shader.Program
	vao     uint32
}

// New initializes OpenGL and builds the present pass.
// Must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.program, err = shader.NewProgram(presentVertexShader, presentFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("creating present program: %w", err)
	}
	gl.GenVertexArrays(1, &r.vao)

	return r, nil
}

// Resize updates the window viewport the presenter draws into.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
}

// Present stretches a color texture over the default framebuffer.
func (r *Renderer) Present(texture uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.Disable(gl.DEPTH_TEST)

	r.program.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	r.program.SetInt("uSceneTexture", 0)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.Enable(gl.DEPTH_TEST)
}

// Close releases the present pass resources.
func (r *Renderer) Close() {
	if r.program != nil {
		r.program.Destroy()
		r.program = nil
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}
