// Package sao implements scalable ambient obscurance: a packed depth
// pre-pass feeds a screen-space occlusion estimate, a depth-limited
// blur smooths it, and the color pass multiplies the result in.
package sao

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/framebuffer"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/sao/shaders"
	"github.com/xeokit/xeokit-sdk-sub013/internal/engine/shader"
)

// Params tunes the obscurance estimate.
type Params struct {
	Intensity     float32 // darkening strength
	Bias          float32 // normal-angle cutoff against self-shadowing
	Scale         float32 // distance falloff
	KernelRadius  float32 // sample spiral radius, pixels
	MinResolution float32 // ignore occluders below this normal delta
	NumSamples    int     // spiral samples per pixel
	DepthCutoff   float32 // blur depth-similarity window, normalized
}

// DefaultParams returns the tuning the viewer ships with.
func DefaultParams() Params {
	return Params{
		Intensity:     0.15,
		Bias:          0.5,
		Scale:         1.0,
		KernelRadius:  100,
		MinResolution: 0,
		NumSamples:    10,
		DepthCutoff:   0.01,
	}
}

// Pipeline owns the render targets and programs of the obscurance
// passes. The caller renders packed depth into DepthTarget, calls
// Process, and samples OcclusionTexture during its color pass.
type Pipeline struct {
	params Params

	depth     *framebuffer.Framebuffer
	occlusion *framebuffer.Framebuffer
	blur      *framebuffer.Framebuffer

	occlusionProg *shader.Program
	blurProg      *shader.Program
}

// New creates the pipeline's render targets and compiles its programs.
func New(width, height int32, params Params) (*Pipeline, error) {
	p := &Pipeline{params: params}

	var err error
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()

	if p.depth, err = framebuffer.NewKind(width, height, framebuffer.KindData); err != nil {
		return nil, fmt.Errorf("creating depth target: %w", err)
	}
	if p.occlusion, err = framebuffer.NewKind(width, height, framebuffer.KindData); err != nil {
		return nil, fmt.Errorf("creating occlusion target: %w", err)
	}
	if p.blur, err = framebuffer.NewKind(width, height, framebuffer.KindData); err != nil {
		return nil, fmt.Errorf("creating blur target: %w", err)
	}

	if p.occlusionProg, err = shader.NewProgram(shaders.FullscreenVertexShader, shaders.OcclusionFragmentShader); err != nil {
		return nil, fmt.Errorf("compiling occlusion program: %w", err)
	}
	if p.blurProg, err = shader.NewProgram(shaders.FullscreenVertexShader, shaders.BlurFragmentShader); err != nil {
		return nil, fmt.Errorf("compiling blur program: %w", err)
	}
	return p, nil
}

// Params returns the pipeline's tuning.
func (p *Pipeline) Params() Params { return p.params }

// DepthTarget returns the framebuffer the depth pre-pass renders into.
func (p *Pipeline) DepthTarget() *framebuffer.Framebuffer { return p.depth }

// OcclusionTexture returns the blurred occlusion texture, valid after
// Process.
func (p *Pipeline) OcclusionTexture() uint32 { return p.occlusion.ColorTexture() }

// Process runs the occlusion estimate and both blur directions over
// the current depth target. Fullscreen triangles draw through the
// currently bound vertex array.
func (p *Pipeline) Process(near, far, tanHalfFov, aspect float32) {
	gl.Disable(gl.DEPTH_TEST)

	w, h := p.occlusion.Size()

	restore := p.occlusion.BindWithViewport()
	prog := p.occlusionProg
	prog.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.depth.ColorTexture())
	prog.SetInt("uDepthTexture", 0)
	prog.SetVec2("uViewportSize", float32(w), float32(h))
	prog.SetFloat("uCameraNear", near)
	prog.SetFloat("uCameraFar", far)
	prog.SetVec2("uPerspectiveFactors", tanHalfFov*aspect, tanHalfFov)
	prog.SetFloat("uIntensity", p.params.Intensity)
	prog.SetFloat("uBias", p.params.Bias)
	prog.SetFloat("uScale", p.params.Scale)
	prog.SetFloat("uKernelRadius", p.params.KernelRadius)
	prog.SetFloat("uMinResolution", p.params.MinResolution)
	prog.SetInt("uNumSamples", int32(p.params.NumSamples))
	prog.SetFloat("uRandomSeed", 0)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	restore()

	p.blurPass(p.blur, p.occlusion.ColorTexture(), 1.0/float32(w), 0)
	p.blurPass(p.occlusion, p.blur.ColorTexture(), 0, 1.0/float32(h))

	gl.Enable(gl.DEPTH_TEST)
}

func (p *Pipeline) blurPass(target *framebuffer.Framebuffer, input uint32, offsetX, offsetY float32) {
	restore := target.BindWithViewport()
	prog := p.blurProg
	prog.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, input)
	prog.SetInt("uOcclusionTexture", 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, p.depth.ColorTexture())
	prog.SetInt("uDepthTexture", 1)
	prog.SetVec2("uTexelOffset", offsetX, offsetY)
	prog.SetFloat("uDepthCutoff", p.params.DepthCutoff)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	restore()
}

// Resize matches the render targets to a new viewport.
func (p *Pipeline) Resize(width, height int32) {
	p.depth.Resize(width, height)
	p.occlusion.Resize(width, height)
	p.blur.Resize(width, height)
}

// Destroy releases the render targets and programs.
func (p *Pipeline) Destroy() {
	if p.depth != nil {
		p.depth.Destroy()
		p.depth = nil
	}
	if p.occlusion != nil {
		p.occlusion.Destroy()
		p.occlusion = nil
	}
	if p.blur != nil {
		p.blur.Destroy()
		p.blur = nil
	}
	if p.occlusionProg != nil {
		p.occlusionProg.Destroy()
		p.occlusionProg = nil
	}
	if p.blurProg != nil {
		p.blurProg.Destroy()
		p.blurProg = nil
	}
}
