package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/xeokit/xeokit-sdk-sub013/pkg/math"
)

// Program wraps a linked GL program with a uniform location cache.
// Data-texture renderers set a handful of uniforms per layer per
// frame; caching the lookups keeps the draw loop free of string
// traffic.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a program from vertex and fragment
// sources.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{
		ID:       id,
		uniforms: make(map[string]int32),
	}, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the cached location of a uniform, -1 when the
// linker optimized it out.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a matrix uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetVec2 uploads a 2-component uniform.
func (p *Program) SetVec2(name string, x, y float32) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.Uniform2f(loc, x, y)
	}
}

// SetVec3 uploads a 3-component uniform.
func (p *Program) SetVec3(name string, x, y, z float32) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.Uniform3f(loc, x, y, z)
	}
}

// SetVec4 uploads a 4-component uniform.
func (p *Program) SetVec4(name string, x, y, z, w float32) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.Uniform4f(loc, x, y, z, w)
	}
}

// SetVec4Array uploads an array of vec4 uniforms from a flat slice,
// 4 values per element.
func (p *Program) SetVec4Array(name string, v []float32) {
	if loc := p.Uniform(name); loc >= 0 && len(v) >= 4 {
		gl.Uniform4fv(loc, int32(len(v)/4), &v[0])
	}
}

// SetFloat uploads a scalar uniform.
func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// SetInt uploads an integer uniform, also used to assign sampler
// units.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// Destroy releases the GL program.
func (p *Program) Destroy() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
