// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"fmt"

	"gioui.org/shader"
	"golang.org/x/image/math/f32"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
	"gioui.org/gpudriver/internal/shaders"
)

const shaderTypes = 2

// Uniform slots in upload order.
const (
	uniformState = iota
	uniformTransform
	uniformScalar4
	uniformVector
	uniformClipSize
	uniformClip
	uniformCount
)

var uniformNames = [uniformCount]string{
	uniformState:     shaders.UniformState,
	uniformTransform: shaders.UniformTransform,
	uniformScalar4:   shaders.UniformScalar4,
	uniformVector:    shaders.UniformVector,
	uniformClipSize:  shaders.UniformClipSize,
	uniformClip:      shaders.UniformClip,
}

type program struct {
	obj      gl.Program
	uniforms [uniformCount]gl.Uniform
}

func sourcesFor(t driver.ShaderType) (vs, fs shader.Sources, ok bool) {
	switch t {
	case driver.ShaderTypeFill:
		return shaders.Fill[0], shaders.Fill[1], true
	case driver.ShaderTypeFillPath:
		return shaders.FillPath[0], shaders.FillPath[1], true
	default:
		return shader.Sources{}, shader.Sources{}, false
	}
}

// loadPrograms compiles and links every shader variant. Programs live
// as long as the driver.
func (d *Driver) loadPrograms(op string) {
	if d.programsLoaded {
		return
	}
	for t := driver.ShaderType(0); t < shaderTypes; t++ {
		vs, fs, _ := sourcesFor(t)
		p, err := d.newProgram(vs, fs)
		if err != nil {
			driver.Fatal(&driver.BackendResourceError{
				Op:         op,
				Diagnostic: fmt.Sprintf("%s program", t),
				Err:        err,
			})
		}
		d.programs[t] = p
	}
	d.programsLoaded = true
}

func (d *Driver) newProgram(vs, fs shader.Sources) (*program, error) {
	attr := make([]string, len(vs.Inputs))
	for _, inp := range vs.Inputs {
		attr[inp.Location] = inp.Name
	}
	obj, err := gl.CreateProgram(d.funcs, vs.GLSL150, fs.GLSL150, attr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vs.Name, err)
	}
	p := &program{obj: obj}
	d.funcs.UseProgram(obj)
	for _, tex := range fs.Textures {
		u := d.funcs.GetUniformLocation(obj, tex.Name)
		if u.Valid() {
			d.funcs.Uniform1i(u, tex.Binding)
		}
	}
	// Uniforms the compiler optimized out keep an invalid location and
	// are skipped on upload.
	for i, name := range uniformNames {
		p.uniforms[i] = d.funcs.GetUniformLocation(obj, name)
	}
	driver.Logger().Debug("program linked", "name", vs.Name, "program", obj.V)
	return p, nil
}

// program returns the linked program of a shader variant.
func (d *Driver) program(op string, t driver.ShaderType) *program {
	if _, _, ok := sourcesFor(t); !ok {
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "shader type", Value: int(t)})
	}
	d.loadPrograms(op)
	return d.programs[t]
}

// setUniforms uploads the uniforms of state to the bound program p.
// flipY is set for offscreen targets.
func (d *Driver) setUniforms(p *program, state *driver.GPUState, flipY bool) {
	f := d.funcs
	if u := p.uniforms[uniformState]; u.Valid() {
		f.Uniform4f(u, float32(d.elapsed.Seconds()), float32(state.ViewportWidth), float32(state.ViewportHeight), 1)
	}
	if u := p.uniforms[uniformTransform]; u.Valid() {
		proj := projection(state.ViewportWidth, state.ViewportHeight, flipY)
		m := mul4(proj, state.Transform)
		f.UniformMatrix4fv(u, true, m[:])
	}
	if u := p.uniforms[uniformScalar4]; u.Valid() {
		f.Uniform4fv(u, state.UniformScalar[:])
	}
	if u := p.uniforms[uniformVector]; u.Valid() {
		buf := d.scratch[:0]
		for _, v := range state.UniformVector {
			buf = append(buf, v[:]...)
		}
		f.Uniform4fv(u, buf)
	}
	n := int(state.ClipSize)
	if n > driver.MaxClips {
		n = driver.MaxClips
	}
	if u := p.uniforms[uniformClipSize]; u.Valid() {
		f.Uniform1i(u, n)
	}
	if u := p.uniforms[uniformClip]; u.Valid() && n > 0 {
		buf := d.scratch[:0]
		for _, m := range state.Clip[:n] {
			buf = append(buf, m[:]...)
		}
		f.UniformMatrix4fv(u, true, buf)
	}
}

// projection maps pixel coordinates with the origin at the top left to
// clip space. Offscreen targets are flipped so that their textures are
// sampled upright.
func projection(width, height int, flipY bool) f32.Mat4 {
	w, h := float32(width), float32(height)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	sy, ty := -2/h, float32(1)
	if flipY {
		sy, ty = 2/h, -1
	}
	return f32.Mat4{
		2 / w, 0, 0, -1,
		0, sy, 0, ty,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// mul4 returns a×b for row major matrices.
func mul4(a, b f32.Mat4) f32.Mat4 {
	var m f32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a[r*4+k] * b[k*4+c]
			}
			m[r*4+c] = s
		}
	}
	return m
}
