// SPDX-License-Identifier: Unlicense OR MIT

// Package glcore implements gl.Functions on top of the
// github.com/go-gl/gl OpenGL 3.3 core profile bindings. A context must
// be current on the calling thread before Init and for every call.
package glcore

import (
	"strings"
	"unsafe"

	gogl "github.com/go-gl/gl/v3.3-core/gl"

	"gioui.org/gpudriver/gl"
)

// Functions calls straight into the loaded GL entry points.
type Functions struct{}

var _ gl.Functions = Functions{}

// Init loads the GL entry points of the current context.
func Init() (Functions, error) {
	if err := gogl.Init(); err != nil {
		return Functions{}, err
	}
	return Functions{}, nil
}

func (Functions) ActiveTexture(texture gl.Enum) {
	gogl.ActiveTexture(uint32(texture))
}

func (Functions) AttachShader(p gl.Program, s gl.Shader) {
	gogl.AttachShader(uint32(p.V), uint32(s.V))
}

func (Functions) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	cname, free := gogl.Strs(name + "\x00")
	defer free()
	gogl.BindAttribLocation(uint32(p.V), uint32(a), *cname)
}

func (Functions) BindBuffer(target gl.Enum, b gl.Buffer) {
	gogl.BindBuffer(uint32(target), uint32(b.V))
}

func (Functions) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	gogl.BindFramebuffer(uint32(target), uint32(fb.V))
}

func (Functions) BindTexture(target gl.Enum, t gl.Texture) {
	gogl.BindTexture(uint32(target), uint32(t.V))
}

func (Functions) BindVertexArray(a gl.VertexArray) {
	gogl.BindVertexArray(uint32(a.V))
}

func (Functions) BlendFunc(sfactor, dfactor gl.Enum) {
	gogl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (Functions) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	gogl.BlitFramebuffer(int32(sx0), int32(sy0), int32(sx1), int32(sy1), int32(dx0), int32(dy0), int32(dx1), int32(dy1), uint32(mask), uint32(filter))
}

func (Functions) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	var p unsafe.Pointer
	if len(src) > 0 {
		p = gogl.Ptr(src)
	}
	gogl.BufferData(uint32(target), len(src), p, uint32(usage))
}

func (Functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(gogl.CheckFramebufferStatus(uint32(target)))
}

func (Functions) Clear(mask gl.Enum) {
	gogl.Clear(uint32(mask))
}

func (Functions) ClearColor(red, green, blue, alpha float32) {
	gogl.ClearColor(red, green, blue, alpha)
}

func (Functions) CompileShader(s gl.Shader) {
	gogl.CompileShader(uint32(s.V))
}

func (Functions) CreateBuffer() gl.Buffer {
	var v uint32
	gogl.GenBuffers(1, &v)
	return gl.Buffer{V: uint(v)}
}

func (Functions) CreateFramebuffer() gl.Framebuffer {
	var v uint32
	gogl.GenFramebuffers(1, &v)
	return gl.Framebuffer{V: uint(v)}
}

func (Functions) CreateProgram() gl.Program {
	return gl.Program{V: uint(gogl.CreateProgram())}
}

func (Functions) CreateShader(ty gl.Enum) gl.Shader {
	return gl.Shader{V: uint(gogl.CreateShader(uint32(ty)))}
}

func (Functions) CreateTexture() gl.Texture {
	var v uint32
	gogl.GenTextures(1, &v)
	return gl.Texture{V: uint(v)}
}

func (Functions) CreateVertexArray() gl.VertexArray {
	var v uint32
	gogl.GenVertexArrays(1, &v)
	return gl.VertexArray{V: uint(v)}
}

func (Functions) DeleteBuffer(v gl.Buffer) {
	obj := uint32(v.V)
	gogl.DeleteBuffers(1, &obj)
}

func (Functions) DeleteFramebuffer(v gl.Framebuffer) {
	obj := uint32(v.V)
	gogl.DeleteFramebuffers(1, &obj)
}

func (Functions) DeleteProgram(p gl.Program) {
	gogl.DeleteProgram(uint32(p.V))
}

func (Functions) DeleteShader(s gl.Shader) {
	gogl.DeleteShader(uint32(s.V))
}

func (Functions) DeleteTexture(v gl.Texture) {
	obj := uint32(v.V)
	gogl.DeleteTextures(1, &obj)
}

func (Functions) DeleteVertexArray(a gl.VertexArray) {
	obj := uint32(a.V)
	gogl.DeleteVertexArrays(1, &obj)
}

func (Functions) Disable(cap gl.Enum) {
	gogl.Disable(uint32(cap))
}

func (Functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	gogl.DrawElements(uint32(mode), int32(count), uint32(ty), gogl.PtrOffset(offset))
}

func (Functions) Enable(cap gl.Enum) {
	gogl.Enable(uint32(cap))
}

func (Functions) EnableVertexAttribArray(a gl.Attrib) {
	gogl.EnableVertexAttribArray(uint32(a))
}

func (Functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	gogl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t.V), int32(level))
}

func (Functions) GenerateMipmap(target gl.Enum) {
	gogl.GenerateMipmap(uint32(target))
}

func (f Functions) GetBinding(pname gl.Enum) gl.Object {
	return gl.Object{V: uint(f.GetInteger(pname))}
}

func (Functions) GetError() gl.Enum {
	return gl.Enum(gogl.GetError())
}

func (Functions) GetInteger(pname gl.Enum) int {
	var v int32
	gogl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (Functions) GetProgrami(p gl.Program, pname gl.Enum) int {
	var v int32
	gogl.GetProgramiv(uint32(p.V), uint32(pname), &v)
	return int(v)
}

func (f Functions) GetProgramInfoLog(p gl.Program) string {
	n := f.GetProgrami(p, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", n+1)
	gogl.GetProgramInfoLog(uint32(p.V), int32(n), nil, gogl.Str(buf))
	return gogl.GoStr(gogl.Str(buf))
}

func (Functions) GetShaderi(s gl.Shader, pname gl.Enum) int {
	var v int32
	gogl.GetShaderiv(uint32(s.V), uint32(pname), &v)
	return int(v)
}

func (f Functions) GetShaderInfoLog(s gl.Shader) string {
	n := f.GetShaderi(s, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", n+1)
	gogl.GetShaderInfoLog(uint32(s.V), int32(n), nil, gogl.Str(buf))
	return gogl.GoStr(gogl.Str(buf))
}

func (Functions) GetString(pname gl.Enum) string {
	return gogl.GoStr(gogl.GetString(uint32(pname)))
}

func (Functions) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	return gl.Uniform{V: int(gogl.GetUniformLocation(uint32(p.V), gogl.Str(name+"\x00")))}
}

func (Functions) LinkProgram(p gl.Program) {
	gogl.LinkProgram(uint32(p.V))
}

func (Functions) PixelStorei(pname gl.Enum, param int) {
	gogl.PixelStorei(uint32(pname), int32(param))
}

func (Functions) Scissor(x, y, width, height int) {
	gogl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (Functions) ShaderSource(s gl.Shader, src string) {
	csrc, free := gogl.Strs(src + "\x00")
	defer free()
	gogl.ShaderSource(uint32(s.V), 1, csrc, nil)
}

func (Functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = gogl.Ptr(data)
	}
	gogl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), p)
}

func (Functions) TexImage2DMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int, fixedSampleLocations bool) {
	gogl.TexImage2DMultisample(uint32(target), int32(samples), uint32(internalFormat), int32(width), int32(height), fixedSampleLocations)
}

func (Functions) TexParameteri(target, pname gl.Enum, param int) {
	gogl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (Functions) TexSubImage2D(target gl.Enum, level int, x, y, width, height int, format, ty gl.Enum, data []byte) {
	gogl.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), gogl.Ptr(data))
}

func (Functions) Uniform1i(dst gl.Uniform, v int) {
	gogl.Uniform1i(int32(dst.V), int32(v))
}

func (Functions) Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32) {
	gogl.Uniform4f(int32(dst.V), v0, v1, v2, v3)
}

func (Functions) Uniform4fv(dst gl.Uniform, v []float32) {
	if len(v) < 4 {
		return
	}
	gogl.Uniform4fv(int32(dst.V), int32(len(v)/4), &v[0])
}

func (Functions) UniformMatrix4fv(dst gl.Uniform, transpose bool, v []float32) {
	if len(v) < 16 {
		return
	}
	gogl.UniformMatrix4fv(int32(dst.V), int32(len(v)/16), transpose, &v[0])
}

func (Functions) UseProgram(p gl.Program) {
	gogl.UseProgram(uint32(p.V))
}

func (Functions) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	gogl.VertexAttribPointer(uint32(dst), int32(size), uint32(ty), normalized, int32(stride), gogl.PtrOffset(offset))
}

func (Functions) Viewport(x, y, width, height int) {
	gogl.Viewport(int32(x), int32(y), int32(width), int32(height))
}
