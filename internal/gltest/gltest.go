// SPDX-License-Identifier: Unlicense OR MIT

// Package gltest implements gl.Functions in memory for tests. It keeps
// enough state to check framebuffer completeness, context ownership of
// framebuffers and vertex arrays, and it simulates clears and blits by
// tracking a single fill color per texture.
package gltest

import (
	"fmt"
	"image"
	"strings"

	"gioui.org/gpudriver/gl"
)

type Functions struct {
	// Version is returned for GL_VERSION.
	Version        string
	MaxTextureSize int
	MaxSamples     int
	// FailCompile makes shaders whose source contains it fail to
	// compile.
	FailCompile string
	// FailLink makes every program link fail.
	FailLink bool
	// InactiveUniforms are reported as optimized out.
	InactiveUniforms map[string]bool
	// OutOfMemory makes texture allocations fail with GL_OUT_OF_MEMORY.
	OutOfMemory bool

	Buffers      map[gl.Buffer]*BufferObject
	Textures     map[gl.Texture]*TextureObject
	Framebuffers map[gl.Framebuffer]*FramebufferObject
	VertexArrays map[gl.VertexArray]*VertexArrayObject
	Programs     map[gl.Program]*ProgramObject
	Shaders      map[gl.Shader]*ShaderObject

	Draws  []Draw
	Blits  []Blit
	Clears []Clear
	// Violations lists misuse such as binding a framebuffer in a context
	// that did not create it.
	Violations []string
	// DefaultColor is the fill color of the default framebuffer.
	DefaultColor [4]float32

	current  gl.Context
	contexts map[gl.Context]*ContextState
	lastName uint
	err      gl.Enum
}

// ContextState is the binding state of one context.
type ContextState struct {
	DrawFramebuffer gl.Framebuffer
	ReadFramebuffer gl.Framebuffer
	Program         gl.Program
	VertexArray     gl.VertexArray
	ArrayBuffer     gl.Buffer
	ElementBuffer   gl.Buffer
	ActiveUnit      int
	Units           map[unitTarget]gl.Texture
	Enabled         map[gl.Enum]bool
	BlendSrc        gl.Enum
	BlendDst        gl.Enum
	Viewport        image.Rectangle
	ScissorBox      image.Rectangle
	ClearColor      [4]float32
	PixelStore      map[gl.Enum]int
}

type unitTarget struct {
	unit   int
	target gl.Enum
}

type BufferObject struct {
	Data    []byte
	Usage   gl.Enum
	Uploads int
}

type TextureObject struct {
	Target         gl.Enum
	Width, Height  int
	Samples        int
	InternalFormat gl.Enum
	Format, Type   gl.Enum
	Data           []byte
	Uploads        int
	Mipmaps        int
	Params         map[gl.Enum]int
	// Color is the uniform contents left by the last clear or blit.
	Color [4]float32
	// Draws counts the draw calls whose output the texture holds.
	Draws int
}

type FramebufferObject struct {
	Owner gl.Context
	Color gl.Texture
}

type VertexArrayObject struct {
	Owner         gl.Context
	ElementBuffer gl.Buffer
	Attribs       map[gl.Attrib]VertexAttrib
	Enabled       map[gl.Attrib]bool
}

type VertexAttrib struct {
	Buffer     gl.Buffer
	Size       int
	Type       gl.Enum
	Normalized bool
	Stride     int
	Offset     int
}

type ShaderObject struct {
	Type     gl.Enum
	Source   string
	Compiled bool
	Log      string
}

type ProgramObject struct {
	Shaders  []gl.Shader
	Attribs  map[string]gl.Attrib
	Linked   bool
	Log      string
	Uniforms map[string]gl.Uniform
	// Values holds the last value uploaded per uniform location.
	Values map[gl.Uniform][]float32
	// Transposed records whether a matrix uniform was uploaded in row
	// major order.
	Transposed map[gl.Uniform]bool
}

type Draw struct {
	Context     gl.Context
	Program     gl.Program
	VertexArray gl.VertexArray
	Framebuffer gl.Framebuffer
	Mode        gl.Enum
	Count       int
	Type        gl.Enum
	Offset      int
	Textures    [3]gl.Texture
	Blend       bool
	Scissor     bool
	ScissorBox  image.Rectangle
	Viewport    image.Rectangle
}

type Blit struct {
	Context   gl.Context
	Read      gl.Framebuffer
	Draw      gl.Framebuffer
	Src, Dst  image.Rectangle
	Mask      gl.Enum
	Filter    gl.Enum
	Resolving bool
	// Scissor reports whether the scissor test clipped the blit.
	Scissor    bool
	ScissorBox image.Rectangle
}

type Clear struct {
	Context     gl.Context
	Framebuffer gl.Framebuffer
	Color       [4]float32
	Scissor     bool
}

var _ gl.Functions = (*Functions)(nil)

// New returns a GL 3.3 implementation with the zero Context current.
func New() *Functions {
	return &Functions{
		Version:        "3.3.0 gltest",
		MaxTextureSize: 8192,
		MaxSamples:     8,
		Buffers:        make(map[gl.Buffer]*BufferObject),
		Textures:       make(map[gl.Texture]*TextureObject),
		Framebuffers:   make(map[gl.Framebuffer]*FramebufferObject),
		VertexArrays:   make(map[gl.VertexArray]*VertexArrayObject),
		Programs:       make(map[gl.Program]*ProgramObject),
		Shaders:        make(map[gl.Shader]*ShaderObject),
		contexts:       make(map[gl.Context]*ContextState),
	}
}

// MakeCurrent switches the current context.
func (f *Functions) MakeCurrent(ctx gl.Context) {
	f.current = ctx
}

// Current returns the current context.
func (f *Functions) Current() gl.Context {
	return f.current
}

// State returns the binding state of ctx.
func (f *Functions) State(ctx gl.Context) *ContextState {
	s, ok := f.contexts[ctx]
	if !ok {
		s = &ContextState{
			Units:      make(map[unitTarget]gl.Texture),
			Enabled:    make(map[gl.Enum]bool),
			PixelStore: map[gl.Enum]int{gl.UNPACK_ALIGNMENT: 4},
		}
		f.contexts[ctx] = s
	}
	return s
}

func (f *Functions) state() *ContextState {
	return f.State(f.current)
}

// BoundTexture returns the texture bound to unit for target in the
// current context.
func (f *Functions) BoundTexture(unit int, target gl.Enum) gl.Texture {
	return f.state().Units[unitTarget{unit, target}]
}

// UniformValue returns the last value uploaded to the named uniform of
// p, or nil.
func (f *Functions) UniformValue(p gl.Program, name string) []float32 {
	prog, ok := f.Programs[p]
	if !ok {
		return nil
	}
	u, ok := prog.Uniforms[name]
	if !ok {
		return nil
	}
	return prog.Values[u]
}

// Attachment returns the color texture of fbo, or nil.
func (f *Functions) Attachment(fbo gl.Framebuffer) *TextureObject {
	fb, ok := f.Framebuffers[fbo]
	if !ok {
		return nil
	}
	return f.Textures[fb.Color]
}

// setError records err unless an earlier error is still unread.
func (f *Functions) setError(err gl.Enum) {
	if f.err == gl.NO_ERROR {
		f.err = err
	}
}

func (f *Functions) violation(format string, args ...interface{}) {
	f.Violations = append(f.Violations, fmt.Sprintf(format, args...))
}

func (f *Functions) name() uint {
	f.lastName++
	return f.lastName
}

func (f *Functions) ActiveTexture(texture gl.Enum) {
	f.state().ActiveUnit = int(texture - gl.TEXTURE0)
}

func (f *Functions) AttachShader(p gl.Program, s gl.Shader) {
	prog, ok := f.Programs[p]
	if !ok {
		f.violation("AttachShader: unknown program %d", p.V)
		return
	}
	prog.Shaders = append(prog.Shaders, s)
}

func (f *Functions) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	if prog, ok := f.Programs[p]; ok {
		prog.Attribs[name] = a
	}
}

func (f *Functions) BindBuffer(target gl.Enum, b gl.Buffer) {
	if b.Valid() && f.Buffers[b] == nil {
		f.violation("BindBuffer: unknown buffer %d", b.V)
	}
	s := f.state()
	switch target {
	case gl.ARRAY_BUFFER:
		s.ArrayBuffer = b
	case gl.ELEMENT_ARRAY_BUFFER:
		s.ElementBuffer = b
		if vao := f.VertexArrays[s.VertexArray]; vao != nil {
			vao.ElementBuffer = b
		}
	default:
		f.violation("BindBuffer: unsupported target 0x%x", uint(target))
	}
}

func (f *Functions) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	if fb.Valid() {
		obj, ok := f.Framebuffers[fb]
		switch {
		case !ok:
			f.violation("BindFramebuffer: unknown framebuffer %d", fb.V)
		case obj.Owner != f.current:
			f.violation("BindFramebuffer: framebuffer %d of context %d bound in context %d", fb.V, obj.Owner, f.current)
		}
	}
	s := f.state()
	switch target {
	case gl.FRAMEBUFFER:
		s.DrawFramebuffer, s.ReadFramebuffer = fb, fb
	case gl.DRAW_FRAMEBUFFER:
		s.DrawFramebuffer = fb
	case gl.READ_FRAMEBUFFER:
		s.ReadFramebuffer = fb
	default:
		f.violation("BindFramebuffer: unsupported target 0x%x", uint(target))
	}
}

func (f *Functions) BindTexture(target gl.Enum, t gl.Texture) {
	if t.Valid() {
		tex, ok := f.Textures[t]
		if !ok {
			f.violation("BindTexture: unknown texture %d", t.V)
		} else if tex.Target == 0 {
			tex.Target = target
		} else if tex.Target != target {
			f.violation("BindTexture: texture %d bound to 0x%x, created for 0x%x", t.V, uint(target), uint(tex.Target))
		}
	}
	s := f.state()
	s.Units[unitTarget{s.ActiveUnit, target}] = t
}

func (f *Functions) BindVertexArray(a gl.VertexArray) {
	if a.Valid() {
		obj, ok := f.VertexArrays[a]
		switch {
		case !ok:
			f.violation("BindVertexArray: unknown vertex array %d", a.V)
		case obj.Owner != f.current:
			f.violation("BindVertexArray: vertex array %d of context %d bound in context %d", a.V, obj.Owner, f.current)
		}
	}
	s := f.state()
	s.VertexArray = a
	if vao := f.VertexArrays[a]; vao != nil {
		s.ElementBuffer = vao.ElementBuffer
	}
}

func (f *Functions) BlendFunc(sfactor, dfactor gl.Enum) {
	s := f.state()
	s.BlendSrc, s.BlendDst = sfactor, dfactor
}

func (f *Functions) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	s := f.state()
	b := Blit{
		Context:    f.current,
		Read:       s.ReadFramebuffer,
		Draw:       s.DrawFramebuffer,
		Src:        image.Rect(sx0, sy0, sx1, sy1),
		Dst:        image.Rect(dx0, dy0, dx1, dy1),
		Mask:       mask,
		Filter:     filter,
		Scissor:    s.Enabled[gl.SCISSOR_TEST],
		ScissorBox: s.ScissorBox,
	}
	src, dst := f.Attachment(b.Read), f.Attachment(b.Draw)
	if src != nil && dst != nil {
		b.Resolving = src.Samples > 0 && dst.Samples == 0
		dst.Color = src.Color
		dst.Draws = src.Draws
	} else {
		f.violation("BlitFramebuffer: missing attachment (read %d, draw %d)", b.Read.V, b.Draw.V)
	}
	f.Blits = append(f.Blits, b)
}

func (f *Functions) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	s := f.state()
	var b gl.Buffer
	switch target {
	case gl.ARRAY_BUFFER:
		b = s.ArrayBuffer
	case gl.ELEMENT_ARRAY_BUFFER:
		b = s.ElementBuffer
	}
	buf, ok := f.Buffers[b]
	if !ok {
		f.violation("BufferData: no buffer bound to 0x%x", uint(target))
		return
	}
	buf.Data = append([]byte(nil), src...)
	buf.Usage = usage
	buf.Uploads++
}

func (f *Functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	s := f.state()
	fbo := s.DrawFramebuffer
	if target == gl.READ_FRAMEBUFFER {
		fbo = s.ReadFramebuffer
	}
	if !fbo.Valid() {
		return gl.FRAMEBUFFER_COMPLETE
	}
	fb, ok := f.Framebuffers[fbo]
	if !ok || !fb.Color.Valid() {
		return gl.FRAMEBUFFER_INCOMPLETE_MISSING
	}
	tex, ok := f.Textures[fb.Color]
	if !ok || tex.Width <= 0 || tex.Height <= 0 || tex.Width > f.MaxTextureSize || tex.Height > f.MaxTextureSize {
		return gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (f *Functions) Clear(mask gl.Enum) {
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	s := f.state()
	c := Clear{
		Context:     f.current,
		Framebuffer: s.DrawFramebuffer,
		Color:       s.ClearColor,
		Scissor:     s.Enabled[gl.SCISSOR_TEST],
	}
	f.Clears = append(f.Clears, c)
	if !c.Framebuffer.Valid() {
		f.DefaultColor = c.Color
		return
	}
	if tex := f.Attachment(c.Framebuffer); tex != nil {
		tex.Color = c.Color
	}
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	f.state().ClearColor = [4]float32{red, green, blue, alpha}
}

func (f *Functions) CompileShader(s gl.Shader) {
	sh, ok := f.Shaders[s]
	if !ok {
		f.violation("CompileShader: unknown shader %d", s.V)
		return
	}
	sh.Compiled = f.FailCompile == "" || !strings.Contains(sh.Source, f.FailCompile)
	if !sh.Compiled {
		sh.Log = "0:1(1): error: syntax error\n"
	}
}

func (f *Functions) CreateBuffer() gl.Buffer {
	b := gl.Buffer{V: f.name()}
	f.Buffers[b] = new(BufferObject)
	return b
}

func (f *Functions) CreateFramebuffer() gl.Framebuffer {
	fb := gl.Framebuffer{V: f.name()}
	f.Framebuffers[fb] = &FramebufferObject{Owner: f.current}
	return fb
}

func (f *Functions) CreateProgram() gl.Program {
	p := gl.Program{V: f.name()}
	f.Programs[p] = &ProgramObject{
		Attribs:    make(map[string]gl.Attrib),
		Uniforms:   make(map[string]gl.Uniform),
		Values:     make(map[gl.Uniform][]float32),
		Transposed: make(map[gl.Uniform]bool),
	}
	return p
}

func (f *Functions) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader{V: f.name()}
	f.Shaders[s] = &ShaderObject{Type: ty}
	return s
}

func (f *Functions) CreateTexture() gl.Texture {
	t := gl.Texture{V: f.name()}
	f.Textures[t] = &TextureObject{Params: make(map[gl.Enum]int)}
	return t
}

func (f *Functions) CreateVertexArray() gl.VertexArray {
	a := gl.VertexArray{V: f.name()}
	f.VertexArrays[a] = &VertexArrayObject{
		Owner:   f.current,
		Attribs: make(map[gl.Attrib]VertexAttrib),
		Enabled: make(map[gl.Attrib]bool),
	}
	return a
}

func (f *Functions) DeleteBuffer(v gl.Buffer) {
	delete(f.Buffers, v)
}

func (f *Functions) DeleteFramebuffer(v gl.Framebuffer) {
	fb, ok := f.Framebuffers[v]
	if !ok {
		f.violation("DeleteFramebuffer: unknown framebuffer %d", v.V)
		return
	}
	if fb.Owner != f.current {
		f.violation("DeleteFramebuffer: framebuffer %d of context %d deleted in context %d", v.V, fb.Owner, f.current)
	}
	delete(f.Framebuffers, v)
	s := f.state()
	if s.DrawFramebuffer == v {
		s.DrawFramebuffer = gl.Framebuffer{}
	}
	if s.ReadFramebuffer == v {
		s.ReadFramebuffer = gl.Framebuffer{}
	}
}

func (f *Functions) DeleteProgram(p gl.Program) {
	delete(f.Programs, p)
	if s := f.state(); s.Program == p {
		s.Program = gl.Program{}
	}
}

func (f *Functions) DeleteShader(s gl.Shader) {
	delete(f.Shaders, s)
}

func (f *Functions) DeleteTexture(v gl.Texture) {
	if _, ok := f.Textures[v]; !ok {
		f.violation("DeleteTexture: unknown texture %d", v.V)
		return
	}
	delete(f.Textures, v)
	s := f.state()
	for k, t := range s.Units {
		if t == v {
			delete(s.Units, k)
		}
	}
}

func (f *Functions) DeleteVertexArray(a gl.VertexArray) {
	vao, ok := f.VertexArrays[a]
	if !ok {
		f.violation("DeleteVertexArray: unknown vertex array %d", a.V)
		return
	}
	if vao.Owner != f.current {
		f.violation("DeleteVertexArray: vertex array %d of context %d deleted in context %d", a.V, vao.Owner, f.current)
	}
	delete(f.VertexArrays, a)
	if s := f.state(); s.VertexArray == a {
		s.VertexArray = gl.VertexArray{}
	}
}

func (f *Functions) Disable(cap gl.Enum) {
	f.state().Enabled[cap] = false
}

func (f *Functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	s := f.state()
	if !s.VertexArray.Valid() {
		f.violation("DrawElements: no vertex array bound")
	}
	if !s.Program.Valid() {
		f.violation("DrawElements: no program bound")
	}
	d := Draw{
		Context:     f.current,
		Program:     s.Program,
		VertexArray: s.VertexArray,
		Framebuffer: s.DrawFramebuffer,
		Mode:        mode,
		Count:       count,
		Type:        ty,
		Offset:      offset,
		Blend:       s.Enabled[gl.BLEND],
		Scissor:     s.Enabled[gl.SCISSOR_TEST],
		ScissorBox:  s.ScissorBox,
		Viewport:    s.Viewport,
	}
	for i := range d.Textures {
		d.Textures[i] = s.Units[unitTarget{i, gl.TEXTURE_2D}]
	}
	f.Draws = append(f.Draws, d)
	if tex := f.Attachment(d.Framebuffer); tex != nil {
		tex.Draws++
	}
}

func (f *Functions) Enable(cap gl.Enum) {
	f.state().Enabled[cap] = true
}

func (f *Functions) EnableVertexAttribArray(a gl.Attrib) {
	vao := f.VertexArrays[f.state().VertexArray]
	if vao == nil {
		f.violation("EnableVertexAttribArray: no vertex array bound")
		return
	}
	vao.Enabled[a] = true
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	s := f.state()
	fbo := s.DrawFramebuffer
	if target == gl.READ_FRAMEBUFFER {
		fbo = s.ReadFramebuffer
	}
	fb, ok := f.Framebuffers[fbo]
	if !ok {
		f.violation("FramebufferTexture2D: no framebuffer bound")
		return
	}
	if attachment != gl.COLOR_ATTACHMENT0 {
		f.violation("FramebufferTexture2D: unsupported attachment 0x%x", uint(attachment))
		return
	}
	if tex, ok := f.Textures[t]; ok && tex.Target != 0 && tex.Target != texTarget {
		f.violation("FramebufferTexture2D: texture %d is not a 0x%x texture", t.V, uint(texTarget))
	}
	fb.Color = t
}

func (f *Functions) GenerateMipmap(target gl.Enum) {
	s := f.state()
	if tex := f.Textures[s.Units[unitTarget{s.ActiveUnit, target}]]; tex != nil {
		tex.Mipmaps++
	}
}

func (f *Functions) GetBinding(pname gl.Enum) gl.Object {
	return gl.Object{V: uint(f.GetInteger(pname))}
}

func (f *Functions) GetError() gl.Enum {
	err := f.err
	f.err = gl.NO_ERROR
	return err
}

func (f *Functions) GetInteger(pname gl.Enum) int {
	s := f.state()
	switch pname {
	case gl.MAX_TEXTURE_SIZE:
		return f.MaxTextureSize
	case gl.MAX_SAMPLES:
		return f.MaxSamples
	case gl.FRAMEBUFFER_BINDING:
		return int(s.DrawFramebuffer.V)
	case gl.READ_FRAMEBUFFER_BINDING:
		return int(s.ReadFramebuffer.V)
	case gl.CURRENT_PROGRAM:
		return int(s.Program.V)
	case gl.VERTEX_ARRAY_BINDING:
		return int(s.VertexArray.V)
	default:
		f.violation("GetInteger: unsupported parameter 0x%x", uint(pname))
		return 0
	}
}

func (f *Functions) GetProgrami(p gl.Program, pname gl.Enum) int {
	prog, ok := f.Programs[p]
	if !ok {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		if prog.Linked {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(prog.Log)
	}
	return 0
}

func (f *Functions) GetProgramInfoLog(p gl.Program) string {
	if prog, ok := f.Programs[p]; ok {
		return prog.Log
	}
	return ""
}

func (f *Functions) GetShaderi(s gl.Shader, pname gl.Enum) int {
	sh, ok := f.Shaders[s]
	if !ok {
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		if sh.Compiled {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.INFO_LOG_LENGTH:
		return len(sh.Log)
	}
	return 0
}

func (f *Functions) GetShaderInfoLog(s gl.Shader) string {
	if sh, ok := f.Shaders[s]; ok {
		return sh.Log
	}
	return ""
}

func (f *Functions) GetString(pname gl.Enum) string {
	switch pname {
	case gl.VERSION:
		return f.Version
	case gl.RENDERER:
		return "gltest"
	}
	return ""
}

func (f *Functions) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	prog, ok := f.Programs[p]
	if !ok || !prog.Linked || f.InactiveUniforms[name] {
		return gl.Uniform{V: -1}
	}
	u, ok := prog.Uniforms[name]
	if !ok {
		u = gl.Uniform{V: len(prog.Uniforms)}
		prog.Uniforms[name] = u
	}
	return u
}

func (f *Functions) LinkProgram(p gl.Program) {
	prog, ok := f.Programs[p]
	if !ok {
		f.violation("LinkProgram: unknown program %d", p.V)
		return
	}
	prog.Linked = !f.FailLink && len(prog.Shaders) == 2
	for _, s := range prog.Shaders {
		if sh := f.Shaders[s]; sh == nil || !sh.Compiled {
			prog.Linked = false
		}
	}
	if !prog.Linked {
		prog.Log = "error: linking with uncompiled/unspecialized shader\n"
	}
}

func (f *Functions) PixelStorei(pname gl.Enum, param int) {
	f.state().PixelStore[pname] = param
}

func (f *Functions) Scissor(x, y, width, height int) {
	f.state().ScissorBox = image.Rect(x, y, x+width, y+height)
}

func (f *Functions) ShaderSource(s gl.Shader, src string) {
	if sh, ok := f.Shaders[s]; ok {
		sh.Source = src
	}
}

func (f *Functions) boundTexture(target gl.Enum) *TextureObject {
	s := f.state()
	t := s.Units[unitTarget{s.ActiveUnit, target}]
	tex, ok := f.Textures[t]
	if !ok {
		f.violation("no texture bound to unit %d, target 0x%x", s.ActiveUnit, uint(target))
		return nil
	}
	return tex
}

func (f *Functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	tex := f.boundTexture(target)
	if tex == nil {
		return
	}
	if level != 0 {
		return
	}
	if f.OutOfMemory {
		f.setError(gl.OUT_OF_MEMORY)
		return
	}
	tex.Width, tex.Height = width, height
	tex.InternalFormat, tex.Format, tex.Type = internalFormat, format, ty
	tex.Data = append([]byte(nil), data...)
	tex.Uploads++
}

func (f *Functions) TexImage2DMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int, fixedSampleLocations bool) {
	if target != gl.TEXTURE_2D_MULTISAMPLE {
		f.violation("TexImage2DMultisample: unsupported target 0x%x", uint(target))
		return
	}
	tex := f.boundTexture(target)
	if tex == nil {
		return
	}
	if f.OutOfMemory {
		f.setError(gl.OUT_OF_MEMORY)
		return
	}
	if samples > f.MaxSamples {
		f.violation("TexImage2DMultisample: %d samples exceeds maximum %d", samples, f.MaxSamples)
	}
	tex.Width, tex.Height = width, height
	tex.Samples = samples
	tex.InternalFormat = internalFormat
}

func (f *Functions) TexParameteri(target, pname gl.Enum, param int) {
	if tex := f.boundTexture(target); tex != nil {
		tex.Params[pname] = param
	}
}

func (f *Functions) TexSubImage2D(target gl.Enum, level int, x, y, width, height int, format, ty gl.Enum, data []byte) {
	tex := f.boundTexture(target)
	if tex == nil {
		return
	}
	if x+width > tex.Width || y+height > tex.Height {
		f.violation("TexSubImage2D: region %v outside %dx%d texture", image.Rect(x, y, x+width, y+height), tex.Width, tex.Height)
	}
	tex.Data = append(tex.Data[:0], data...)
	tex.Uploads++
}

func (f *Functions) setUniform(dst gl.Uniform, v []float32) *ProgramObject {
	s := f.state()
	prog, ok := f.Programs[s.Program]
	if !ok {
		f.violation("uniform upload without a program")
		return nil
	}
	if !dst.Valid() {
		f.violation("upload to invalid uniform location")
		return nil
	}
	prog.Values[dst] = v
	return prog
}

func (f *Functions) Uniform1i(dst gl.Uniform, v int) {
	f.setUniform(dst, []float32{float32(v)})
}

func (f *Functions) Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32) {
	f.setUniform(dst, []float32{v0, v1, v2, v3})
}

func (f *Functions) Uniform4fv(dst gl.Uniform, v []float32) {
	f.setUniform(dst, append([]float32(nil), v...))
}

func (f *Functions) UniformMatrix4fv(dst gl.Uniform, transpose bool, v []float32) {
	if prog := f.setUniform(dst, append([]float32(nil), v...)); prog != nil {
		prog.Transposed[dst] = transpose
	}
}

func (f *Functions) UseProgram(p gl.Program) {
	if p.Valid() {
		if prog, ok := f.Programs[p]; !ok || !prog.Linked {
			f.violation("UseProgram: program %d is not linked", p.V)
		}
	}
	f.state().Program = p
}

func (f *Functions) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	s := f.state()
	vao := f.VertexArrays[s.VertexArray]
	if vao == nil {
		f.violation("VertexAttribPointer: no vertex array bound")
		return
	}
	if !s.ArrayBuffer.Valid() {
		f.violation("VertexAttribPointer: no array buffer bound")
	}
	vao.Attribs[dst] = VertexAttrib{
		Buffer:     s.ArrayBuffer,
		Size:       size,
		Type:       ty,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
	}
}

func (f *Functions) Viewport(x, y, width, height int) {
	f.state().Viewport = image.Rect(x, y, x+width, y+height)
}
