// SPDX-License-Identifier: Unlicense OR MIT

// Package gl describes the subset of OpenGL 3.3 core used by the
// rendering driver. The Functions interface is implemented by
// package glcore for real contexts.
package gl

const (
	ARRAY_BUFFER                      = 0x8892
	BGRA                              = 0x80e1
	BLEND                             = 0xbe2
	CLAMP_TO_EDGE                     = 0x812f
	COLOR_ATTACHMENT0                 = 0x8ce0
	COLOR_BUFFER_BIT                  = 0x4000
	COMPILE_STATUS                    = 0x8b81
	CURRENT_PROGRAM                   = 0x8b8d
	DEPTH_TEST                        = 0xb71
	DRAW_FRAMEBUFFER                  = 0x8ca9
	DYNAMIC_DRAW                      = 0x88e8
	ELEMENT_ARRAY_BUFFER              = 0x8893
	FALSE                             = 0
	FLOAT                             = 0x1406
	FRAGMENT_SHADER                   = 0x8b30
	FRAMEBUFFER                       = 0x8d40
	FRAMEBUFFER_BINDING               = 0x8ca6
	FRAMEBUFFER_COMPLETE              = 0x8cd5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT = 0x8cd6
	FRAMEBUFFER_INCOMPLETE_MISSING    = 0x8cd7
	FRAMEBUFFER_UNSUPPORTED           = 0x8cdd
	INFO_LOG_LENGTH                   = 0x8b84
	INVALID_ENUM                      = 0x500
	INVALID_OPERATION                 = 0x502
	INVALID_VALUE                     = 0x501
	LINEAR                            = 0x2601
	LINEAR_MIPMAP_LINEAR              = 0x2703
	LINK_STATUS                       = 0x8b82
	MAX_SAMPLES                       = 0x8d57
	MAX_TEXTURE_SIZE                  = 0xd33
	NEAREST                           = 0x2600
	NO_ERROR                          = 0x0
	ONE                               = 0x1
	ONE_MINUS_SRC_ALPHA               = 0x303
	OUT_OF_MEMORY                     = 0x505
	R8                                = 0x8229
	READ_FRAMEBUFFER                  = 0x8ca8
	READ_FRAMEBUFFER_BINDING          = 0x8caa
	RED                               = 0x1903
	RENDERER                          = 0x1f01
	RGBA                              = 0x1908
	RGBA8                             = 0x8058
	SCISSOR_TEST                      = 0xc11
	SRGB8_ALPHA8                      = 0x8c43
	TEXTURE_2D                        = 0xde1
	TEXTURE_2D_MULTISAMPLE            = 0x9100
	TEXTURE_MAG_FILTER                = 0x2800
	TEXTURE_MIN_FILTER                = 0x2801
	TEXTURE_WRAP_S                    = 0x2802
	TEXTURE_WRAP_T                    = 0x2803
	TEXTURE0                          = 0x84c0
	TRIANGLES                         = 0x4
	TRUE                              = 1
	UNPACK_ALIGNMENT                  = 0xcf5
	UNPACK_ROW_LENGTH                 = 0xcf2
	UNSIGNED_BYTE                     = 0x1401
	UNSIGNED_INT                      = 0x1405
	VERSION                           = 0x1f02
	VERTEX_ARRAY_BINDING              = 0x85b5
	VERTEX_SHADER                     = 0x8b31
)

type Functions interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, a Attrib, name string)
	BindBuffer(target Enum, b Buffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindTexture(target Enum, t Texture)
	BindVertexArray(a VertexArray)
	BlendFunc(sfactor, dfactor Enum)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter Enum)
	BufferData(target Enum, src []byte, usage Enum)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CreateVertexArray() VertexArray
	DeleteBuffer(v Buffer)
	DeleteFramebuffer(v Framebuffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteTexture(v Texture)
	DeleteVertexArray(a VertexArray)
	Disable(cap Enum)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	Enable(cap Enum)
	EnableVertexAttribArray(a Attrib)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	GenerateMipmap(target Enum)
	GetBinding(pname Enum) Object
	GetError() Enum
	GetInteger(pname Enum) int
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetString(pname Enum) string
	GetUniformLocation(p Program, name string) Uniform
	LinkProgram(p Program)
	PixelStorei(pname Enum, param int)
	Scissor(x, y, width, height int)
	ShaderSource(s Shader, src string)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexImage2DMultisample(target Enum, samples int, internalFormat Enum, width, height int, fixedSampleLocations bool)
	TexParameteri(target, pname Enum, param int)
	TexSubImage2D(target Enum, level int, x, y, width, height int, format, ty Enum, data []byte)
	Uniform1i(dst Uniform, v int)
	Uniform4f(dst Uniform, v0, v1, v2, v3 float32)
	// Uniform4fv uploads len(v)/4 vectors.
	Uniform4fv(dst Uniform, v []float32)
	// UniformMatrix4fv uploads len(v)/16 matrices.
	UniformMatrix4fv(dst Uniform, transpose bool, v []float32)
	UseProgram(p Program)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
