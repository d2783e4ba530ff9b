// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"fmt"
	"image"

	"golang.org/x/image/math/f32"
)

// BitmapFormat is the pixel format of a texture upload.
type BitmapFormat uint8

const (
	// BitmapFormatA8UNorm is a single 8-bit alpha channel.
	BitmapFormatA8UNorm BitmapFormat = iota
	// BitmapFormatBGRA8UNormSRGB is 32-bit BGRA in the sRGB color space.
	BitmapFormatBGRA8UNormSRGB
)

// VertexBufferFormat is the layout of one vertex.
type VertexBufferFormat uint8

const (
	// VertexBufferFormat2f4ub2f is position (2 floats), color (4 normalized
	// bytes) and texture coordinate (2 floats).
	VertexBufferFormat2f4ub2f VertexBufferFormat = iota
	// VertexBufferFormat2f4ub2f2f28f extends VertexBufferFormat2f4ub2f with an
	// object coordinate (2 floats) and seven 4-float data channels.
	VertexBufferFormat2f4ub2f2f28f
)

// ShaderType selects one of the two shader programs.
type ShaderType uint8

const (
	ShaderTypeFill ShaderType = iota
	ShaderTypeFillPath
)

// CommandType tags a Command.
type CommandType uint8

const (
	CommandTypeClearRenderBuffer CommandType = iota
	CommandTypeDrawGeometry
)

// Bitmap describes texture contents. A Bitmap without Pixels describes
// a render target of the given size.
type Bitmap struct {
	Width, Height int
	Format        BitmapFormat
	// RowBytes is the stride of Pixels. Zero means tightly packed.
	RowBytes int
	Pixels   []byte
}

// RenderBuffer describes an offscreen render target backed by a texture.
type RenderBuffer struct {
	TextureID     uint32
	Width, Height int
	HasStencil    bool
	HasDepth      bool
}

type VertexBuffer struct {
	Format VertexBufferFormat
	Data   []byte
}

// IndexBuffer holds little-endian 32-bit indices.
type IndexBuffer struct {
	Data []byte
}

// GPUState is the parameter block of a single draw.
type GPUState struct {
	ViewportWidth  int
	ViewportHeight int
	// Transform is the model transform in row major order.
	Transform       f32.Mat4
	EnableTexturing bool
	EnableBlend     bool
	ShaderType      ShaderType
	// RenderBufferID is the draw target. Zero is the default target.
	RenderBufferID uint32
	// TextureIDs are bound to texture units 0-2. Zero means unbound.
	TextureIDs    [3]uint32
	UniformScalar [8]float32
	UniformVector [8]f32.Vec4
	// ClipSize is the number of valid entries in Clip.
	ClipSize      uint8
	Clip          [MaxClips]f32.Mat4
	EnableScissor bool
	ScissorRect   image.Rectangle
}

// MaxClips is the depth of the clip matrix stack.
const MaxClips = 8

// Command is either a geometry draw or a render buffer clear. Clears
// only use GPUState.RenderBufferID.
type Command struct {
	Type          CommandType
	GPUState      GPUState
	GeometryID    uint32
	IndicesCount  uint32
	IndicesOffset uint32
}

type CommandList []Command

// Identity is the identity transform.
var Identity = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// BytesPerPixel returns the size of one pixel, or 0 for unknown formats.
func (f BitmapFormat) BytesPerPixel() int {
	switch f {
	case BitmapFormatA8UNorm:
		return 1
	case BitmapFormatBGRA8UNormSRGB:
		return 4
	default:
		return 0
	}
}

func (f BitmapFormat) String() string {
	switch f {
	case BitmapFormatA8UNorm:
		return "A8_UNORM"
	case BitmapFormatBGRA8UNormSRGB:
		return "BGRA8_UNORM_SRGB"
	default:
		return fmt.Sprintf("BitmapFormat(%d)", uint8(f))
	}
}

// Stride returns the size of one vertex in bytes, or 0 for unknown formats.
func (f VertexBufferFormat) Stride() int {
	switch f {
	case VertexBufferFormat2f4ub2f:
		return 20
	case VertexBufferFormat2f4ub2f2f28f:
		return 140
	default:
		return 0
	}
}

func (f VertexBufferFormat) String() string {
	switch f {
	case VertexBufferFormat2f4ub2f:
		return "2f_4ub_2f"
	case VertexBufferFormat2f4ub2f2f28f:
		return "2f_4ub_2f_2f_28f"
	default:
		return fmt.Sprintf("VertexBufferFormat(%d)", uint8(f))
	}
}

func (s ShaderType) String() string {
	switch s {
	case ShaderTypeFill:
		return "Fill"
	case ShaderTypeFillPath:
		return "FillPath"
	default:
		return fmt.Sprintf("ShaderType(%d)", uint8(s))
	}
}

// IsRenderTarget reports whether the bitmap describes a render target
// rather than pixel contents.
func (b Bitmap) IsRenderTarget() bool {
	return len(b.Pixels) == 0
}

// Stride returns the row stride of the bitmap pixels.
func (b Bitmap) Stride() int {
	if b.RowBytes > 0 {
		return b.RowBytes
	}
	return b.Width * b.Format.BytesPerPixel()
}
