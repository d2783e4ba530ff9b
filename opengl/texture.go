// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"fmt"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

type texture struct {
	obj gl.Texture
	// msaa is the multisampled sibling of a render target texture.
	msaa gl.Texture
	// renderBufferID is the render buffer drawing into the texture, or 0.
	renderBufferID uint32
	width, height  int
	srgb           bool
	renderTarget   bool
	format         driver.BitmapFormat
}

// textureTriple holds the type settings for
// a TexImage2D call.
type textureTriple struct {
	internalFormat gl.Enum
	format         gl.Enum
	typ            gl.Enum
}

var (
	alphaTriple = textureTriple{gl.R8, gl.RED, gl.UNSIGNED_BYTE}
	srgbaTriple = textureTriple{gl.SRGB8_ALPHA8, gl.BGRA, gl.UNSIGNED_BYTE}
	// Render targets are linear; conversion to sRGB happens when
	// compositing.
	targetTriple = textureTriple{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
)

func tripleFor(op string, f driver.BitmapFormat) textureTriple {
	switch f {
	case driver.BitmapFormatA8UNorm:
		return alphaTriple
	case driver.BitmapFormatBGRA8UNormSRGB:
		return srgbaTriple
	default:
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "bitmap format", Value: int(f)})
		panic("unreachable")
	}
}

// checkPixels verifies that the bitmap holds enough pixel data for its
// dimensions.
func checkPixels(op string, bmp driver.Bitmap) {
	bpp := bmp.Format.BytesPerPixel()
	if bmp.Width <= 0 || bmp.Height <= 0 {
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "bitmap width", Value: bmp.Width})
	}
	if bmp.RowBytes != 0 && bmp.RowBytes < bmp.Width*bpp {
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "row bytes", Value: bmp.RowBytes})
	}
	need := bmp.Stride()*(bmp.Height-1) + bmp.Width*bpp
	if len(bmp.Pixels) < need || bmp.Stride()%bpp != 0 {
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "pixel buffer size", Value: len(bmp.Pixels)})
	}
}

// newTexture creates and binds a texture to unit 0. Mipmapped textures
// sample their mip chain when minified.
func (d *Driver) newTexture(target gl.Enum, mipmapped bool) gl.Texture {
	t := d.funcs.CreateTexture()
	d.funcs.ActiveTexture(gl.TEXTURE0)
	d.funcs.BindTexture(target, t)
	if target == gl.TEXTURE_2D {
		minFilter := gl.LINEAR
		if mipmapped {
			minFilter = gl.LINEAR_MIPMAP_LINEAR
		}
		d.funcs.TexParameteri(target, gl.TEXTURE_MIN_FILTER, minFilter)
		d.funcs.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		d.funcs.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		d.funcs.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	return t
}

// upload specifies or replaces the contents of the texture bound to
// unit 0.
func (d *Driver) upload(bmp driver.Bitmap, tt textureTriple, replace bool) {
	f := d.funcs
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	f.PixelStorei(gl.UNPACK_ROW_LENGTH, bmp.Stride()/bmp.Format.BytesPerPixel())
	if replace {
		f.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, bmp.Width, bmp.Height, tt.format, tt.typ, bmp.Pixels)
	} else {
		f.TexImage2D(gl.TEXTURE_2D, 0, tt.internalFormat, bmp.Width, bmp.Height, tt.format, tt.typ, bmp.Pixels)
	}
	f.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	f.GenerateMipmap(gl.TEXTURE_2D)
}

// CreateTexture creates a texture from bitmap contents, or a render
// target when the bitmap has no pixels.
func (d *Driver) CreateTexture(id uint32, bmp driver.Bitmap) {
	const op = "CreateTexture"
	t := texture{
		width:  bmp.Width,
		height: bmp.Height,
		format: bmp.Format,
		srgb:   bmp.Format == driver.BitmapFormatBGRA8UNormSRGB,
	}
	if bmp.IsRenderTarget() {
		t.renderTarget = true
		t.obj = d.newTexture(gl.TEXTURE_2D, false)
		tt := targetTriple
		d.funcs.TexImage2D(gl.TEXTURE_2D, 0, tt.internalFormat, bmp.Width, bmp.Height, tt.format, tt.typ, nil)
		if d.Multisampled() {
			t.msaa = d.newTexture(gl.TEXTURE_2D_MULTISAMPLE, false)
			d.funcs.TexImage2DMultisample(gl.TEXTURE_2D_MULTISAMPLE, d.samples, tt.internalFormat, bmp.Width, bmp.Height, true)
		}
	} else {
		tt := tripleFor(op, bmp.Format)
		checkPixels(op, bmp)
		t.obj = d.newTexture(gl.TEXTURE_2D, true)
		d.upload(bmp, tt, false)
	}
	d.checkAlloc(op, id, &t)
	d.textures.insert(op, id, t)
	driver.Logger().Debug("texture created", "id", id, "width", bmp.Width, "height", bmp.Height, "format", bmp.Format, "srgb", t.srgb, "target", t.renderTarget)
}

// checkAlloc reports a GL error raised while allocating t, such as
// running out of memory, and deletes its objects.
func (d *Driver) checkAlloc(op string, id uint32, t *texture) {
	err := d.funcs.GetError()
	if err == gl.NO_ERROR {
		return
	}
	d.funcs.DeleteTexture(t.obj)
	if t.msaa.Valid() {
		d.funcs.DeleteTexture(t.msaa)
	}
	driver.Fatal(&driver.BackendResourceError{
		Op:         op,
		Diagnostic: fmt.Sprintf("texture %d: allocating %dx%d: %s", id, t.width, t.height, gl.ErrorString(err)),
	})
}

// UpdateTexture replaces the contents of a texture. Render targets are
// left untouched.
func (d *Driver) UpdateTexture(id uint32, bmp driver.Bitmap) {
	const op = "UpdateTexture"
	t := d.textures.lookup(op, id)
	if t.renderTarget || bmp.IsRenderTarget() {
		return
	}
	tt := tripleFor(op, bmp.Format)
	checkPixels(op, bmp)
	d.funcs.ActiveTexture(gl.TEXTURE0)
	d.funcs.BindTexture(gl.TEXTURE_2D, t.obj)
	same := bmp.Width == t.width && bmp.Height == t.height && bmp.Format == t.format
	d.upload(bmp, tt, same)
	t.width, t.height, t.format = bmp.Width, bmp.Height, bmp.Format
	t.srgb = bmp.Format == driver.BitmapFormatBGRA8UNormSRGB
}

// DestroyTexture deletes a texture and its multisampled sibling.
func (d *Driver) DestroyTexture(id uint32) {
	t := d.textures.remove("DestroyTexture", id)
	d.funcs.DeleteTexture(t.obj)
	if t.msaa.Valid() {
		d.funcs.DeleteTexture(t.msaa)
	}
}

// bindTexture binds a texture for sampling, resolving its render buffer
// first if needed.
func (d *Driver) bindTexture(op string, unit int, id uint32) {
	t := d.textures.lookup(op, id)
	if t.renderBufferID != 0 {
		d.resolveIfNeeded(op, t.renderBufferID)
	}
	d.funcs.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	d.funcs.BindTexture(gl.TEXTURE_2D, t.obj)
}
