// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"fmt"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

type renderBuffer struct {
	// textureID is looked up on use; the render buffer does not own it.
	textureID uint32
	fbos      ctxMap[framebuffers]
}

// framebuffers are the objects of a render buffer in one context.
type framebuffers struct {
	fbo gl.Framebuffer
	// msaa is the draw target when multisampling, resolved into fbo
	// before the texture is sampled.
	msaa         gl.Framebuffer
	needsResolve bool
}

// CreateRenderBuffer records a render target backed by a texture.
// Framebuffers are created on first use in each context. Id 0 denotes
// the default target and is ignored.
func (d *Driver) CreateRenderBuffer(id uint32, buf driver.RenderBuffer) {
	const op = "CreateRenderBuffer"
	if id == 0 {
		return
	}
	t := d.textures.lookup(op, buf.TextureID)
	d.renderBuffers.insert(op, id, renderBuffer{textureID: buf.TextureID})
	t.renderBufferID = id
}

// DestroyRenderBuffer deletes the framebuffers of a render buffer in
// every context it was used in. Its texture is left alone.
func (d *Driver) DestroyRenderBuffer(id uint32) {
	const op = "DestroyRenderBuffer"
	if id == 0 {
		return
	}
	rb := d.renderBuffers.remove(op, id)
	rb.fbos.each(func(ctx gl.Context, fbs *framebuffers) {
		d.inContext(ctx, func() {
			d.funcs.DeleteFramebuffer(fbs.fbo)
			if fbs.msaa.Valid() {
				d.funcs.DeleteFramebuffer(fbs.msaa)
			}
		})
	})
	if t, ok := d.textures.get(rb.textureID); ok && t.renderBufferID == id {
		t.renderBufferID = 0
	}
}

// framebuffersFor returns the framebuffers of a render buffer in the
// current context, creating them on first use.
func (d *Driver) framebuffersFor(op string, id uint32) *framebuffers {
	rb := d.renderBuffers.lookup(op, id)
	ctx := d.currentContext()
	if fbs, ok := rb.fbos.get(ctx); ok {
		return fbs
	}
	t := d.textures.lookup(op, rb.textureID)
	var fbs framebuffers
	fbs.fbo = d.newFramebuffer(op, id, gl.TEXTURE_2D, t)
	if t.msaa.Valid() {
		fbs.msaa = d.newFramebuffer(op, id, gl.TEXTURE_2D_MULTISAMPLE, t)
	}
	driver.Logger().Debug("framebuffers created", "render_buffer", id, "context", ctx, "multisample", fbs.msaa.Valid())
	return rb.fbos.put(ctx, fbs)
}

func (d *Driver) newFramebuffer(op string, id uint32, target gl.Enum, t *texture) gl.Framebuffer {
	obj := t.obj
	if target == gl.TEXTURE_2D_MULTISAMPLE {
		obj = t.msaa
	}
	fbo := d.funcs.CreateFramebuffer()
	d.bindFramebuffer(fbo)
	d.funcs.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, target, obj, 0)
	if st := d.funcs.CheckFramebufferStatus(gl.FRAMEBUFFER); st != gl.FRAMEBUFFER_COMPLETE {
		d.funcs.DeleteFramebuffer(fbo)
		d.bound = gl.Framebuffer{}
		driver.Fatal(&driver.BackendResourceError{
			Op: op,
			Diagnostic: fmt.Sprintf("render buffer %d: %s framebuffer (%dx%d texture; check the scale factor and size limits)",
				id, gl.StatusString(st), t.width, t.height),
		})
	}
	return fbo
}

// bindTarget binds a render buffer as the draw target. The default
// target (id 0) has no framebuffers and nil is returned.
func (d *Driver) bindTarget(op string, id uint32) *framebuffers {
	if id == 0 {
		d.bindFramebuffer(gl.Framebuffer{})
		return nil
	}
	fbs := d.framebuffersFor(op, id)
	if fbs.msaa.Valid() {
		d.bindFramebuffer(fbs.msaa)
		fbs.needsResolve = true
	} else {
		d.bindFramebuffer(fbs.fbo)
	}
	return fbs
}

// BindRenderBuffer makes a render buffer the draw target.
func (d *Driver) BindRenderBuffer(id uint32) {
	d.bindTarget("BindRenderBuffer", id)
}

// resolveIfNeeded blits the multisampled framebuffer of a render buffer
// into its single sampled framebuffer if it was drawn to since the
// last resolve. The draw framebuffer binding is preserved and the
// scissor test is left disabled.
func (d *Driver) resolveIfNeeded(op string, id uint32) {
	rb, ok := d.renderBuffers.get(id)
	if !ok {
		return
	}
	fbs, ok := rb.fbos.get(d.currentContext())
	if !ok || !fbs.needsResolve || !fbs.msaa.Valid() {
		return
	}
	t := d.textures.lookup(op, rb.textureID)
	f := d.funcs
	// Blits are clipped by the scissor box of the previous draw.
	f.Disable(gl.SCISSOR_TEST)
	f.BindFramebuffer(gl.READ_FRAMEBUFFER, fbs.msaa)
	f.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fbs.fbo)
	f.BlitFramebuffer(0, 0, t.width, t.height, 0, 0, t.width, t.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	fbs.needsResolve = false
	d.resolves++
	d.bindFramebuffer(d.bound)
	driver.Logger().Debug("render buffer resolved", "render_buffer", id)
}
