// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"time"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

// DrawCommandList replays the pending command list. The framebuffer
// bound on entry is bound again on return.
func (d *Driver) DrawCommandList() {
	d.replay(d.cfg.Clock())
}

func (d *Driver) replay(elapsed time.Duration) {
	const op = "DrawCommandList"
	cmds := d.Commands()
	if len(cmds) == 0 {
		return
	}
	validate(op, cmds)
	d.loadPrograms(op)

	f := d.funcs
	prev := gl.Framebuffer{V: f.GetBinding(gl.FRAMEBUFFER_BINDING).V}
	d.bound = prev
	f.Disable(gl.SCISSOR_TEST)
	f.Disable(gl.DEPTH_TEST)
	f.Enable(gl.BLEND)
	f.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	d.replaying = true
	d.elapsed = elapsed
	defer func() { d.replaying = false }()
	d.Drain(func(cmd *driver.Command) {
		driver.Dispatch(d, cmd)
	})

	d.bindFramebuffer(prev)
	f.Disable(gl.SCISSOR_TEST)
	driver.Logger().Debug("command list replayed", "batches", d.BatchCount())
}

// validate rejects unknown command and shader types before any of the
// list reaches GL.
func validate(op string, cmds driver.CommandList) {
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case driver.CommandTypeClearRenderBuffer:
		case driver.CommandTypeDrawGeometry:
			if _, _, ok := sourcesFor(cmd.GPUState.ShaderType); !ok {
				driver.Fatal(&driver.ConfigurationError{Op: op, What: "shader type", Value: int(cmd.GPUState.ShaderType)})
			}
		default:
			driver.Fatal(&driver.ConfigurationError{Op: op, What: "command type", Value: int(cmd.Type)})
		}
	}
}

// DrawGeometry draws a range of the indices of a geometry with state.
func (d *Driver) DrawGeometry(geometryID uint32, indicesCount, indicesOffset uint32, state *driver.GPUState) {
	const op = "DrawGeometry"
	if !d.replaying {
		d.elapsed = d.cfg.Clock()
	}
	p := d.program(op, state.ShaderType)
	fbs := d.bindTarget(op, state.RenderBufferID)
	offscreen := state.RenderBufferID != 0

	f := d.funcs
	f.Viewport(0, 0, state.ViewportWidth, state.ViewportHeight)
	f.UseProgram(p.obj)
	d.setUniforms(p, state, offscreen)
	d.bindVertexArray(op, geometryID)
	if state.EnableTexturing {
		for unit, id := range state.TextureIDs {
			if id != 0 {
				d.bindTexture(op, unit, id)
			}
		}
	}
	if state.EnableScissor {
		r := state.ScissorRect
		y := r.Min.Y
		if !offscreen {
			// GL scissor boxes have a bottom left origin.
			y = state.ViewportHeight - r.Max.Y
		}
		f.Enable(gl.SCISSOR_TEST)
		f.Scissor(r.Min.X, y, r.Dx(), r.Dy())
	} else {
		f.Disable(gl.SCISSOR_TEST)
	}
	if state.EnableBlend {
		f.Enable(gl.BLEND)
	} else {
		f.Disable(gl.BLEND)
	}
	f.DrawElements(gl.TRIANGLES, int(indicesCount), gl.UNSIGNED_INT, int(indicesOffset)*4)
	// Sampling a texture may have resolved the target itself.
	if fbs != nil && fbs.msaa.Valid() {
		fbs.needsResolve = true
	}
}

// ClearRenderBuffer clears a render buffer, or the default target for
// id 0, to transparent black.
func (d *Driver) ClearRenderBuffer(id uint32) {
	fbs := d.bindTarget("ClearRenderBuffer", id)
	f := d.funcs
	f.Disable(gl.SCISSOR_TEST)
	f.ClearColor(0, 0, 0, 0)
	f.Clear(gl.COLOR_BUFFER_BIT)
	if fbs != nil && fbs.msaa.Valid() {
		fbs.needsResolve = true
	}
}
