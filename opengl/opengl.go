// SPDX-License-Identifier: Unlicense OR MIT

// Package opengl implements driver.Driver for OpenGL 3.2 core and
// newer.
//
// Framebuffers and vertex arrays cannot be shared between GL contexts,
// so they are created lazily the first time a render buffer or geometry
// is used in a context and cached per context. Textures, buffers and
// programs are assumed shared between all contexts the driver is used
// from.
package opengl

import (
	"fmt"
	"time"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

// Config carries the host hooks and options of a Driver.
type Config struct {
	// Samples is the sample count of render targets. Values below 2
	// disable multisampling.
	Samples int
	// CurrentContext returns the context current on the calling thread.
	// If nil, a single context is assumed.
	CurrentContext func() gl.Context
	// MakeCurrent switches the current context. If set, context scoped
	// objects are deleted in the context that created them.
	MakeCurrent func(gl.Context)
	// Clock returns the time passed to shaders. If nil, the time since
	// New is used.
	Clock func() time.Duration
}

// Driver implements driver.Driver on top of a gl.Functions.
type Driver struct {
	driver.Base

	funcs   gl.Functions
	cfg     Config
	samples int

	textures      registry[texture]
	geometries    registry[geometry]
	renderBuffers registry[renderBuffer]

	programs       [shaderTypes]*program
	programsLoaded bool

	// bound tracks the draw framebuffer while replaying.
	bound     gl.Framebuffer
	replaying bool
	elapsed   time.Duration
	resolves  int
	// scratch holds flattened uniform arrays.
	scratch [driver.MaxClips * 16]float32
}

// Stats is a snapshot of the resources held by a Driver.
type Stats struct {
	Textures      int
	Geometries    int
	RenderBuffers int
	// Framebuffers and VertexArrays count context scoped objects over
	// all contexts.
	Framebuffers int
	VertexArrays int
	// Resolves counts multisample resolves since New.
	Resolves int
}

var _ driver.Driver = (*Driver)(nil)
var _ driver.Backend = (*Driver)(nil)

// New creates a driver for the GL implementation f. The GL context must
// be current.
func New(f gl.Functions, cfg Config) (*Driver, error) {
	glVer := f.GetString(gl.VERSION)
	ver, gles, err := gl.ParseGLVersion(glVer)
	if err != nil {
		return nil, fmt.Errorf("opengl: %w", err)
	}
	if gles || ver[0] < 3 || (ver[0] == 3 && ver[1] < 2) {
		return nil, fmt.Errorf("opengl: OpenGL 3.2 core or newer required, got %q", glVer)
	}
	if cfg.Clock == nil {
		start := time.Now()
		cfg.Clock = func() time.Duration {
			return time.Since(start)
		}
	}
	d := &Driver{
		funcs:         f,
		cfg:           cfg,
		textures:      registry[texture]{kind: "texture"},
		geometries:    registry[geometry]{kind: "geometry"},
		renderBuffers: registry[renderBuffer]{kind: "render buffer"},
	}
	if cfg.Samples > 1 {
		d.samples = cfg.Samples
		if limit := f.GetInteger(gl.MAX_SAMPLES); d.samples > limit {
			driver.Logger().Warn("clamping multisample count", "requested", cfg.Samples, "max", limit)
			d.samples = limit
		}
		if d.samples < 2 {
			d.samples = 0
		}
	}
	driver.Logger().Info("opengl driver",
		"version", glVer,
		"major", ver[0],
		"minor", ver[1],
		"renderer", f.GetString(gl.RENDERER),
		"samples", d.samples,
	)
	return d, nil
}

// Multisampled reports whether render targets are multisampled.
func (d *Driver) Multisampled() bool {
	return d.samples > 1
}

func (d *Driver) currentContext() gl.Context {
	if d.cfg.CurrentContext == nil {
		return 0
	}
	return d.cfg.CurrentContext()
}

// inContext runs fn with ctx current. Without a MakeCurrent hook fn
// runs in the current context.
func (d *Driver) inContext(ctx gl.Context, fn func()) {
	cur := d.currentContext()
	if ctx == cur {
		fn()
		return
	}
	if d.cfg.MakeCurrent == nil {
		driver.Logger().Warn("releasing context object outside its context", "owner", ctx, "current", cur)
		fn()
		return
	}
	d.cfg.MakeCurrent(ctx)
	defer d.cfg.MakeCurrent(cur)
	fn()
}

func (d *Driver) bindFramebuffer(fbo gl.Framebuffer) {
	d.funcs.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	d.bound = fbo
}

// Stats returns the current resource counts.
func (d *Driver) Stats() Stats {
	s := Stats{
		Textures:      d.textures.len(),
		Geometries:    d.geometries.len(),
		RenderBuffers: d.renderBuffers.len(),
		Resolves:      d.resolves,
	}
	d.renderBuffers.each(func(_ uint32, rb *renderBuffer) {
		rb.fbos.each(func(_ gl.Context, fbs *framebuffers) {
			s.Framebuffers++
			if fbs.msaa.Valid() {
				s.Framebuffers++
			}
		})
	})
	d.geometries.each(func(_ uint32, g *geometry) {
		s.VertexArrays += g.vaos.len()
	})
	return s
}

// Release destroys every resource and program held by the driver.
func (d *Driver) Release() {
	var ids []uint32
	d.renderBuffers.each(func(id uint32, _ *renderBuffer) { ids = append(ids, id) })
	for _, id := range ids {
		d.DestroyRenderBuffer(id)
	}
	ids = ids[:0]
	d.geometries.each(func(id uint32, _ *geometry) { ids = append(ids, id) })
	for _, id := range ids {
		d.DestroyGeometry(id)
	}
	ids = ids[:0]
	d.textures.each(func(id uint32, _ *texture) { ids = append(ids, id) })
	for _, id := range ids {
		d.DestroyTexture(id)
	}
	for i, p := range d.programs {
		if p != nil {
			d.funcs.DeleteProgram(p.obj)
			d.programs[i] = nil
		}
	}
	d.programsLoaded = false
}
