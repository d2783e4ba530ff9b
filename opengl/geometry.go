// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

type geometry struct {
	format   driver.VertexBufferFormat
	vertices gl.Buffer
	indices  gl.Buffer
	vaos     ctxMap[gl.VertexArray]
}

// vertexAttrib describes one attribute of a vertex layout. Attribute
// locations match the input order of the shader programs.
type vertexAttrib struct {
	loc        gl.Attrib
	size       int
	typ        gl.Enum
	normalized bool
	offset     int
}

var (
	layout2f4ub2f = []vertexAttrib{
		{loc: 0, size: 2, typ: gl.FLOAT, offset: 0},
		{loc: 1, size: 4, typ: gl.UNSIGNED_BYTE, normalized: true, offset: 8},
		{loc: 2, size: 2, typ: gl.FLOAT, offset: 12},
	}
	layout2f4ub2f2f28f = append(append([]vertexAttrib{}, layout2f4ub2f...),
		vertexAttrib{loc: 3, size: 2, typ: gl.FLOAT, offset: 20},
		vertexAttrib{loc: 4, size: 4, typ: gl.FLOAT, offset: 28},
		vertexAttrib{loc: 5, size: 4, typ: gl.FLOAT, offset: 44},
		vertexAttrib{loc: 6, size: 4, typ: gl.FLOAT, offset: 60},
		vertexAttrib{loc: 7, size: 4, typ: gl.FLOAT, offset: 76},
		vertexAttrib{loc: 8, size: 4, typ: gl.FLOAT, offset: 92},
		vertexAttrib{loc: 9, size: 4, typ: gl.FLOAT, offset: 108},
		vertexAttrib{loc: 10, size: 4, typ: gl.FLOAT, offset: 124},
	)
)

func layoutFor(op string, f driver.VertexBufferFormat) []vertexAttrib {
	switch f {
	case driver.VertexBufferFormat2f4ub2f:
		return layout2f4ub2f
	case driver.VertexBufferFormat2f4ub2f2f28f:
		return layout2f4ub2f2f28f
	default:
		driver.Fatal(&driver.ConfigurationError{Op: op, What: "vertex buffer format", Value: int(f)})
		panic("unreachable")
	}
}

// uploadBuffer fills b through the ARRAY_BUFFER target, which leaves
// the element buffer of a bound vertex array alone.
func (d *Driver) uploadBuffer(b gl.Buffer, data []byte) {
	d.funcs.BindBuffer(gl.ARRAY_BUFFER, b)
	d.funcs.BufferData(gl.ARRAY_BUFFER, data, gl.DYNAMIC_DRAW)
}

// CreateGeometry uploads vertex and index data. Vertex arrays are
// created on first draw in each context.
func (d *Driver) CreateGeometry(id uint32, vertices driver.VertexBuffer, indices driver.IndexBuffer) {
	const op = "CreateGeometry"
	layoutFor(op, vertices.Format)
	g := geometry{
		format:   vertices.Format,
		vertices: d.funcs.CreateBuffer(),
		indices:  d.funcs.CreateBuffer(),
	}
	d.uploadBuffer(g.vertices, vertices.Data)
	d.uploadBuffer(g.indices, indices.Data)
	d.geometries.insert(op, id, g)
	driver.Logger().Debug("geometry created", "id", id, "format", vertices.Format,
		"vertices", len(vertices.Data)/vertices.Format.Stride(), "indices", len(indices.Data)/4)
}

// UpdateGeometry replaces the vertex and index data of a geometry. The
// buffer objects are kept, so vertex arrays stay valid unless the
// vertex layout changes.
func (d *Driver) UpdateGeometry(id uint32, vertices driver.VertexBuffer, indices driver.IndexBuffer) {
	const op = "UpdateGeometry"
	g := d.geometries.lookup(op, id)
	layoutFor(op, vertices.Format)
	d.uploadBuffer(g.vertices, vertices.Data)
	d.uploadBuffer(g.indices, indices.Data)
	if g.format != vertices.Format {
		d.releaseVertexArrays(g)
		g.format = vertices.Format
	}
}

// DestroyGeometry deletes the buffers of a geometry and its vertex
// arrays in every context.
func (d *Driver) DestroyGeometry(id uint32) {
	g := d.geometries.remove("DestroyGeometry", id)
	d.releaseVertexArrays(&g)
	d.funcs.DeleteBuffer(g.vertices)
	d.funcs.DeleteBuffer(g.indices)
}

func (d *Driver) releaseVertexArrays(g *geometry) {
	g.vaos.each(func(ctx gl.Context, vao *gl.VertexArray) {
		d.inContext(ctx, func() {
			d.funcs.DeleteVertexArray(*vao)
		})
	})
	g.vaos.clear()
}

// bindVertexArray binds the vertex array of a geometry in the current
// context, creating it on first use.
func (d *Driver) bindVertexArray(op string, id uint32) {
	g := d.geometries.lookup(op, id)
	ctx := d.currentContext()
	if vao, ok := g.vaos.get(ctx); ok {
		d.funcs.BindVertexArray(*vao)
		return
	}
	f := d.funcs
	vao := f.CreateVertexArray()
	f.BindVertexArray(vao)
	f.BindBuffer(gl.ARRAY_BUFFER, g.vertices)
	stride := g.format.Stride()
	for _, a := range layoutFor(op, g.format) {
		f.EnableVertexAttribArray(a.loc)
		f.VertexAttribPointer(a.loc, a.size, a.typ, a.normalized, stride, a.offset)
	}
	f.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.indices)
	g.vaos.put(ctx, vao)
	driver.Logger().Debug("vertex array created", "geometry", id, "context", ctx)
}
