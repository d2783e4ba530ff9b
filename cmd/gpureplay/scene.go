// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/math/f32"

	"gioui.org/gpudriver/driver"
)

// Scene is a set of resources and a command list, decoded from TOML.
type Scene struct {
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	Samples int `toml:"samples"`

	Textures      []TextureDesc      `toml:"texture"`
	RenderBuffers []RenderBufferDesc `toml:"render_buffer"`
	Geometries    []GeometryDesc     `toml:"geometry"`
	Commands      []CommandDesc      `toml:"command"`
}

type TextureDesc struct {
	Name   string `toml:"name"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// Format is "a8" or "bgra8_srgb".
	Format string `toml:"format"`
	// Fill is the value of every pixel, one entry per channel. A
	// texture without Fill is a render target.
	Fill []int `toml:"fill"`
}

type RenderBufferDesc struct {
	Name    string `toml:"name"`
	Texture string `toml:"texture"`
}

// GeometryDesc describes an axis aligned quad.
type GeometryDesc struct {
	Name string `toml:"name"`
	// Layout is "2f_4ub_2f" or "2f_4ub_2f_2f_28f".
	Layout string `toml:"layout"`
	// Rect is x0, y0, x1, y1 in pixels.
	Rect  []float64 `toml:"rect"`
	Color []int     `toml:"color"`
	// Paint selects the fill program mode: "solid", "image" or
	// "pattern". Only used by the larger layout.
	Paint string `toml:"paint"`
}

type CommandDesc struct {
	// Type is "clear" or "draw".
	Type string `toml:"type"`
	// Target names a render buffer. Empty means the default target.
	Target   string   `toml:"target"`
	Geometry string   `toml:"geometry"`
	Shader   string   `toml:"shader"`
	Textures []string `toml:"textures"`
	// Viewport is width, height. It defaults to the scene size.
	Viewport []int `toml:"viewport"`
	// Scissor is x0, y0, x1, y1.
	Scissor []int `toml:"scissor"`
	Blend   *bool `toml:"blend"`
	Count   int   `toml:"count"`
	Offset  int   `toml:"offset"`
	// Transform is a row major 4x4 model transform.
	Transform []float32 `toml:"transform"`
}

func loadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc, err := parseScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func parseScene(r io.Reader) (*Scene, error) {
	sc := &Scene{Width: 256, Height: 256}
	md, err := toml.NewDecoder(r).Decode(sc)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
	}
	return sc, nil
}

// Build creates the scene resources in d and returns the command list
// that draws it.
func (sc *Scene) Build(d driver.Driver) (driver.CommandList, error) {
	textures := make(map[string]uint32)
	for _, t := range sc.Textures {
		bmp, err := t.bitmap()
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", t.Name, err)
		}
		id := d.NextTextureID()
		d.CreateTexture(id, bmp)
		textures[t.Name] = id
	}
	renderBuffers := make(map[string]uint32)
	for _, rb := range sc.RenderBuffers {
		tid, ok := textures[rb.Texture]
		if !ok {
			return nil, fmt.Errorf("render buffer %q: unknown texture %q", rb.Name, rb.Texture)
		}
		var tex TextureDesc
		for _, t := range sc.Textures {
			if t.Name == rb.Texture {
				tex = t
			}
		}
		id := d.NextRenderBufferID()
		d.CreateRenderBuffer(id, driver.RenderBuffer{TextureID: tid, Width: tex.Width, Height: tex.Height})
		renderBuffers[rb.Name] = id
	}
	geometries := make(map[string]uint32)
	for _, g := range sc.Geometries {
		vb, ib, err := g.buffers()
		if err != nil {
			return nil, fmt.Errorf("geometry %q: %w", g.Name, err)
		}
		id := d.NextGeometryID()
		d.CreateGeometry(id, vb, ib)
		geometries[g.Name] = id
	}
	var list driver.CommandList
	for i, c := range sc.Commands {
		cmd, err := c.command(sc, textures, renderBuffers, geometries)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		list = append(list, cmd)
	}
	return list, nil
}

func (t TextureDesc) bitmap() (driver.Bitmap, error) {
	bmp := driver.Bitmap{Width: t.Width, Height: t.Height}
	switch t.Format {
	case "a8":
		bmp.Format = driver.BitmapFormatA8UNorm
	case "bgra8_srgb", "":
		bmp.Format = driver.BitmapFormatBGRA8UNormSRGB
	default:
		return bmp, fmt.Errorf("unknown format %q", t.Format)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return bmp, fmt.Errorf("invalid size %dx%d", t.Width, t.Height)
	}
	if len(t.Fill) == 0 {
		return bmp, nil
	}
	bpp := bmp.Format.BytesPerPixel()
	if len(t.Fill) != bpp {
		return bmp, fmt.Errorf("fill has %d channels, want %d", len(t.Fill), bpp)
	}
	bmp.Pixels = make([]byte, t.Width*t.Height*bpp)
	for i := range bmp.Pixels {
		bmp.Pixels[i] = byte(t.Fill[i%bpp])
	}
	return bmp, nil
}

func (g GeometryDesc) buffers() (driver.VertexBuffer, driver.IndexBuffer, error) {
	var vb driver.VertexBuffer
	switch g.Layout {
	case "2f_4ub_2f", "":
		vb.Format = driver.VertexBufferFormat2f4ub2f
	case "2f_4ub_2f_2f_28f":
		vb.Format = driver.VertexBufferFormat2f4ub2f2f28f
	default:
		return vb, driver.IndexBuffer{}, fmt.Errorf("unknown layout %q", g.Layout)
	}
	if len(g.Rect) != 4 {
		return vb, driver.IndexBuffer{}, fmt.Errorf("rect has %d values, want 4", len(g.Rect))
	}
	color := [4]byte{255, 255, 255, 255}
	if len(g.Color) > 0 {
		if len(g.Color) != 4 {
			return vb, driver.IndexBuffer{}, fmt.Errorf("color has %d values, want 4", len(g.Color))
		}
		for i, c := range g.Color {
			color[i] = byte(c)
		}
	}
	var paint float32
	switch g.Paint {
	case "solid", "":
	case "image":
		paint = 1
	case "pattern":
		paint = 2
	default:
		return vb, driver.IndexBuffer{}, fmt.Errorf("unknown paint %q", g.Paint)
	}
	x0, y0, x1, y1 := float32(g.Rect[0]), float32(g.Rect[1]), float32(g.Rect[2]), float32(g.Rect[3])
	corners := [4][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	stride := vb.Format.Stride()
	vb.Data = make([]byte, 4*stride)
	for i, p := range corners {
		v := vb.Data[i*stride : (i+1)*stride]
		putFloats(v[0:], p[0], p[1])
		copy(v[8:12], color[:])
		putFloats(v[12:], uvs[i][0], uvs[i][1])
		if vb.Format == driver.VertexBufferFormat2f4ub2f2f28f {
			putFloats(v[20:], uvs[i][0], uvs[i][1])
			// The first data channel carries the paint mode.
			putFloats(v[28:], paint)
		}
	}
	idx := []uint32{0, 1, 2, 0, 2, 3}
	ib := driver.IndexBuffer{Data: make([]byte, 4*len(idx))}
	for i, v := range idx {
		binary.LittleEndian.PutUint32(ib.Data[4*i:], v)
	}
	return vb, ib, nil
}

func putFloats(b []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
}

func (c CommandDesc) command(sc *Scene, textures, renderBuffers, geometries map[string]uint32) (driver.Command, error) {
	var cmd driver.Command
	if c.Target != "" {
		id, ok := renderBuffers[c.Target]
		if !ok {
			return cmd, fmt.Errorf("unknown render buffer %q", c.Target)
		}
		cmd.GPUState.RenderBufferID = id
	}
	switch c.Type {
	case "clear":
		cmd.Type = driver.CommandTypeClearRenderBuffer
		return cmd, nil
	case "draw":
		cmd.Type = driver.CommandTypeDrawGeometry
	default:
		return cmd, fmt.Errorf("unknown type %q", c.Type)
	}
	id, ok := geometries[c.Geometry]
	if !ok {
		return cmd, fmt.Errorf("unknown geometry %q", c.Geometry)
	}
	cmd.GeometryID = id
	cmd.IndicesCount = 6
	if c.Count > 0 {
		cmd.IndicesCount = uint32(c.Count)
	}
	cmd.IndicesOffset = uint32(c.Offset)

	st := &cmd.GPUState
	switch c.Shader {
	case "fill", "":
		st.ShaderType = driver.ShaderTypeFill
	case "fill_path":
		st.ShaderType = driver.ShaderTypeFillPath
	default:
		return cmd, fmt.Errorf("unknown shader %q", c.Shader)
	}
	st.ViewportWidth, st.ViewportHeight = sc.Width, sc.Height
	if len(c.Viewport) == 2 {
		st.ViewportWidth, st.ViewportHeight = c.Viewport[0], c.Viewport[1]
	}
	st.Transform = driver.Identity
	if len(c.Transform) > 0 {
		if len(c.Transform) != 16 {
			return cmd, fmt.Errorf("transform has %d values, want 16", len(c.Transform))
		}
		copy(st.Transform[:], c.Transform)
	}
	st.EnableBlend = c.Blend == nil || *c.Blend
	if len(c.Textures) > len(st.TextureIDs) {
		return cmd, fmt.Errorf("%d textures, at most %d", len(c.Textures), len(st.TextureIDs))
	}
	for i, name := range c.Textures {
		tid, ok := textures[name]
		if !ok {
			return cmd, fmt.Errorf("unknown texture %q", name)
		}
		st.TextureIDs[i] = tid
		st.EnableTexturing = true
	}
	if len(c.Scissor) == 4 {
		st.EnableScissor = true
		st.ScissorRect = image.Rect(c.Scissor[0], c.Scissor[1], c.Scissor[2], c.Scissor[3])
	}
	// Clip to the viewport.
	st.ClipSize = 1
	st.Clip[0] = viewportClip(st.ViewportWidth, st.ViewportHeight)
	return cmd, nil
}

// viewportClip maps the viewport rectangle to the unit square centered
// on the origin.
func viewportClip(w, h int) f32.Mat4 {
	sx, sy := 2/float32(w), 2/float32(h)
	return f32.Mat4{
		sx, 0, 0, -1,
		0, sy, 0, -1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
