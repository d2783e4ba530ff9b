// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"encoding/binary"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
	"gioui.org/gpudriver/internal/gltest"
)

const testElapsed = 1500 * time.Millisecond

func newTestDriver(t *testing.T, samples int) (*Driver, *gltest.Functions) {
	t.Helper()
	f := gltest.New()
	d, err := New(f, Config{
		Samples:        samples,
		CurrentContext: f.Current,
		MakeCurrent:    f.MakeCurrent,
		Clock:          func() time.Duration { return testElapsed },
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.Empty(t, f.Violations)
	})
	return d, f
}

// catchFatal runs fn and returns the error it panicked with, if any.
func catchFatal(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

// quad returns the buffers of a two triangle quad.
func quad(format driver.VertexBufferFormat) (driver.VertexBuffer, driver.IndexBuffer) {
	idx := []uint32{0, 1, 2, 0, 2, 3}
	ib := driver.IndexBuffer{Data: make([]byte, 4*len(idx))}
	for i, v := range idx {
		binary.LittleEndian.PutUint32(ib.Data[4*i:], v)
	}
	vb := driver.VertexBuffer{Format: format, Data: make([]byte, 4*format.Stride())}
	return vb, ib
}

func createQuad(d *Driver, id uint32, format driver.VertexBufferFormat) {
	vb, ib := quad(format)
	d.CreateGeometry(id, vb, ib)
}

// createTarget creates a render buffer and its backing texture, both
// with id.
func createTarget(d *Driver, id uint32, w, h int) {
	d.CreateTexture(id, driver.Bitmap{Width: w, Height: h, Format: driver.BitmapFormatBGRA8UNormSRGB})
	d.CreateRenderBuffer(id, driver.RenderBuffer{TextureID: id, Width: w, Height: h})
}

func draw(geom, target uint32, shader driver.ShaderType, textures ...uint32) driver.Command {
	cmd := driver.Command{
		Type:         driver.CommandTypeDrawGeometry,
		GeometryID:   geom,
		IndicesCount: 6,
		GPUState: driver.GPUState{
			ViewportWidth:  64,
			ViewportHeight: 64,
			Transform:      driver.Identity,
			EnableBlend:    true,
			ShaderType:     shader,
			RenderBufferID: target,
		},
	}
	if len(textures) > 0 {
		cmd.GPUState.EnableTexturing = true
		copy(cmd.GPUState.TextureIDs[:], textures)
	}
	return cmd
}

func clearCmd(target uint32) driver.Command {
	return driver.Command{
		Type:     driver.CommandTypeClearRenderBuffer,
		GPUState: driver.GPUState{RenderBufferID: target},
	}
}

func replay(d *Driver, cmds ...driver.Command) {
	d.UpdateCommandList(cmds)
	d.DrawCommandList()
}

func TestNewVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"3.3.0 NVIDIA 535.54", true},
		{"4.6 (Core Profile) Mesa 23.1.0", true},
		{"3.2.0", true},
		{"3.1.0", false},
		{"2.1 Mesa", false},
		{"OpenGL ES 3.2", false},
		{"unknown", false},
	}
	for _, test := range tests {
		f := gltest.New()
		f.Version = test.version
		_, err := New(f, Config{})
		if test.ok {
			assert.NoError(t, err, test.version)
		} else {
			assert.Error(t, err, test.version)
		}
	}
}

func TestSamples(t *testing.T) {
	tests := []struct {
		requested, max, want int
	}{
		{0, 8, 0},
		{1, 8, 0},
		{4, 8, 4},
		{16, 8, 8},
		{4, 1, 0},
	}
	for _, test := range tests {
		f := gltest.New()
		f.MaxSamples = test.max
		d, err := New(f, Config{Samples: test.requested})
		require.NoError(t, err)
		assert.Equal(t, test.want, d.samples, "requested %d, max %d", test.requested, test.max)
		assert.Equal(t, test.want > 1, d.Multisampled())
	}
}

func TestClearSampledTarget(t *testing.T) {
	for _, samples := range []int{0, 4} {
		d, f := newTestDriver(t, samples)
		createTarget(d, 1, 64, 64)
		tex, ok := d.textures.get(1)
		require.True(t, ok)
		assert.Equal(t, samples > 1, tex.msaa.Valid())

		opaque := [4]float32{1, 0, 0, 1}
		f.Textures[tex.obj].Color = opaque
		if tex.msaa.Valid() {
			f.Textures[tex.msaa].Color = opaque
		}

		replay(d, clearCmd(1))
		require.Len(t, f.Clears, 1)
		assert.False(t, f.Clears[0].Scissor)
		assert.Equal(t, [4]float32{}, f.Clears[0].Color)
		assert.False(t, d.HasCommandsPending())

		createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
		replay(d, draw(1, 0, driver.ShaderTypeFillPath, 1))
		require.Len(t, f.Draws, 1)
		assert.Equal(t, tex.obj, f.Draws[0].Textures[0])
		assert.Equal(t, [4]float32{}, f.Textures[tex.obj].Color, "samples %d", samples)
		if samples > 1 {
			require.Len(t, f.Blits, 1)
			assert.True(t, f.Blits[0].Resolving)
			assert.Equal(t, gl.Enum(gl.NEAREST), f.Blits[0].Filter)
		} else {
			assert.Empty(t, f.Blits)
		}
	}
}

func TestDrawDefaultTarget(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 5, driver.VertexBufferFormat2f4ub2f)
	d.UpdateCommandList(driver.CommandList{draw(5, 0, driver.ShaderTypeFillPath)})
	require.True(t, d.HasCommandsPending())
	d.DrawCommandList()

	assert.False(t, d.HasCommandsPending())
	assert.Equal(t, 1, d.BatchCount())
	require.Len(t, f.Draws, 1)
	dr := f.Draws[0]
	assert.Equal(t, gl.Enum(gl.TRIANGLES), dr.Mode)
	assert.Equal(t, 6, dr.Count)
	assert.Equal(t, gl.Enum(gl.UNSIGNED_INT), dr.Type)
	assert.Equal(t, 0, dr.Offset)
	assert.False(t, dr.Framebuffer.Valid())
	assert.Equal(t, d.programs[driver.ShaderTypeFillPath].obj, dr.Program)
	assert.True(t, dr.Blend)
	assert.Equal(t, 0, dr.Viewport.Min.X)
	assert.Equal(t, 64, dr.Viewport.Dx())

	// Nothing is pending; a second call does nothing.
	d.DrawCommandList()
	assert.Len(t, f.Draws, 1)
	assert.Equal(t, 1, d.BatchCount())
}

func TestIndexOffset(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	cmd := draw(1, 0, driver.ShaderTypeFillPath)
	cmd.IndicesCount, cmd.IndicesOffset = 3, 3
	replay(d, cmd)
	require.Len(t, f.Draws, 1)
	assert.Equal(t, 3, f.Draws[0].Count)
	assert.Equal(t, 12, f.Draws[0].Offset)
}

func TestUnknownShaderType(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	d.UpdateCommandList(driver.CommandList{
		draw(1, 0, driver.ShaderTypeFill),
		draw(1, 0, driver.ShaderType(7)),
	})
	err := catchFatal(d.DrawCommandList)
	var cerr *driver.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "shader type", cerr.What)
	assert.Equal(t, 7, cerr.Value)
	// Validation happens before anything is drawn.
	assert.Empty(t, f.Draws)
	assert.Empty(t, f.Programs)
	assert.True(t, d.HasCommandsPending())
}

func TestUnknownCommandType(t *testing.T) {
	d, f := newTestDriver(t, 0)
	d.UpdateCommandList(driver.CommandList{clearCmd(0), {Type: driver.CommandType(9)}})
	err := catchFatal(d.DrawCommandList)
	var cerr *driver.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "command type", cerr.What)
	assert.Empty(t, f.Clears)
}

func TestSingleResolve(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	var cmds driver.CommandList
	for i := 0; i < 5; i++ {
		cmds = append(cmds, draw(1, 1, driver.ShaderTypeFillPath))
	}
	cmds = append(cmds,
		draw(1, 0, driver.ShaderTypeFillPath, 1),
		draw(1, 0, driver.ShaderTypeFillPath, 1),
	)
	replay(d, cmds...)

	require.Len(t, f.Blits, 1)
	assert.Equal(t, 1, d.Stats().Resolves)
	tex, _ := d.textures.get(1)
	assert.Equal(t, 5, f.Textures[tex.obj].Draws)
	assert.Equal(t, 7, d.BatchCount())

	// Drawing again dirties the target.
	replay(d, draw(1, 1, driver.ShaderTypeFillPath), draw(1, 0, driver.ShaderTypeFillPath, 1))
	assert.Len(t, f.Blits, 2)
	assert.Equal(t, 6, f.Textures[tex.obj].Draws)
}

func TestResolveUnscissored(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	corner := draw(1, 1, driver.ShaderTypeFillPath)
	corner.GPUState.EnableScissor = true
	corner.GPUState.ScissorRect = image.Rect(0, 0, 8, 8)
	sample := draw(1, 0, driver.ShaderTypeFillPath, 1)
	sample.GPUState.EnableScissor = true
	sample.GPUState.ScissorRect = image.Rect(16, 16, 32, 32)
	replay(d, corner, sample)

	require.Len(t, f.Blits, 1)
	b := f.Blits[0]
	assert.True(t, b.Resolving)
	assert.False(t, b.Scissor)
	assert.Equal(t, image.Rect(0, 0, 64, 64), b.Src)
	assert.Equal(t, image.Rect(0, 0, 64, 64), b.Dst)

	// Both draws keep their own scissor boxes.
	require.Len(t, f.Draws, 2)
	assert.True(t, f.Draws[0].Scissor)
	assert.Equal(t, [4]int{0, 0, 8, 8}, rectInts(f.Draws[0]))
	assert.True(t, f.Draws[1].Scissor)
	assert.Equal(t, [4]int{16, 32, 32, 48}, rectInts(f.Draws[1]))
}

func TestResolveWhileDrawingOffscreen(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	createTarget(d, 2, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	replay(d,
		draw(1, 2, driver.ShaderTypeFillPath),
		draw(1, 1, driver.ShaderTypeFillPath, 2),
	)
	require.Len(t, f.Blits, 1)
	rb, _ := d.renderBuffers.get(1)
	fbs, ok := rb.fbos.get(0)
	require.True(t, ok)
	require.Len(t, f.Draws, 2)
	assert.Equal(t, fbs.msaa, f.Draws[1].Framebuffer)
	assert.True(t, fbs.needsResolve)

	rb2, _ := d.renderBuffers.get(2)
	fbs2, _ := rb2.fbos.get(0)
	assert.False(t, fbs2.needsResolve)
}

func TestFramebufferRestored(t *testing.T) {
	d, f := newTestDriver(t, 4)
	host := f.CreateFramebuffer()
	f.BindFramebuffer(gl.FRAMEBUFFER, host)
	f.Enable(gl.SCISSOR_TEST)

	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	cmd := draw(1, 1, driver.ShaderTypeFillPath)
	cmd.GPUState.EnableScissor = true
	replay(d, clearCmd(1), cmd, clearCmd(0))

	st := f.State(0)
	assert.Equal(t, host, st.DrawFramebuffer)
	assert.False(t, st.Enabled[gl.SCISSOR_TEST])
	assert.False(t, st.Enabled[gl.DEPTH_TEST])
	assert.Equal(t, gl.Enum(gl.ONE), st.BlendSrc)
	assert.Equal(t, gl.Enum(gl.ONE_MINUS_SRC_ALPHA), st.BlendDst)
	require.Len(t, f.Clears, 2)
	assert.False(t, f.Clears[1].Framebuffer.Valid())
	assert.Equal(t, 3, d.BatchCount())
}

func TestBaseReplay(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	d.UpdateCommandList(driver.CommandList{draw(1, 1, driver.ShaderTypeFill)})
	d.Replay(d)
	require.Len(t, f.Draws, 1)
	assert.True(t, f.Draws[0].Framebuffer.Valid())
	assert.False(t, f.State(0).DrawFramebuffer.Valid())
	assert.Equal(t, 1, d.BatchCount())
}

func TestTwoContexts(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)

	replay(d, draw(1, 1, driver.ShaderTypeFillPath))
	f.MakeCurrent(1)
	assert.Empty(t, f.Blits)
	replay(d, draw(1, 1, driver.ShaderTypeFillPath))
	// Switching contexts never resolves.
	assert.Empty(t, f.Blits)
	assert.Equal(t, 0, d.Stats().Resolves)

	s := d.Stats()
	assert.Equal(t, 4, s.Framebuffers)
	assert.Equal(t, 2, s.VertexArrays)
	require.Len(t, f.Draws, 2)
	assert.NotEqual(t, f.Draws[0].Framebuffer, f.Draws[1].Framebuffer)
	assert.NotEqual(t, f.Draws[0].VertexArray, f.Draws[1].VertexArray)
	assert.Equal(t, gl.Context(0), f.Draws[0].Context)
	assert.Equal(t, gl.Context(1), f.Draws[1].Context)

	// Objects of context 0 are deleted in context 0, from context 1.
	d.DestroyRenderBuffer(1)
	d.DestroyGeometry(1)
	assert.Empty(t, f.Framebuffers)
	assert.Empty(t, f.VertexArrays)
	assert.Equal(t, gl.Context(1), f.Current())
}

func TestRenderBufferZero(t *testing.T) {
	d, f := newTestDriver(t, 0)
	d.CreateRenderBuffer(0, driver.RenderBuffer{TextureID: 42})
	assert.Equal(t, 0, d.Stats().RenderBuffers)
	d.DestroyRenderBuffer(0)

	replay(d, clearCmd(0))
	require.Len(t, f.Clears, 1)
	assert.False(t, f.Clears[0].Framebuffer.Valid())
	assert.Empty(t, f.Framebuffers)
}

func TestNoAliasing(t *testing.T) {
	d, f := newTestDriver(t, 0)
	bmp := driver.Bitmap{Width: 2, Height: 2, Format: driver.BitmapFormatA8UNorm, Pixels: []byte{1, 2, 3, 4}}
	d.CreateTexture(1, bmp)
	bmp.Pixels = []byte{5, 6, 7, 8}
	d.CreateTexture(2, bmp)

	t1, _ := d.textures.get(1)
	t2, _ := d.textures.get(2)
	require.NotEqual(t, t1.obj, t2.obj)
	obj2 := t2.obj

	d.DestroyTexture(1)
	_, ok := d.textures.get(1)
	assert.False(t, ok)
	t2, ok = d.textures.get(2)
	require.True(t, ok)
	assert.Equal(t, obj2, t2.obj)
	assert.Equal(t, []byte{5, 6, 7, 8}, f.Textures[obj2].Data)

	err := catchFatal(func() { d.UpdateTexture(1, bmp) })
	var uerr *driver.UsageError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, uint32(1), uerr.ID)

	err = catchFatal(func() { d.CreateTexture(2, bmp) })
	require.ErrorAs(t, err, &uerr)
	assert.True(t, uerr.Duplicate)
}

func TestUnknownFormats(t *testing.T) {
	d, f := newTestDriver(t, 0)
	err := catchFatal(func() {
		d.CreateTexture(1, driver.Bitmap{Width: 1, Height: 1, Format: driver.BitmapFormat(9), Pixels: []byte{0}})
	})
	var cerr *driver.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "bitmap format", cerr.What)
	assert.Empty(t, f.Textures)

	err = catchFatal(func() {
		d.CreateGeometry(1, driver.VertexBuffer{Format: driver.VertexBufferFormat(3)}, driver.IndexBuffer{})
	})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "vertex buffer format", cerr.What)
	assert.Empty(t, f.Buffers)

	err = catchFatal(func() {
		d.CreateTexture(1, driver.Bitmap{Width: 4, Height: 4, Format: driver.BitmapFormatA8UNorm, Pixels: make([]byte, 10)})
	})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "pixel buffer size", cerr.What)

	// Rows shorter than the width would overlap.
	err = catchFatal(func() {
		d.CreateTexture(1, driver.Bitmap{Width: 4, Height: 4, Format: driver.BitmapFormatA8UNorm, RowBytes: 2, Pixels: make([]byte, 16)})
	})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "row bytes", cerr.What)
	assert.Equal(t, 2, cerr.Value)
	assert.Empty(t, f.Textures)
}

func TestTextureAllocationFailure(t *testing.T) {
	d, f := newTestDriver(t, 4)
	f.OutOfMemory = true
	err := catchFatal(func() {
		d.CreateTexture(1, driver.Bitmap{Width: 64, Height: 32, Format: driver.BitmapFormatBGRA8UNormSRGB})
	})
	var berr *driver.BackendResourceError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "CreateTexture", berr.Op)
	assert.Contains(t, berr.Diagnostic, "64x32")
	assert.Contains(t, berr.Diagnostic, "out of memory")
	assert.Empty(t, f.Textures)
	assert.Equal(t, 0, d.Stats().Textures)

	// The error was consumed and the id is still free.
	f.OutOfMemory = false
	d.CreateTexture(1, driver.Bitmap{Width: 1, Height: 1, Format: driver.BitmapFormatA8UNorm, Pixels: []byte{1}})
	assert.Equal(t, 1, d.Stats().Textures)
}

func TestTextureUpload(t *testing.T) {
	d, f := newTestDriver(t, 0)
	// Two rows of 4 pixels with a stride of 8.
	pixels := []byte{1, 2, 3, 4, 0, 0, 0, 0, 5, 6, 7, 8}
	d.CreateTexture(1, driver.Bitmap{Width: 4, Height: 2, Format: driver.BitmapFormatA8UNorm, RowBytes: 8, Pixels: pixels})
	tex, _ := d.textures.get(1)
	obj := f.Textures[tex.obj]
	assert.Equal(t, gl.Enum(gl.R8), obj.InternalFormat)
	assert.Equal(t, gl.Enum(gl.RED), obj.Format)
	assert.Equal(t, 1, obj.Uploads)
	assert.Equal(t, 1, obj.Mipmaps)
	assert.Equal(t, gl.LINEAR_MIPMAP_LINEAR, obj.Params[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, 0, f.State(0).PixelStore[gl.UNPACK_ROW_LENGTH])

	// Same size and format updates in place.
	pixels2 := []byte{9, 9, 9, 9, 0, 0, 0, 0, 9, 9, 9, 9}
	d.UpdateTexture(1, driver.Bitmap{Width: 4, Height: 2, Format: driver.BitmapFormatA8UNorm, RowBytes: 8, Pixels: pixels2})
	assert.Equal(t, 2, obj.Uploads)
	assert.Equal(t, 2, obj.Mipmaps)
	assert.Equal(t, pixels2, obj.Data)

	d.UpdateTexture(1, driver.Bitmap{Width: 1, Height: 1, Format: driver.BitmapFormatBGRA8UNormSRGB, Pixels: []byte{1, 2, 3, 4}})
	assert.Equal(t, 1, obj.Width)
	assert.Equal(t, gl.Enum(gl.SRGB8_ALPHA8), obj.InternalFormat)
	assert.Equal(t, gl.Enum(gl.BGRA), obj.Format)
	assert.True(t, tex.srgb)

	// Render targets ignore updates.
	createTarget(d, 2, 8, 8)
	target, _ := d.textures.get(2)
	uploads := f.Textures[target.obj].Uploads
	d.UpdateTexture(2, driver.Bitmap{Width: 1, Height: 1, Format: driver.BitmapFormatA8UNorm, Pixels: []byte{1}})
	assert.Equal(t, uploads, f.Textures[target.obj].Uploads)
	assert.Equal(t, gl.Enum(gl.RGBA8), f.Textures[target.obj].InternalFormat)
	// Render targets have no mip chain.
	assert.Equal(t, gl.LINEAR, f.Textures[target.obj].Params[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, 0, f.Textures[target.obj].Mipmaps)
}

func TestProgramFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *gltest.Functions)
		message string
	}{
		{"compile", func(f *gltest.Functions) { f.FailCompile = "clipAlpha" }, "syntax error"},
		{"link", func(f *gltest.Functions) { f.FailLink = true }, "linking"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, f := newTestDriver(t, 0)
			test.setup(f)
			createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
			d.UpdateCommandList(driver.CommandList{draw(1, 0, driver.ShaderTypeFill)})
			err := catchFatal(d.DrawCommandList)
			var berr *driver.BackendResourceError
			require.ErrorAs(t, err, &berr)
			assert.Contains(t, err.Error(), test.message)
			assert.Empty(t, f.Draws)
		})
	}
}

func TestIncompleteFramebuffer(t *testing.T) {
	d, f := newTestDriver(t, 0)
	f.MaxTextureSize = 32
	createTarget(d, 1, 64, 64)
	err := catchFatal(func() { replay(d, clearCmd(1)) })
	var berr *driver.BackendResourceError
	require.ErrorAs(t, err, &berr)
	assert.Contains(t, berr.Diagnostic, "incomplete attachment")
	assert.Contains(t, berr.Diagnostic, "64x64")
	assert.Empty(t, f.Framebuffers)
}

func TestUniforms(t *testing.T) {
	d, f := newTestDriver(t, 0)
	f.InactiveUniforms = map[string]bool{"Texture3": true}
	createTarget(d, 1, 200, 100)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f2f28f)

	cmd := draw(1, 0, driver.ShaderTypeFill)
	st := &cmd.GPUState
	st.ViewportWidth, st.ViewportHeight = 200, 100
	st.Transform = translate(10, 20)
	st.UniformScalar = [8]float32{1, 2, 3, 4, 5, 6, 7, 8}
	st.UniformVector[1] = [4]float32{1, 2, 3, 4}
	st.ClipSize = 1
	st.Clip[0] = driver.Identity
	replay(d, cmd)

	prog := d.programs[driver.ShaderTypeFill].obj
	assert.Equal(t, []float32{1.5, 200, 100, 1}, f.UniformValue(prog, "State"))
	assert.InDeltaSlice(t, []float32{
		0.01, 0, 0, -0.9,
		0, -0.02, 0, 0.6,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, f.UniformValue(prog, "Transform"), 1e-6)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, f.UniformValue(prog, "Scalar4"))
	vec := f.UniformValue(prog, "Vector")
	require.Len(t, vec, 32)
	assert.Equal(t, []float32{1, 2, 3, 4}, vec[4:8])
	assert.Equal(t, []float32{1}, f.UniformValue(prog, "ClipSize"))
	assert.Equal(t, driver.Identity[:], f.UniformValue(prog, "Clip"))
	assert.Equal(t, []float32{1}, f.UniformValue(prog, "Texture2"))
	assert.Nil(t, f.UniformValue(prog, "Texture3"))

	// Offscreen targets are flipped.
	cmd.GPUState.RenderBufferID = 1
	replay(d, cmd)
	assert.InDeltaSlice(t, []float32{
		0.01, 0, 0, -0.9,
		0, 0.02, 0, -0.6,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, f.UniformValue(prog, "Transform"), 1e-6)
	u := f.Programs[prog].Uniforms["Transform"]
	assert.True(t, f.Programs[prog].Transposed[u])
}

func translate(x, y float32) f32.Mat4 {
	m := driver.Identity
	m[3], m[7] = x, y
	return m
}

func TestDrawOutsideReplay(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	cmd := draw(1, 0, driver.ShaderTypeFillPath)
	d.DrawGeometry(cmd.GeometryID, cmd.IndicesCount, 0, &cmd.GPUState)
	require.Len(t, f.Draws, 1)
	prog := d.programs[driver.ShaderTypeFillPath].obj
	assert.Equal(t, float32(1.5), f.UniformValue(prog, "State")[0])
}

func TestScissor(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createTarget(d, 1, 100, 100)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	cmd := draw(1, 0, driver.ShaderTypeFillPath)
	cmd.GPUState.ViewportWidth, cmd.GPUState.ViewportHeight = 100, 100
	cmd.GPUState.EnableScissor = true
	cmd.GPUState.ScissorRect.Min.X, cmd.GPUState.ScissorRect.Min.Y = 10, 20
	cmd.GPUState.ScissorRect.Max.X, cmd.GPUState.ScissorRect.Max.Y = 30, 60
	offscreen := cmd
	offscreen.GPUState.RenderBufferID = 1
	noScissor := cmd
	noScissor.GPUState.EnableScissor = false
	replay(d, cmd, offscreen, noScissor)

	require.Len(t, f.Draws, 3)
	assert.True(t, f.Draws[0].Scissor)
	assert.Equal(t, [4]int{10, 40, 30, 80}, rectInts(f.Draws[0]))
	assert.Equal(t, [4]int{10, 20, 30, 60}, rectInts(f.Draws[1]))
	assert.False(t, f.Draws[2].Scissor)
}

func rectInts(dr gltest.Draw) [4]int {
	r := dr.ScissorBox
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

func TestVertexLayout(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f2f28f)
	replay(d, draw(1, 0, driver.ShaderTypeFill))
	require.Len(t, f.Draws, 1)
	vao := f.VertexArrays[f.Draws[0].VertexArray]
	require.NotNil(t, vao)
	g, _ := d.geometries.get(1)
	assert.Equal(t, g.indices, vao.ElementBuffer)
	assert.Len(t, vao.Attribs, 11)
	assert.Len(t, vao.Enabled, 11)
	color := vao.Attribs[1]
	assert.Equal(t, gltest.VertexAttrib{
		Buffer:     g.vertices,
		Size:       4,
		Type:       gl.UNSIGNED_BYTE,
		Normalized: true,
		Stride:     140,
		Offset:     8,
	}, color)
	assert.Equal(t, 124, vao.Attribs[10].Offset)
	assert.Len(t, f.Buffers[g.indices].Data, 24)
	assert.Len(t, f.Buffers[g.vertices].Data, 4*140)
}

func TestUpdateGeometry(t *testing.T) {
	d, f := newTestDriver(t, 0)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	replay(d, draw(1, 0, driver.ShaderTypeFillPath))

	vb, ib := quad(driver.VertexBufferFormat2f4ub2f)
	vb.Data = append(vb.Data, make([]byte, 20)...)
	d.UpdateGeometry(1, vb, ib)
	replay(d, draw(1, 0, driver.ShaderTypeFillPath))
	require.Len(t, f.Draws, 2)
	assert.Equal(t, f.Draws[0].VertexArray, f.Draws[1].VertexArray)
	g, _ := d.geometries.get(1)
	assert.Equal(t, 2, f.Buffers[g.vertices].Uploads)
	assert.Len(t, f.Buffers[g.vertices].Data, 100)

	// A new layout needs new vertex arrays.
	vb, ib = quad(driver.VertexBufferFormat2f4ub2f2f28f)
	d.UpdateGeometry(1, vb, ib)
	assert.Empty(t, f.VertexArrays)
	assert.Equal(t, 0, d.Stats().VertexArrays)
	replay(d, draw(1, 0, driver.ShaderTypeFill))
	assert.Len(t, f.VertexArrays[f.Draws[2].VertexArray].Attribs, 11)
}

func TestDestroyRenderBufferKeepsTexture(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	replay(d, draw(1, 1, driver.ShaderTypeFillPath))
	d.DestroyRenderBuffer(1)

	tex, ok := d.textures.get(1)
	require.True(t, ok)
	assert.Equal(t, uint32(0), tex.renderBufferID)
	// Sampling no longer resolves.
	replay(d, draw(1, 0, driver.ShaderTypeFillPath, 1))
	assert.Empty(t, f.Blits)
	assert.Empty(t, f.Framebuffers)
}

func TestStatsAndRelease(t *testing.T) {
	d, f := newTestDriver(t, 4)
	createTarget(d, 1, 64, 64)
	d.CreateTexture(2, driver.Bitmap{Width: 1, Height: 1, Format: driver.BitmapFormatA8UNorm, Pixels: []byte{0xff}})
	createQuad(d, 1, driver.VertexBufferFormat2f4ub2f)
	replay(d, draw(1, 1, driver.ShaderTypeFillPath), draw(1, 0, driver.ShaderTypeFillPath, 1, 2))

	assert.Equal(t, Stats{
		Textures:      2,
		Geometries:    1,
		RenderBuffers: 1,
		Framebuffers:  2,
		VertexArrays:  1,
		Resolves:      1,
	}, d.Stats())

	d.Release()
	assert.Equal(t, Stats{Resolves: 1}, d.Stats())
	assert.Empty(t, f.Textures)
	assert.Empty(t, f.Buffers)
	assert.Empty(t, f.Framebuffers)
	assert.Empty(t, f.VertexArrays)
	assert.Empty(t, f.Programs)
	assert.Empty(t, f.Shaders)
}
