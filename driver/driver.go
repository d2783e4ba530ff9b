// SPDX-License-Identifier: Unlicense OR MIT

// Package driver defines the contract between a web rendering engine
// and a GPU rendering driver: resource descriptors, the command list
// format and the Driver interface implemented by graphics backends.
//
// All methods must be called from the thread owning the active
// graphics context. Nothing in this package or its backends is safe
// for concurrent use.
package driver

// Primitives are the per-command operations replayed from a command
// list.
type Primitives interface {
	DrawGeometry(geometryID uint32, indicesCount, indicesOffset uint32, state *GPUState)
	ClearRenderBuffer(renderBufferID uint32)
}

// Backend is what Base.Replay needs from a graphics backend.
type Backend interface {
	Primitives
	// BindRenderBuffer makes the render buffer the current draw target.
	// Id 0 is the default target.
	BindRenderBuffer(renderBufferID uint32)
}

// Driver is the capability set a rendering engine drives.
type Driver interface {
	Primitives

	// BeginSynchronize and EndSynchronize bracket a batch of resource
	// mutations.
	BeginSynchronize()
	EndSynchronize()

	NextTextureID() uint32
	CreateTexture(textureID uint32, bitmap Bitmap)
	UpdateTexture(textureID uint32, bitmap Bitmap)
	DestroyTexture(textureID uint32)

	NextRenderBufferID() uint32
	CreateRenderBuffer(renderBufferID uint32, buffer RenderBuffer)
	DestroyRenderBuffer(renderBufferID uint32)

	NextGeometryID() uint32
	CreateGeometry(geometryID uint32, vertices VertexBuffer, indices IndexBuffer)
	UpdateGeometry(geometryID uint32, vertices VertexBuffer, indices IndexBuffer)
	DestroyGeometry(geometryID uint32)

	// UpdateCommandList replaces the pending command list.
	UpdateCommandList(list CommandList)
	HasCommandsPending() bool
	// DrawCommandList replays and empties the pending command list.
	DrawCommandList()
	// BatchCount is the number of commands replayed by the last
	// non-empty DrawCommandList.
	BatchCount() int
}

// Base implements the backend independent parts of a Driver: id
// allocation and ownership of the pending command list. Backends embed
// it.
type Base struct {
	lastTextureID      uint32
	lastRenderBufferID uint32
	lastGeometryID     uint32

	commands   CommandList
	batchCount int
}

func (b *Base) BeginSynchronize() {}

func (b *Base) EndSynchronize() {}

// NextTextureID allocates a texture id. Ids start at 1.
func (b *Base) NextTextureID() uint32 {
	b.lastTextureID++
	return b.lastTextureID
}

// NextRenderBufferID allocates a render buffer id. Ids start at 1; 0
// denotes the default target.
func (b *Base) NextRenderBufferID() uint32 {
	b.lastRenderBufferID++
	return b.lastRenderBufferID
}

// NextGeometryID allocates a geometry id. Ids start at 1.
func (b *Base) NextGeometryID() uint32 {
	b.lastGeometryID++
	return b.lastGeometryID
}

func (b *Base) UpdateCommandList(list CommandList) {
	b.commands = append(b.commands[:0], list...)
}

func (b *Base) HasCommandsPending() bool {
	return len(b.commands) > 0
}

func (b *Base) BatchCount() int {
	return b.batchCount
}

// Commands returns the pending command list. The slice is only valid
// until the next UpdateCommandList or Drain.
func (b *Base) Commands() CommandList {
	return b.commands
}

// Drain calls fn for every pending command in submission order, counts
// each as a batch and empties the list. The batch count is reset first.
// Drain reports false and does nothing if no commands are pending.
func (b *Base) Drain(fn func(cmd *Command)) bool {
	if len(b.commands) == 0 {
		return false
	}
	b.batchCount = 0
	for i := range b.commands {
		fn(&b.commands[i])
		b.batchCount++
	}
	b.commands = b.commands[:0]
	return true
}

// Replay is the default command list replay: every command is
// dispatched to be, after which the default target is bound.
func (b *Base) Replay(be Backend) {
	if !b.Drain(func(cmd *Command) { Dispatch(be, cmd) }) {
		return
	}
	be.BindRenderBuffer(0)
}

// Dispatch calls the primitive matching cmd.Type. Unknown command types
// are ignored.
func Dispatch(p Primitives, cmd *Command) {
	switch cmd.Type {
	case CommandTypeDrawGeometry:
		p.DrawGeometry(cmd.GeometryID, cmd.IndicesCount, cmd.IndicesOffset, &cmd.GPUState)
	case CommandTypeClearRenderBuffer:
		p.ClearRenderBuffer(cmd.GPUState.RenderBufferID)
	}
}
