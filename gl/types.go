// SPDX-License-Identifier: Unlicense OR MIT

package gl

type (
	Attrib uint
	Enum   uint
)

type (
	Buffer      struct{ V uint }
	Framebuffer struct{ V uint }
	Program     struct{ V uint }
	Shader      struct{ V uint }
	Texture     struct{ V uint }
	Uniform     struct{ V int }
	VertexArray struct{ V uint }
	Object      struct{ V uint }
)

// Context identifies a GL context. Objects such as framebuffers and
// vertex arrays are only valid in the context that created them.
// The zero Context is a valid identity for hosts with a single context.
type Context uintptr

func (b Buffer) Valid() bool {
	return b.V != 0
}

func (f Framebuffer) Valid() bool {
	return f.V != 0
}

func (u Uniform) Valid() bool {
	return u.V != -1
}

func (p Program) Valid() bool {
	return p.V != 0
}

func (s Shader) Valid() bool {
	return s.V != 0
}

func (t Texture) Valid() bool {
	return t.V != 0
}

func (a VertexArray) Valid() bool {
	return a.V != 0
}
