// SPDX-License-Identifier: Unlicense OR MIT

package opengl

import (
	"golang.org/x/exp/slices"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
)

// registry maps densely allocated ids to resources. Ids index the slots
// slice directly; destroyed resources leave a tombstone.
type registry[T any] struct {
	kind  string
	slots []slot[T]
	live  int
}

type slot[T any] struct {
	live bool
	val  T
}

// insert stores v under id. Creating a live id is fatal.
func (r *registry[T]) insert(op string, id uint32, v T) *T {
	if int(id) >= len(r.slots) {
		n := int(id) + 1
		if n < 2*len(r.slots) {
			n = 2 * len(r.slots)
		}
		r.slots = append(r.slots, make([]slot[T], n-len(r.slots))...)
	}
	s := &r.slots[id]
	if s.live {
		driver.Fatal(&driver.UsageError{Op: op, Kind: r.kind, ID: id, Duplicate: true})
	}
	s.live = true
	s.val = v
	r.live++
	return &s.val
}

func (r *registry[T]) get(id uint32) (*T, bool) {
	if int(id) >= len(r.slots) || !r.slots[id].live {
		return nil, false
	}
	return &r.slots[id].val, true
}

// lookup returns the resource for id. Unknown ids are fatal.
func (r *registry[T]) lookup(op string, id uint32) *T {
	v, ok := r.get(id)
	if !ok {
		driver.Fatal(&driver.UsageError{Op: op, Kind: r.kind, ID: id})
	}
	return v
}

// remove tombstones id and returns its resource. Unknown ids are fatal.
func (r *registry[T]) remove(op string, id uint32) T {
	v := *r.lookup(op, id)
	r.slots[id] = slot[T]{}
	r.live--
	return v
}

func (r *registry[T]) len() int {
	return r.live
}

func (r *registry[T]) each(fn func(id uint32, v *T)) {
	for i := range r.slots {
		if s := &r.slots[i]; s.live {
			fn(uint32(i), &s.val)
		}
	}
}

// ctxMap holds one context scoped object per context. There are rarely
// more than a couple of contexts, so lookups are linear.
type ctxMap[T any] struct {
	entries []ctxEntry[T]
}

type ctxEntry[T any] struct {
	ctx gl.Context
	val T
}

func (m *ctxMap[T]) get(ctx gl.Context) (*T, bool) {
	i := slices.IndexFunc(m.entries, func(e ctxEntry[T]) bool { return e.ctx == ctx })
	if i == -1 {
		return nil, false
	}
	return &m.entries[i].val, true
}

func (m *ctxMap[T]) put(ctx gl.Context, v T) *T {
	if e, ok := m.get(ctx); ok {
		*e = v
		return e
	}
	m.entries = append(m.entries, ctxEntry[T]{ctx: ctx, val: v})
	return &m.entries[len(m.entries)-1].val
}

func (m *ctxMap[T]) delete(ctx gl.Context) {
	i := slices.IndexFunc(m.entries, func(e ctxEntry[T]) bool { return e.ctx == ctx })
	if i != -1 {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
}

func (m *ctxMap[T]) len() int {
	return len(m.entries)
}

func (m *ctxMap[T]) each(fn func(ctx gl.Context, v *T)) {
	for i := range m.entries {
		fn(m.entries[i].ctx, &m.entries[i].val)
	}
}

func (m *ctxMap[T]) clear() {
	m.entries = nil
}
