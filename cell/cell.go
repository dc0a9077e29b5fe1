// Package cell implements the tagged-value collaborator that spec.md
// treats as external: a fixed-width cell that holds either a GC-relevant
// value or a raw native pointer, distinguishable by tag. The native
// pointer representation is what the allocator threads its free list
// through, so a free-list link occupies the same storage as a live value
// and needs no separate "next" field.
//
// A Cell's payload is a single machine word. This mirrors a NaN-boxed
// tagged value (the thing spec.md calls "the managed value encoding
// itself", explicitly out of scope for this repo) closely enough to be a
// believable stand-in, and — just as importantly — it keeps a Cell free of
// any field the Go runtime would want to scan for pointers, which is what
// lets slots live in memory the allocator manages itself (see chunk.go)
// instead of ordinary garbage-collected Go memory.
package cell

import "unsafe"

// Tag identifies what a Cell currently holds.
type Tag uint8

const (
	// TagEmpty marks untouched storage; reading one is a programmer error.
	TagEmpty Tag = iota
	// TagValue marks a cell holding a GC-relevant value, visible to a root visitor.
	TagValue
	// TagNative marks a cell holding a raw pointer (a free-list link). A
	// visitor must ignore cells carrying this tag.
	TagNative
)

// maxPayloadSize bounds what Encode will accept: a Cell has room for one
// machine word of payload.
const maxPayloadSize = unsafe.Sizeof(uint64(0))

// Cell is a fixed-width union: either a tagged value or a native pointer,
// never both. The zero value is TagEmpty.
type Cell struct {
	tag Tag
	raw uint64
}

// Tag reports what kind of payload this cell currently holds.
func (c Cell) Tag() Tag { return c.tag }

// IsNative reports whether this cell holds a native pointer rather than a
// GC-relevant value. A root visitor must skip cells for which this is true.
func (c Cell) IsNative() bool { return c.tag == TagNative }

// IsEmpty reports whether this cell has never been written.
func (c Cell) IsEmpty() bool { return c.tag == TagEmpty }

// Encode packs v into a new value-tagged Cell. Panics if T is wider than a
// machine word: the cell has nowhere to put the rest.
func Encode[T any](v T) Cell {
	if unsafe.Sizeof(v) > maxPayloadSize {
		panic("cell: value does not fit in a tagged cell")
	}
	var c Cell
	c.tag = TagValue
	*(*T)(unsafe.Pointer(&c.raw)) = v
	return c
}

// Decode unpacks a value-tagged Cell as T. Precondition: c was produced by
// Encode[T] (or Set with the same T); violating this is a programmer error.
func Decode[T any](c Cell) T {
	var zero T
	if unsafe.Sizeof(zero) > maxPayloadSize {
		panic("cell: value does not fit in a tagged cell")
	}
	return *(*T)(unsafe.Pointer(&c.raw))
}

// TryDecode is the non-panicking form of Decode, used by root visitors that
// must tolerate cells of any tag, including native-pointer-tagged free-list
// links.
func TryDecode[T any](c Cell) (T, bool) {
	var zero T
	if c.tag != TagValue || unsafe.Sizeof(zero) > maxPayloadSize {
		return zero, false
	}
	return *(*T)(unsafe.Pointer(&c.raw)), true
}

// EncodeNativePointer packs p into a new native-pointer-tagged Cell. This is
// the mechanism the allocator uses to thread a chunk's free list through
// slot storage without any separate "next" field.
func EncodeNativePointer(p unsafe.Pointer) Cell {
	return Cell{tag: TagNative, raw: uint64(uintptr(p))}
}

// DecodeNativePointer unpacks a native-pointer-tagged Cell. Precondition:
// c.IsNative().
func DecodeNativePointer(c Cell) unsafe.Pointer {
	if c.tag != TagNative {
		panic("cell: DecodeNativePointer on a non-native cell")
	}
	return unsafe.Pointer(uintptr(c.raw))
}
