package rootpool

import (
	"github.com/kestrelvm/rootpool/cell"
)

// noCopy makes `go vet`'s copylocks check flag any accidental copy of a
// Handle, the same trick sync.WaitGroup uses. A Handle is spec.md §9's
// move-only type: Go has no destructors or move semantics, so this is the
// closest idiomatic stand-in for "the compiler refuses to copy this" — it
// only catches lock/sync.Locker-shaped copies, which is exactly what
// go vet's analysis looks for, not a general copy guard, but it is the
// established convention for signaling "don't copy me" in Go.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle is a single-machine-word root: a pointer to a live Slot, nothing
// else. It carries no reference back to the Allocator that created it —
// spec.md §9 requires this, since chunkForSlot recovers the owning chunk
// from the slot address alone. The zero Handle is invalid and holds no
// slot, matching spec.md invariant 8.
type Handle[T any] struct {
	_    noCopy
	slot *Slot
}

// Valid reports whether h currently refers to a live slot. A Handle
// becomes invalid after Release, after being moved from via Take or
// MoveFrom, or if it was never assigned by Allocate.
func (h *Handle[T]) Valid() bool {
	return h.slot != nil
}

// Get reads the handle's current value. Panics with ErrInvalidHandle if h
// is invalid. This panic is unconditional, not gated by
// Options.StrictHandles: a Handle carries only a *Slot, never a reference
// back to the Allocator that created it (spec.md §9), so it has no way to
// consult Options at all — there is no backlink to hang a "recoverable
// under strict mode" path off of. Callers who need to avoid the panic
// should check Valid first.
func (h *Handle[T]) Get() T {
	if h.slot == nil {
		panic(ErrInvalidHandle)
	}
	return cell.Decode[T](h.slot.cell)
}

// Set overwrites the handle's current value in place. The slot address
// does not change: any other Handle aliasing the same slot (there should
// be none, by convention, but nothing enforces it) would observe the new
// value too. Panics with ErrInvalidHandle if h is invalid; see Get.
func (h *Handle[T]) Set(value T) {
	if h.slot == nil {
		panic(ErrInvalidHandle)
	}
	h.slot.cell = cell.Encode(value)
}

// RawCell exposes the handle's underlying cell for a root visitor or for
// gcheap-style collaborators that need to read/write the tagged
// representation directly, mirroring the read/write split Hermes's
// Handle<T> gets from its operator Handle<T>()/operator MutableHandle<T>()
// conversions (original_source/include/hermes/DynHandle/DynHandle.h).
// Panics with ErrInvalidHandle if h is invalid; see Get.
func (h *Handle[T]) RawCell() *cell.Cell {
	if h.slot == nil {
		panic(ErrInvalidHandle)
	}
	return &h.slot.cell
}

// Release frees the handle's slot and invalidates h. It needs no
// Allocator: the owning chunk is recovered from the slot's own address, as
// spec.md §9 requires of a one-word Handle. Calling Release on an already
// invalid Handle is a no-op, so defer h.Release() is always safe.
//
// Release panics with ErrFreeListCorrupt if the slot is already on its
// chunk's free list — a double free, reachable whenever a Handle has been
// copied by plain assignment (noCopy only trips `go vet`; nothing stops
// the copy at runtime) and Release is then called through both copies.
// This check is unconditional, independent of Options.StrictHandles; see
// chunk.free.
func (h *Handle[T]) Release() {
	if h.slot == nil {
		return
	}
	c := chunkForSlot(h.slot)
	if err := c.free(h.slot); err != nil {
		panic(err)
	}
	h.slot = nil
}

// Take moves ownership of h's slot into a new Handle, invalidating h. This
// is spec.md §9's move-construction: after Take, the original no longer
// refers to any slot and must not be used again except to check Valid.
func (h *Handle[T]) Take() Handle[T] {
	moved := Handle[T]{slot: h.slot}
	h.slot = nil
	return moved
}

// MoveFrom move-assigns src into h: h's current slot, if any, is released
// first, then src's slot transfers to h and src is invalidated. This is
// spec.md §9's move-assignment.
func (h *Handle[T]) MoveFrom(src *Handle[T]) {
	if h.slot != nil {
		h.Release()
	}
	h.slot = src.slot
	src.slot = nil
}
