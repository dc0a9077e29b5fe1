package rootpool

import (
	"go.uber.org/zap"

	"github.com/kestrelvm/rootpool/cell"
	"github.com/kestrelvm/rootpool/internal/platform"
)

// Allocator is a singly-linked list of chunks. It serves allocation
// requests, lazily grows, and drives root marking for a tracing GC — the
// HandleAllocator of spec.md §4.2.
//
// An Allocator belongs to exactly one goroutine's worth of single-threaded
// use (spec.md §5: no locks, no atomics; the caller's own stop-the-world
// discipline is what keeps MarkRoots from interleaving with Allocate/Free).
type Allocator struct {
	chunksHead *chunk
	logger     *zap.Logger
	strict     bool
}

// NewAllocator constructs an empty Allocator. Chunks are created lazily, on
// the first Allocate call, matching spec.md §3's chunk lifecycle.
func NewAllocator(opts Options) *Allocator {
	resolveGeometry()
	return &Allocator{
		logger: loggerOrNop(opts.Logger),
		strict: opts.StrictHandles,
	}
}

// Allocate reserves a new live slot and wraps it in a Handle carrying
// value. This is spec.md §4.2's allocate<T>, expressed as a free function
// because Go methods cannot take their own type parameters.
func Allocate[T any](a *Allocator, value T) Handle[T] {
	slot := a.allocateSlot()
	slot.cell = cell.Encode(value)
	return Handle[T]{slot: slot}
}

// allocateSlot implements the fast/slow/exhaustion paths of spec.md §4.2.
func (a *Allocator) allocateSlot() *Slot {
	if a.chunksHead != nil {
		if s := a.chunksHead.tryAllocate(); s != nil {
			return s
		}
	}
	return a.allocateSlotSlowPath()
}

// allocateSlotSlowPath searches every chunk for spare capacity, splicing
// the first one found to the head of the list (amortizing future search
// cost), then falls through to growing a new chunk if none had room.
// Aligned-allocation failure is fatal: spec.md §7 treats handle allocation
// as never allowed to fail, since propagating that error through every
// native call site that needs a root would be untenable.
func (a *Allocator) allocateSlotSlowPath() *Slot {
	var prev *chunk
	for c := a.chunksHead; c != nil; prev, c = c, c.next {
		if s := c.tryAllocate(); s != nil {
			if prev != nil {
				prev.next = c.next
				c.next = a.chunksHead
				a.chunksHead = c
				a.logger.Debug("rootpool: promoted chunk to head", zap.Uintptr("chunk", c.addr()))
			}
			return s
		}
	}

	c, err := newChunk(a.chunksHead)
	if err != nil {
		a.logger.Fatal("rootpool: aligned chunk allocation failed",
			zap.Int("chunk_size", chunkSizeUsed), zap.Error(err))
		panic(err) // unreachable: zap.Logger.Fatal exits the process first
	}
	a.chunksHead = c
	a.logger.Debug("rootpool: allocated new chunk", zap.Uintptr("chunk", c.addr()))

	s := c.tryAllocate()
	if s == nil {
		panic("rootpool: freshly allocated chunk unexpectedly has no room")
	}
	return s
}

// FreeSlot returns slot to its owning chunk's free list. O(1): the owning
// chunk is found by masking slot's address, never by walking the chunk
// list. Handles never call this directly — see handle.go's Release, which
// performs the same bitmask recovery without needing an *Allocator at all,
// matching spec.md §9's "Handle-to-allocator backlink" note. FreeSlot exists
// for callers managing slots outside of a Handle (and for symmetry with
// spec.md §4.2's free_slot).
//
// Under Options.StrictHandles, FreeSlot first verifies that c is one of this
// allocator's chunks and that c contains slot, returning ErrSlotNotOwned
// otherwise; this check walks the chunk list and is skipped by default,
// trusting the caller, as spec.md §7's release-build policy calls for.
// Double-free detection (see
// chunk.free) is never skipped: it is unconditional regardless of
// StrictHandles, since it is cheap and the corruption it prevents is real.
func (a *Allocator) FreeSlot(slot *Slot) error {
	c := chunkForSlot(slot)
	if a.strict {
		owned := false
		for oc := a.chunksHead; oc != nil; oc = oc.next {
			if oc == c {
				owned = c.contains(slot)
				break
			}
		}
		if !owned {
			return ErrSlotNotOwned
		}
	}
	return c.free(slot)
}

// MarkRoots offers every live cell, across every chunk, to v — the root
// marking contract of spec.md §6. Cells in [0, allocatedEnd) that are
// actually free-list links are still presented; v is required to ignore
// any cell for which IsNative is true.
func (a *Allocator) MarkRoots(v Visitor) {
	for c := a.chunksHead; c != nil; c = c.next {
		for i := uint32(0); i < c.allocatedEnd; i++ {
			s := c.slotAt(i)
			v.Visit(&s.cell)
		}
	}
}

// LiveCount walks every chunk and returns the number of live slots: the
// public form of the countAllocations helper Hermes's DynHandleTests kept
// private for testing only (original_source/unittests/DynHandle/DynHandleTest.cpp).
func (a *Allocator) LiveCount() int {
	total := 0
	for c := a.chunksHead; c != nil; c = c.next {
		total += int(c.allocatedEnd) - c.freeListLen()
	}
	return total
}

// ChunkCount returns the number of chunks currently linked into this
// allocator.
func (a *Allocator) ChunkCount() int {
	n := 0
	for c := a.chunksHead; c != nil; c = c.next {
		n++
	}
	return n
}

// Close releases every chunk's backing memory back to the platform, in
// list order — spec.md §4.2's Destruction. Handles outliving Close are a
// programmer error the design does not detect, exactly as spec.md §7
// describes.
func (a *Allocator) Close() error {
	var first error
	for c := a.chunksHead; c != nil; {
		next := c.next
		if err := platform.FreeAligned(c.rawBytes()); err != nil && first == nil {
			first = err
		}
		c = next
	}
	a.chunksHead = nil
	return first
}
