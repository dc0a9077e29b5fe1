package rootpool

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/kestrelvm/rootpool/cell"
	"github.com/kestrelvm/rootpool/internal/platform"
)

// Slot is storage for one tagged cell at a stable address; the unit of
// allocation. A Slot is never copied or moved: Allocator always hands out
// a pointer into a chunk's backing memory, and that pointer stays valid
// for the chunk's lifetime (spec.md invariant 7).
type Slot struct {
	cell cell.Cell
}

// chunk is a page-aligned block holding a header and a contiguous run of
// Slots. The slot array is not a Go field: it starts immediately after the
// header, in the same backing memory, and is reached by pointer arithmetic
// (slotAt). This mirrors llvm::TrailingObjects in the teacher's original
// source, and the teacher's own slab, which lays out a bitset and an object
// array the same way after a one-byte header.
//
// Chunks are allocated and freed through internal/platform, never through
// ordinary Go allocation: their address must be ChunkSize-aligned so that
// chunkForSlot can recover a chunk from any of its slot pointers by masking,
// with no per-slot metadata (spec.md §4.1).
type chunk struct {
	next         *chunk
	freeHead     *Slot
	allocatedEnd uint32
}

var slotSize = unsafe.Sizeof(Slot{})
var headerSize = unsafe.Sizeof(chunk{})

var (
	geometryOnce  sync.Once
	chunkSizeUsed int
	chunkMask     uintptr
	slotsPerChunk uint32
)

// resolveGeometry fixes the chunk byte size, the slots-per-chunk count, and
// the alignment mask for the remaining lifetime of the process, the first
// time an Allocator is constructed. Go has no compile-time static_assert
// for a value computed from unsafe.Sizeof across packages, so this is the
// idiomatic substitute: fail fast, once, the first time it matters, rather
// than silently deriving a bad mask. ChunkSize must not change after this
// has run; see config.go.
func resolveGeometry() {
	geometryOnce.Do(func() {
		size := ChunkSize
		if size <= 0 || size&(size-1) != 0 {
			panic(fmt.Sprintf("rootpool: ChunkSize %d is not a power of two", size))
		}
		if platform.PageSize > 0 && (size > platform.PageSize || platform.PageSize%size != 0) {
			panic(fmt.Sprintf("rootpool: ChunkSize %d must evenly divide the platform page size %d for an anonymous mmap of ChunkSize bytes to be guaranteed ChunkSize-aligned", size, platform.PageSize))
		}
		chunkSizeUsed = size
		chunkMask = ^uintptr(size - 1)
		slotsPerChunk = uint32((uintptr(size) - headerSize) / slotSize)
		if slotsPerChunk == 0 {
			panic(fmt.Sprintf("rootpool: ChunkSize %d is too small to hold a header and any slots", size))
		}
		if headerSize+uintptr(slotsPerChunk)*slotSize > uintptr(size) {
			panic("rootpool: chunk footprint exceeds ChunkSize")
		}
	})
}

// newChunk requests a fresh ChunkSize-aligned region from the platform and
// initializes its header. next becomes the new chunk's successor, matching
// allocateSlotSlowPath's exhaustion path: the new chunk is always linked in
// at the head.
func newChunk(next *chunk) (*chunk, error) {
	raw, err := platform.AllocAligned(chunkSizeUsed)
	if err != nil {
		return nil, err
	}
	c := (*chunk)(unsafe.Pointer(&raw[0]))
	c.next = next
	c.freeHead = nil
	c.allocatedEnd = 0
	return c, nil
}

// rawBytes reconstructs the byte slice view over this chunk's backing
// memory, for handing back to platform.FreeAligned. The teacher's
// slabPool.deleteSlab does the same reconstruction (there via
// reflect.SliceHeader) to recover a []byte for syscall.Munmap.
func (c *chunk) rawBytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(c)), chunkSizeUsed)
}

func (c *chunk) addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

func (c *chunk) slotsBase() unsafe.Pointer {
	return unsafe.Pointer(c.addr() + headerSize)
}

func (c *chunk) slotAt(i uint32) *Slot {
	return (*Slot)(unsafe.Pointer(uintptr(c.slotsBase()) + uintptr(i)*slotSize))
}

func (c *chunk) indexOf(slot *Slot) uint32 {
	base := uintptr(c.slotsBase())
	return uint32((uintptr(unsafe.Pointer(slot)) - base) / slotSize)
}

// contains reports whether slot points into this chunk's slot array.
func (c *chunk) contains(slot *Slot) bool {
	base := uintptr(c.slotsBase())
	p := uintptr(unsafe.Pointer(slot))
	if p < base {
		return false
	}
	idx := (p - base) / slotSize
	return idx < uintptr(slotsPerChunk)
}

// chunkForSlot recovers the owning chunk of any slot pointer by masking,
// per spec.md §4.1/§6: chunk_of(s) = s & ~(CHUNK_SIZE - 1).
func chunkForSlot(slot *Slot) *chunk {
	base := uintptr(unsafe.Pointer(slot)) & chunkMask
	return (*chunk)(unsafe.Pointer(base))
}

// tryAllocate returns a slot from this chunk, or nil if it is full. The
// returned slot's cell contents are undefined; the caller must overwrite
// them before any read.
func (c *chunk) tryAllocate() *Slot {
	if c.freeHead != nil {
		s := c.freeHead
		c.freeHead = (*Slot)(cell.DecodeNativePointer(s.cell))
		return s
	}
	if c.allocatedEnd < slotsPerChunk {
		s := c.slotAt(c.allocatedEnd)
		c.allocatedEnd++
		return s
	}
	return nil
}

// free pushes slot onto this chunk's free list, encoding the current head
// into the slot's own cell as a native pointer. Precondition: slot is in
// this chunk.
//
// free refuses to push a slot that is already native-tagged: that can only
// mean the slot is already sitting on some chunk's free list, i.e. this is
// a double free. Pushing it again would splice the free list into a cycle
// and, on the next two TryAllocate calls, hand the same address out to two
// live callers at once — exactly the aliasing spec invariant 6 forbids.
// This check costs one tag read and is always performed, independent of
// Options.StrictHandles: unlike the chunk-ownership check in
// Allocator.FreeSlot, it requires no extra computation to make safe, so
// there is no "trust the invariant" tier for it to opt out of.
func (c *chunk) free(slot *Slot) error {
	if slot.cell.IsNative() {
		return ErrFreeListCorrupt
	}
	slot.cell = cell.EncodeNativePointer(unsafe.Pointer(c.freeHead))
	c.freeHead = slot
	return nil
}

// freeListLen walks the free list and counts it. O(free list length); used
// only by Allocator.LiveCount and the diagnostics in stats.go, never on the
// allocate/free fast path.
func (c *chunk) freeListLen() int {
	n := 0
	for s := c.freeHead; s != nil; s = (*Slot)(cell.DecodeNativePointer(s.cell)) {
		n++
	}
	return n
}
