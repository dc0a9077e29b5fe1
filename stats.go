package rootpool

import (
	"fmt"
	"strings"

	"github.com/willf/bitset"

	"github.com/kestrelvm/rootpool/cell"
)

// ChunkStats is a point-in-time snapshot of one chunk's occupancy, for
// diagnostics only — it plays no part in allocate/free correctness, which
// is fully determined by allocatedEnd and the free list alone.
type ChunkStats struct {
	Addr         uintptr
	SlotsTotal   uint32
	SlotsUsed    uint32
	AllocatedEnd uint32
	FreeListLen  int
}

// Stats snapshots every chunk currently linked into a, head first — the
// same "walk and report" shape as the teacher's slabPool diagnostics, just
// rebuilt around this package's chunk/slot geometry instead of a
// bitset-per-slab.
func (a *Allocator) Stats() []ChunkStats {
	var out []ChunkStats
	for c := a.chunksHead; c != nil; c = c.next {
		freeLen := c.freeListLen()
		out = append(out, ChunkStats{
			Addr:         c.addr(),
			SlotsTotal:   slotsPerChunk,
			SlotsUsed:    c.allocatedEnd - uint32(freeLen),
			AllocatedEnd: c.allocatedEnd,
			FreeListLen:  freeLen,
		})
	}
	return out
}

// liveBitset computes which slots in [0, allocatedEnd) are currently live
// (not on the free list), for String's human-readable dump. O(allocatedEnd
// + free list length); diagnostics only.
func (c *chunk) liveBitset() *bitset.BitSet {
	bs := bitset.New(uint(c.allocatedEnd))
	for i := uint32(0); i < c.allocatedEnd; i++ {
		bs.Set(uint(i))
	}
	for s := c.freeHead; s != nil; s = (*Slot)(cell.DecodeNativePointer(s.cell)) {
		bs.Clear(uint(c.indexOf(s)))
	}
	return bs
}

// String creates a multi-line human-readable dump of one chunk, in the
// spirit of the teacher's slab.String: address, sizing, and a bit per slot
// showing live/free.
func (c *chunk) String() string {
	var b strings.Builder
	live := c.liveBitset()

	fmt.Fprintf(&b, "-------------------------------\n")
	fmt.Fprintf(&b, "Chunk Addr: %#x\n", c.addr())
	fmt.Fprintf(&b, "Slots Per Chunk: %d\n", slotsPerChunk)
	fmt.Fprintf(&b, "Allocated End: %d\n", c.allocatedEnd)
	fmt.Fprintf(&b, "Free List Length: %d\n", c.freeListLen())

	for i := uint32(0); i < c.allocatedEnd; i++ {
		mark := "free"
		if live.Test(uint(i)) {
			mark = "live"
		}
		fmt.Fprintf(&b, "slot[%d]: %s\n", i, mark)
	}
	return b.String()
}
