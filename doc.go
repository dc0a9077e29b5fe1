// Package rootpool implements a chunked, intrusive free-list allocator for
// GC root handles: fixed-size Slots inside ChunkSize-aligned Chunks, handed
// out as single-word Handle[T] values whose owning chunk is recovered by
// masking the address of the handle's slot, never by a backlink.
//
// Freeing is O(1), and so is Allocate while the head chunk has room;
// otherwise Allocate walks the chunk list. MarkRoots offers every live cell across every
// chunk to a Visitor, for a caller driving its own tracing collector (see
// the gcheap package for a minimal one).
package rootpool
