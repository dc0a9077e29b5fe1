package rootpool

import (
	"go.uber.org/zap"

	"github.com/kestrelvm/rootpool/internal/platform"
)

// ChunkSize is the byte size — and required alignment — of every chunk
// this package allocates. spec.md §6 calls this a compile-time parameter;
// Go has no template-style compile-time constant derived from a platform
// syscall, so this is a package variable instead, resolved once (see
// resolveGeometry in chunk.go) the first time an Allocator is constructed,
// and frozen for the remainder of the process.
//
// Set this before constructing any Allocator if the default is wrong for
// your platform. It defaults to the real page size so that a single
// anonymous mmap of exactly ChunkSize bytes comes back aligned to
// ChunkSize for free (see internal/platform and chunk.go's newChunk) — the
// teacher's newSlab never needed this because its slabs were not required
// to self-align; this allocator's bitmask trick is.
var ChunkSize = defaultChunkSize()

func defaultChunkSize() int {
	size := platform.PageSize
	if size > 0 && size&(size-1) == 0 {
		return size
	}
	return 4096
}

// Options configures an Allocator. Following the teacher's config.go (a
// plain struct plus a constructor returning sane defaults, no
// configuration framework for the library itself), Options has no
// behavior of its own.
type Options struct {
	// Logger receives the allocator's diagnostic events: chunk creation,
	// chunk-to-head promotion, and the fatal abort path. Defaults to a
	// no-op logger.
	Logger *zap.Logger

	// StrictHandles turns on the extra bookkeeping check spec.md §7 assigns
	// to "debug builds": chunk-ownership verification on Allocator.FreeSlot,
	// returning ErrSlotNotOwned instead of trusting the invariant. Off by
	// default, matching the spec's "release builds trust the invariant"
	// policy.
	//
	// Double-free detection (ErrFreeListCorrupt) and Handle-level invalid-
	// access panics (ErrInvalidHandle) are not part of this toggle: they are
	// always on. Handle carries only a *Slot, never a reference back to an
	// Allocator or its Options, so there is no way for Handle.Get/Set/
	// RawCell/Release to consult StrictHandles in the first place — and the
	// double-free check costs only a tag read, cheap enough to never be
	// worth skipping.
	StrictHandles bool
}

// DefaultOptions returns the Options a new Allocator uses when none are
// given explicitly.
func DefaultOptions() Options {
	return Options{
		Logger:        zap.NewNop(),
		StrictHandles: false,
	}
}
