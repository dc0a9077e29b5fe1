package rootpool

import "errors"

// Sentinel errors, in the style of _examples/joshuapare-hivekit's hive/alloc
// and hive/edit packages: package-qualified, wrapped with %w where a caller
// benefits from context, compared with errors.Is elsewhere.
var (
	// ErrInvalidHandle is panicked by Handle.Get/Set/RawCell when called on
	// a default-constructed, released, or moved-from Handle. This panic is
	// unconditional, not gated by Options.StrictHandles: a Handle carries
	// only a *Slot, never a reference back to its Allocator (spec.md §9),
	// so it structurally cannot consult Options — there is no debug/release
	// split to apply here, only "always panic with a named error instead of
	// a bare string".
	ErrInvalidHandle = errors.New("rootpool: handle is invalid")

	// ErrSlotNotOwned is returned by Allocator.FreeSlot under
	// Options.StrictHandles when the slot's chunk-derived address is not one
	// of that Allocator's chunks or does not actually contain it — a
	// caller-corruption guard that spec.md §7 assigns to debug builds only,
	// since computing it walks the Allocator's chunk list.
	ErrSlotNotOwned = errors.New("rootpool: slot is not owned by this allocator")

	// ErrFreeListCorrupt is returned by Allocator.FreeSlot, and panicked by
	// Handle.Release, when the slot being freed is already native-tagged —
	// i.e. already sitting on some chunk's free list. This is a double
	// free: pushing the same slot onto the free list twice would splice it
	// into a cycle and eventually hand the same address out to two live
	// Handles at once, violating spec.md invariant 6. Detecting it costs a
	// single tag read, so unlike ErrSlotNotOwned this check is
	// unconditional, independent of Options.StrictHandles.
	ErrFreeListCorrupt = errors.New("rootpool: slot is already on its chunk's free list")
)
