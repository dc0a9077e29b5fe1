// Package gcheap is a toy mark-sweep collector used to exercise the root
// marking contract rootpool.Allocator.MarkRoots promises: it stands in for
// the "GC's mark algorithm, heap layout" rootpool's own spec explicitly
// treats as an external collaborator.
//
// Objects live on ordinary Go-GC-visible storage (Heap.objects), never
// inside rootpool's own mmap'd chunks, since only a *gcheap.Object pointer
// — not the object itself — is ever encoded into a rootpool cell.
package gcheap

import "go.uber.org/zap"

// Object is one heap-allocated, collectible node. Payload is opaque to the
// collector; Refs are the edges Collect's mark phase walks.
type Object struct {
	Marked  bool
	Refs    []*Object
	Payload any
}

// Heap owns every Object it has ever created and decides, on Collect,
// which are still reachable from the given roots.
type Heap struct {
	objects []*Object
	logger  *zap.Logger
}

// New constructs an empty Heap. A nil logger defaults to a no-op logger,
// matching rootpool.Options' own convention.
func New(logger *zap.Logger) *Heap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Heap{logger: logger}
}

// NewObject creates an Object, registers it with the heap, and returns it.
// An Object not reachable from any root at the next Collect is swept.
func (h *Heap) NewObject(payload any, refs ...*Object) *Object {
	o := &Object{Payload: payload, Refs: refs}
	h.objects = append(h.objects, o)
	return o
}

// Stats summarizes one Collect pass.
type Stats struct {
	Scanned int
	Marked  int
	Swept   int
}

// Collect runs a full mark-sweep pass: every root is marked along with
// everything it transitively reaches via Refs, then every unmarked object
// is dropped from the heap. roots is typically populated by an
// rootpool.Allocator.MarkRoots visitor that decodes each live cell into an
// *Object and collects it here.
func (h *Heap) Collect(roots ...*Object) Stats {
	for _, o := range h.objects {
		o.Marked = false
	}

	var mark func(o *Object)
	mark = func(o *Object) {
		if o == nil || o.Marked {
			return
		}
		o.Marked = true
		for _, ref := range o.Refs {
			mark(ref)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	stats := Stats{Scanned: len(h.objects)}
	kept := h.objects[:0]
	for _, o := range h.objects {
		if o.Marked {
			stats.Marked++
			kept = append(kept, o)
		} else {
			stats.Swept++
		}
	}
	h.objects = kept

	h.logger.Debug("gcheap: collection complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("marked", stats.Marked),
		zap.Int("swept", stats.Swept))
	return stats
}

// Len reports how many objects the heap currently retains.
func (h *Heap) Len() int {
	return len(h.objects)
}
