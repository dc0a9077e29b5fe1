package gcheap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelvm/rootpool"
	"github.com/kestrelvm/rootpool/cell"
	"github.com/kestrelvm/rootpool/gcheap"
)

// TestCollectSweepsUnreachableObjects exercises the end-to-end root-marking
// contract: rootpool handles are the roots, gcheap.Object.Refs are the
// heap's own internal edges, and a collection pass must keep exactly what's
// reachable from the handles currently alive.
func TestCollectSweepsUnreachableObjects(t *testing.T) {
	heap := gcheap.New(nil)
	alloc := rootpool.NewAllocator(rootpool.DefaultOptions())
	defer alloc.Close()

	reachableLeaf := heap.NewObject("leaf")
	reachableRoot := heap.NewObject("root", reachableLeaf)
	garbage := heap.NewObject("garbage")
	_ = garbage

	h := rootpool.Allocate(alloc, reachableRoot)

	var roots []*gcheap.Object
	alloc.MarkRoots(rootpool.VisitorFunc(func(c *cell.Cell) {
		if c.IsNative() {
			return
		}
		if obj, ok := cell.TryDecode[*gcheap.Object](*c); ok {
			roots = append(roots, obj)
		}
	}))

	require.Len(t, roots, 1)

	stats := heap.Collect(roots...)
	assert.Equal(t, 3, stats.Scanned)
	assert.Equal(t, 2, stats.Marked)
	assert.Equal(t, 1, stats.Swept)
	assert.Equal(t, 2, heap.Len())

	h.Release()
}

// TestCollectWithNoRootsSweepsEverything mirrors the original DynHandle
// unit test's pattern of driving allocation count down to zero and
// checking the tracked total follows.
func TestCollectWithNoRootsSweepsEverything(t *testing.T) {
	heap := gcheap.New(nil)
	heap.NewObject("a")
	heap.NewObject("b")
	heap.NewObject("c")

	require.Equal(t, 3, heap.Len())

	stats := heap.Collect()
	assert.Equal(t, 0, stats.Marked)
	assert.Equal(t, 3, stats.Swept)
	assert.Equal(t, 0, heap.Len())
}

// TestCollectKeepsTransitiveChain verifies a multi-hop reference chain
// survives collection as long as its root is live.
func TestCollectKeepsTransitiveChain(t *testing.T) {
	heap := gcheap.New(nil)
	c := heap.NewObject("c")
	b := heap.NewObject("b", c)
	a := heap.NewObject("a", b)

	stats := heap.Collect(a)
	assert.Equal(t, 3, stats.Marked)
	assert.Equal(t, 0, stats.Swept)
}

// TestManyHandlesWithFewReachableObjects matches the concrete scenario of
// allocating many roots while only a handful actually reference live
// objects, then verifying the collector only keeps those.
func TestManyHandlesWithFewReachableObjects(t *testing.T) {
	heap := gcheap.New(nil)
	alloc := rootpool.NewAllocator(rootpool.DefaultOptions())
	defer alloc.Close()

	const numHandles = 64
	handles := make([]rootpool.Handle[*gcheap.Object], numHandles)
	for i := 0; i < numHandles; i++ {
		var obj *gcheap.Object
		if i%8 == 0 {
			obj = heap.NewObject(i)
		}
		handles[i] = rootpool.Allocate(alloc, obj)
	}

	var roots []*gcheap.Object
	alloc.MarkRoots(rootpool.VisitorFunc(func(c *cell.Cell) {
		if c.IsNative() {
			return
		}
		if obj, ok := cell.TryDecode[*gcheap.Object](*c); ok && obj != nil {
			roots = append(roots, obj)
		}
	}))

	stats := heap.Collect(roots...)
	assert.Equal(t, numHandles/8, stats.Marked)
	assert.Equal(t, 0, stats.Swept)

	for i := range handles {
		handles[i].Release()
	}
	assert.Equal(t, 0, alloc.LiveCount())
}
