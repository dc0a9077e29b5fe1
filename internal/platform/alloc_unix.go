//go:build unix

package platform

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func detectPageSize() int {
	return unix.Getpagesize()
}

// mmapAnon backs a chunk with an anonymous private mapping, exactly as the
// teacher's newSlab does for a slab: syscall.Mmap(-1, 0, ...) with
// MAP_ANON|MAP_PRIVATE. The kernel guarantees the result is page-aligned,
// which is the entire alignment guarantee AllocAligned's caller depends on.
func mmapAnon(size int) ([]byte, error) {
	return syscall.Mmap(-1, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_ANON|syscall.MAP_PRIVATE)
}

// munmapAnon mirrors the teacher's slabPool.deleteSlab unmap call.
func munmapAnon(region []byte) error {
	return syscall.Munmap(region)
}
