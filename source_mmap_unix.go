//go:build linux || darwin

package framearena

import (
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// MmapSource maps anonymous private memory for every chunk, keeping arena
// content outside the Go heap. Chunks are unmapped on Free, so a reference
// that outlives its retirement faults instead of reading recycled data.
type MmapSource struct {
	pagesize int
}

// NewMmapSource returns a Source backed by anonymous mappings.
func NewMmapSource() (*MmapSource, error) {
	return &MmapSource{pagesize: os.Getpagesize()}, nil
}

// Alloc implements Source. Sizes are rounded up to whole pages.
func (m *MmapSource) Alloc(n int) []byte {
	size := alignUp(n, m.pagesize)
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(errors.Wrapf(err, "framearena: mmap %d bytes", size))
	}
	return b[:n:size]
}

// Free implements Source.
func (m *MmapSource) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	if err := unix.Munmap(b[:cap(b)]); err != nil {
		panic(errors.Wrapf(err, "framearena: munmap %d bytes", cap(b)))
	}
}
