//go:build !linux && !darwin

package framearena

import "github.com/cockroachdb/errors"

// MmapSource is unavailable on this platform.
type MmapSource struct{}

// NewMmapSource reports that anonymous mappings are unsupported here.
func NewMmapSource() (*MmapSource, error) {
	return nil, errors.New("framearena: mmap source not supported on this platform")
}

// Alloc implements Source.
func (*MmapSource) Alloc(n int) []byte {
	panic(errors.AssertionFailedf("framearena: mmap source not supported"))
}

// Free implements Source.
func (*MmapSource) Free([]byte) {}
