package framearena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// countingSource is a heap source that counts its calls and can hand out
// deliberately misaligned buffers.
type countingSource struct {
	skew   int
	allocs int
	frees  int
}

func (s *countingSource) Alloc(n int) []byte {
	s.allocs++
	raw := make([]byte, n+s.skew)
	return raw[s.skew:]
}

func (s *countingSource) Free([]byte) {
	s.frees++
}

func newBucket(align, chunkSize int, src Source) *valueBucket {
	o := buildOptions([]Option{WithChunkSize(chunkSize), WithSource(src)})
	b := &valueBucket{}
	b.init(align, &o)
	return b
}

func addr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}

func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}
