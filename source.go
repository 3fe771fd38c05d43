package framearena

import "unsafe"

// Source supplies raw chunk memory to value buckets. Free is called with
// exactly the slices Alloc returned, once the bucket consolidates or the
// arena is released.
type Source interface {
	Alloc(n int) []byte
	Free(b []byte)
}

// HeapSource allocates chunks on the Go heap. Free is a no-op, the garbage
// collector reclaims chunks once no reference into them remains.
type HeapSource struct{}

// Alloc implements Source.
func (HeapSource) Alloc(n int) []byte {
	return make([]byte, n)
}

// Free implements Source.
func (HeapSource) Free([]byte) {}

// alignedWindow returns an n byte window into raw starting at an address
// that is a multiple of align. raw must hold at least n+align-1 bytes.
func alignedWindow(raw []byte, n, align int) []byte {
	if n == 0 {
		return raw[:0:0]
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((uintptr(align) - addr%uintptr(align)) % uintptr(align))
	return raw[off : off+n : off+n]
}

// alignedHeap allocates n bytes on the heap aligned to align.
func alignedHeap(n, align int) []byte {
	return alignedWindow(make([]byte, n+align-1), n, align)
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
