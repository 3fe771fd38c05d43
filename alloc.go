package framearena

import (
	"iter"
	"math"
	"reflect"
	"unsafe"
)

// layoutOf returns size and alignment of T and panics unless T is plain.
func layoutOf[T any]() (size, align int) {
	var zero T
	mustBePlain(reflect.TypeFor[T]())
	return int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))
}

// New stores v in the guard and returns a pointer to the copy. The pointer
// is valid until the guard is reset.
func New[T any](g *Guard, v T) *T {
	size, align := layoutOf[T]()
	if size == 0 {
		g.checkOpen()
		return new(T)
	}
	b := g.alloc(size, align)
	p := (*T)(unsafe.Pointer(unsafe.SliceData(b)))
	*p = v
	return p
}

// makeSlice reserves n elements of T without initializing them.
func makeSlice[T any](g *Guard, n int) []T {
	size, align := layoutOf[T]()
	if n <= 0 {
		g.checkOpen()
		return nil
	}
	if size == 0 {
		g.checkOpen()
		return make([]T, n)
	}
	if n > math.MaxInt/size {
		panicf(ErrSizeOverflow, "framearena: %d elements of %d bytes", n, size)
	}
	b := g.alloc(n*size, align)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// CopySlice copies items into the guard. Returns nil for an empty input.
func CopySlice[T any](g *Guard, items []T) []T {
	s := makeSlice[T](g, len(items))
	copy(s, items)
	return s
}

// CopyString copies s into the guard's byte bucket.
func CopyString(g *Guard, s string) string {
	g.checkOpen()
	if len(s) == 0 {
		return ""
	}
	b := g.alloc(len(s), 1)
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(s))
}

// Collect reserves room for n elements and fills it from seq. A sequence
// that yields fewer than n elements gives the unused tail back to the
// bucket, one that yields more is cut off after n elements. n is a
// capacity hint, neither case is an error.
//
// seq must not allocate from g.
func Collect[T any](g *Guard, n int, seq iter.Seq[T]) []T {
	s := makeSlice[T](g, n)
	if n <= 0 {
		return s
	}
	g.borrow("collect")
	i := 0
	func() {
		defer g.unborrow()
		for v := range seq {
			if i == n {
				break
			}
			s[i] = v
			i++
		}
	}()
	if size, align := layoutOf[T](); size > 0 && i < n {
		reserved := alignUp(n*size, align)
		kept := alignUp(i*size, align)
		g.values[alignIndex(align)].shrink(reserved - kept)
	}
	if i == 0 {
		return nil
	}
	return s[:i:i]
}
