package framearena

import "unsafe"

// Vec is a growable sequence handed out by a guard's vector bucket. It
// starts empty but keeps the capacity its slot had in earlier frames.
//
// A Vec is bound to the sequence it was created under; any use after the
// guard is reset panics with ErrStaleRef. Slices returned by Slice are
// invalidated by the next call that grows the Vec, as with append.
type Vec[T any] struct {
	raw   *rawVec
	g     *Guard
	seq   uint64
	size  int
	align int
}

// NewVec returns an empty Vec from g.
func NewVec[T any](g *Guard) Vec[T] {
	size, align := layoutOf[T]()
	g.checkOpen()
	units := 0
	if size > 0 {
		units = size / align
	}
	seq := g.Seq()
	raw := g.vecs[alignIndex(align)].getNew(seq, units)
	return Vec[T]{raw: raw, g: g, seq: seq, size: size, align: align}
}

func (v Vec[T]) check() {
	if v.g == nil {
		panicf(ErrStaleRef, "framearena: zero Vec")
	}
	if cur := v.g.Seq(); cur != v.seq {
		panicf(ErrStaleRef, "framearena: vector from sequence %d used at sequence %d", v.seq, cur)
	}
}

// Seq returns the allocation sequence the Vec belongs to.
func (v Vec[T]) Seq() uint64 {
	return v.seq
}

// Len returns the number of elements.
func (v Vec[T]) Len() int {
	v.check()
	return v.raw.n
}

// Cap returns the number of elements the Vec holds without growing.
func (v Vec[T]) Cap() int {
	v.check()
	if v.size == 0 {
		return int(^uint(0) >> 1)
	}
	return len(v.raw.buf) / v.size
}

// Reserve makes room for at least n more elements.
func (v Vec[T]) Reserve(n int) {
	v.check()
	if v.size == 0 || n <= 0 {
		return
	}
	need := v.raw.n + n
	if need*v.size <= len(v.raw.buf) {
		return
	}
	capacity := max(2*len(v.raw.buf)/v.size, need, 4)
	buf := alignedHeap(capacity*v.size, v.align)
	copy(buf, v.raw.buf[:v.raw.n*v.size])
	v.raw.buf = buf
}

// Push appends x.
func (v Vec[T]) Push(x T) {
	v.Reserve(1)
	if v.size > 0 {
		*v.ptr(v.raw.n) = x
	}
	v.raw.n++
}

// Append appends every element of xs.
func (v Vec[T]) Append(xs ...T) {
	v.Reserve(len(xs))
	if v.size > 0 {
		copy(unsafe.Slice(v.ptr(v.raw.n), len(xs)), xs)
	}
	v.raw.n += len(xs)
}

// At returns the element at i.
func (v Vec[T]) At(i int) T {
	v.bounds(i)
	if v.size == 0 {
		var zero T
		return zero
	}
	return *v.ptr(i)
}

// Set replaces the element at i.
func (v Vec[T]) Set(i int, x T) {
	v.bounds(i)
	if v.size > 0 {
		*v.ptr(i) = x
	}
}

// Pop removes and returns the last element.
func (v Vec[T]) Pop() (T, bool) {
	var zero T
	if v.Len() == 0 {
		return zero, false
	}
	x := v.At(v.raw.n - 1)
	v.raw.n--
	return x, true
}

// Truncate shortens the Vec to n elements. It never grows it.
func (v Vec[T]) Truncate(n int) {
	v.check()
	if n >= 0 && n < v.raw.n {
		v.raw.n = n
	}
}

// Slice returns the elements as a slice sharing the Vec's storage.
func (v Vec[T]) Slice() []T {
	v.check()
	switch {
	case v.raw.n == 0:
		return nil
	case v.size == 0:
		return make([]T, v.raw.n)
	}
	return unsafe.Slice(v.ptr(0), v.raw.n)
}

func (v Vec[T]) bounds(i int) {
	v.check()
	if i < 0 || i >= v.raw.n {
		panic(errorsIndex(i, v.raw.n))
	}
}

func (v Vec[T]) ptr(i int) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(v.raw.buf)), i*v.size))
}
