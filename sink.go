package framearena

import "unsafe"

// Sink appends values of one type contiguously into a guard. While a sink
// is open the guard refuses every other allocation; IntoSlice or Discard
// closes it.
type Sink[T any] struct {
	g      *Guard
	bucket *valueBucket
	size   int
	base   unsafe.Pointer
	n      int
	closed bool
}

// NewSink opens a sink on g.
func NewSink[T any](g *Guard) *Sink[T] {
	size, align := layoutOf[T]()
	g.borrow("sink")
	return &Sink[T]{g: g, bucket: &g.values[alignIndex(align)], size: size}
}

// Push appends v. The elements stay contiguous: when the current chunk
// runs out the elements pushed so far move to a fresh chunk.
func (s *Sink[T]) Push(v T) {
	if s.closed {
		panicf(ErrSinkClosed, "framearena: push after %d elements", s.n)
	}
	if s.size > 0 {
		switch {
		case s.base == nil:
			b := s.bucket.allocate(s.size)
			s.base = unsafe.Pointer(unsafe.SliceData(b))
		case !s.bucket.extend(s.size):
			s.relocate()
		}
		*(*T)(unsafe.Add(s.base, s.n*s.size)) = v
	}
	s.n++
}

// relocate moves the elements to a region with room for twice as many and
// keeps only the occupied part allocated, so extend succeeds afterwards.
func (s *Sink[T]) relocate() {
	want := 2 * (s.n + 1) * s.size
	b := s.bucket.allocate(want)
	copy(b, unsafe.Slice((*byte)(s.base), s.n*s.size))
	s.bucket.shrink(want - (s.n+1)*s.size)
	s.base = unsafe.Pointer(unsafe.SliceData(b))
}

// Len returns the number of elements pushed so far.
func (s *Sink[T]) Len() int {
	return s.n
}

// IntoSlice closes the sink and returns the appended elements.
func (s *Sink[T]) IntoSlice() []T {
	if s.closed {
		panicf(ErrSinkClosed, "framearena: IntoSlice called twice")
	}
	s.close()
	switch {
	case s.n == 0:
		return nil
	case s.size == 0:
		return make([]T, s.n)
	}
	return unsafe.Slice((*T)(s.base), s.n)
}

// Discard closes the sink without producing a slice. Its elements stay
// allocated until the guard is reset.
func (s *Sink[T]) Discard() {
	if !s.closed {
		s.close()
	}
}

func (s *Sink[T]) close() {
	s.closed = true
	s.g.unborrow()
}
