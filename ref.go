package framearena

import "github.com/cockroachdb/errors"

// Ref is a pointer into an arena stamped with the sequence it was
// allocated under. It is the form in which arena data crosses to another
// goroutine: Get refuses to dereference once the arena moved on.
type Ref[T any] struct {
	a   *Arena
	seq uint64
	p   *T
}

// Stamp binds p, allocated from a's current sequence, to that sequence.
func Stamp[T any](a *Arena, p *T) Ref[T] {
	return Ref[T]{a: a, seq: a.Seq(), p: p}
}

// Put stores v in a and returns a stamped reference to it.
func Put[T any](a *Arena, v T) Ref[T] {
	return Stamp(a, New(a.Guard(), v))
}

// Seq returns the sequence the reference was stamped with.
func (r Ref[T]) Seq() uint64 {
	return r.seq
}

// Valid reports whether the arena still serves the stamped sequence.
func (r Ref[T]) Valid() bool {
	return r.a != nil && r.a.Seq() == r.seq
}

// Get returns the pointer, or ErrStaleRef when the arena was reset since
// the reference was stamped.
func (r Ref[T]) Get() (*T, error) {
	if !r.Valid() {
		return nil, r.stale()
	}
	return r.p, nil
}

// MustGet is like Get but panics on a stale reference.
func (r Ref[T]) MustGet() *T {
	p, err := r.Get()
	if err != nil {
		panic(err)
	}
	return p
}

func (r Ref[T]) stale() error {
	if r.a == nil {
		return errors.Wrap(ErrStaleRef, "framearena: zero reference")
	}
	return errors.Wrapf(ErrStaleRef, "framearena: stamped %d, arena at %d", r.seq, r.a.Seq())
}

// SliceRef is the slice counterpart of Ref.
type SliceRef[T any] struct {
	a   *Arena
	seq uint64
	s   []T
}

// StampSlice binds s, allocated from a's current sequence, to that sequence.
func StampSlice[T any](a *Arena, s []T) SliceRef[T] {
	return SliceRef[T]{a: a, seq: a.Seq(), s: s}
}

// Seq returns the sequence the reference was stamped with.
func (r SliceRef[T]) Seq() uint64 {
	return r.seq
}

// Valid reports whether the arena still serves the stamped sequence.
func (r SliceRef[T]) Valid() bool {
	return r.a != nil && r.a.Seq() == r.seq
}

// Get returns the slice, or ErrStaleRef when the arena was reset since the
// reference was stamped.
func (r SliceRef[T]) Get() ([]T, error) {
	if !r.Valid() {
		if r.a == nil {
			return nil, errors.Wrap(ErrStaleRef, "framearena: zero reference")
		}
		return nil, errors.Wrapf(ErrStaleRef, "framearena: stamped %d, arena at %d", r.seq, r.a.Seq())
	}
	return r.s, nil
}
