package framearena

import (
	"github.com/pavanmanishd/framearena/internal/xlog"
)

// Arena is one generation of frame storage. It owns a Guard and is meant
// to be recycled forever: Reset discards content but keeps capacity, and
// only Release, at process teardown, gives memory back.
//
// A single goroutine allocates from an Arena at a time. Seq may be read
// from any goroutine.
type Arena struct {
	guard Guard
}

// NewArena creates an Arena serving allocation sequence seq.
func NewArena(seq uint64, opts ...Option) *Arena {
	o := buildOptions(opts)
	a := &Arena{}
	a.guard.init(seq, &o)
	xlog.L().Debug("framearena: arena created", "seq", seq, "chunksize", o.chunkSize)
	return a
}

// Seq returns the arena's current allocation sequence, the one its Guard
// serves.
func (a *Arena) Seq() uint64 {
	return a.guard.Seq()
}

// Guard returns the allocation view for the current sequence. The view,
// and everything allocated through it, is valid until the next Reset.
func (a *Arena) Guard() *Guard {
	return &a.guard
}

// Reset moves the arena to seq, a number greater than the current one.
// References stamped under the old sequence report ErrStaleRef from then
// on. It is the same as a.Guard().Reset(seq).
func (a *Arena) Reset(seq uint64) {
	a.guard.Reset(seq)
}

// Release returns every chunk to its source and makes the arena unusable.
// Any subsequent allocation panics.
func (a *Arena) Release() {
	a.guard.release()
}
