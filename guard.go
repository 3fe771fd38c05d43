package framearena

import (
	"sync/atomic"

	"golang.org/x/exp/slog"

	"github.com/pavanmanishd/framearena/internal/xlog"
)

const numAligns = 5

// Alignments lists the supported alignment classes, one value bucket and
// one vector bucket each.
var Alignments = [numAligns]int{1, 2, 4, 8, 16}

func alignIndex(align int) int {
	switch align {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	case 16:
		return 4
	}
	panicf(ErrUnsupportedAlignment, "framearena: alignment %d", align)
	return -1
}

// Guard combines the value and vector buckets of every alignment class for
// one allocation sequence. All methods require exclusive access, a Guard
// is never shared between goroutines while allocating.
//
// Everything allocated through a Guard stays valid until the next Reset.
// The sequence is the one generation tag of the guard and its Arena; it is
// the only field other goroutines may read.
type Guard struct {
	seq      atomic.Uint64
	values   [numAligns]valueBucket
	vecs     [numAligns]vecBucket
	excl     string // holder of an exclusive borrow, empty when none
	released bool
}

func (g *Guard) init(seq uint64, o *options) {
	g.seq.Store(seq)
	for i, align := range Alignments {
		g.values[i].init(align, o)
		g.vecs[i].init(align, o)
	}
}

// Seq returns the allocation sequence the guard currently serves.
func (g *Guard) Seq() uint64 {
	return g.seq.Load()
}

// AllocBytes returns size zeroed bytes aligned to align. Returns nil if
// size <= 0.
func (g *Guard) AllocBytes(size, align int) []byte {
	g.checkOpen()
	idx := alignIndex(align)
	if size <= 0 {
		return nil
	}
	b := g.values[idx].allocate(size)[:size]
	clear(b)
	return b
}

// alloc is AllocBytes without clearing, for callers that overwrite every
// byte they asked for.
func (g *Guard) alloc(size, align int) []byte {
	g.checkOpen()
	return g.values[alignIndex(align)].allocate(size)
}

// Reset advances the guard to seq. Value buckets are emptied right away,
// vector pools reset themselves the next time they are asked for a slot,
// which leaves unrelated pools untouched until revisited.
func (g *Guard) Reset(seq uint64) {
	g.checkOpen()
	cur := g.seq.Load()
	if seq <= cur {
		panicf(ErrSequenceRegressed, "framearena: reset from sequence %d to %d", cur, seq)
	}
	// References stamped under cur must fail before their bytes are reused.
	g.seq.Store(seq)
	for i := range g.values {
		g.values[i].reset()
	}
	if xlog.Enabled(slog.LevelDebug) {
		xlog.L().Debug("framearena: guard reset", "seq", seq)
	}
}

func (g *Guard) checkOpen() {
	if g.released {
		panicf(ErrReleased, "framearena: guard at sequence %d", g.Seq())
	}
	if g.excl != "" {
		panicf(ErrSinkOpen, "framearena: %s in progress", g.excl)
	}
}

// borrow takes the exclusive borrow on behalf of holder.
func (g *Guard) borrow(holder string) {
	g.checkOpen()
	g.excl = holder
}

func (g *Guard) unborrow() {
	g.excl = ""
}

func (g *Guard) release() {
	for i := range g.values {
		g.values[i].release()
		g.vecs[i].release()
	}
	g.released = true
}

// Stats returns a snapshot of the guard's memory accounting.
func (g *Guard) Stats() Stats {
	s := Stats{Seq: g.Seq()}
	valueCap := 0
	for i := range g.values {
		v := g.values[i].stats()
		s.Values[i] = v
		s.Capacity += v.Capacity
		valueCap += v.Capacity
		s.Content += v.Content
		s.Overhead += v.Overhead

		vs := g.vecs[i].stats(s.Seq)
		s.Vectors[i] = vs
		s.Capacity += vs.Capacity
		s.Overhead += vs.Overhead
	}
	if valueCap > 0 {
		s.Utilization = float64(s.Content) / float64(valueCap)
	}
	return s
}
