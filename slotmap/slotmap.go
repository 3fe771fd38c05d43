// Package slotmap implements a generational slot map: stable handles to
// long-lived objects that detect use after free.
//
// Freeing is two-phase. DeferFree marks a slot, ReapDeferred, run at a
// quiescent point such as the end of a frame, bumps the slot's generation
// and makes the index reusable. Handles held by other subsystems therefore
// stay valid for the rest of the tick in which they were freed.
//
// A Map is not safe for concurrent use.
package slotmap

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/pavanmanishd/framearena/internal/xlog"
)

// ErrStaleID is the panic value of MustDeferFree on a stale handle.
var ErrStaleID = errors.New("stale slot map id")

// ID is a handle into a Map: slot index in the low 32 bits, generation in
// the high 32 bits. A slot whose generation reaches MaxGeneration is retired
// instead of reused, so generations never wrap and an old ID never matches
// a later occupant.
type ID uint64

// MaxGeneration is the last generation a slot is issued under.
const MaxGeneration = ^uint32(0)

// Nil is never returned by Alloc.
const Nil = ID(^uint64(0))

func makeID(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

// Index returns the slot index.
func (id ID) Index() uint32 {
	return uint32(id)
}

// Generation returns the generation the handle was issued for.
func (id ID) Generation() uint32 {
	return uint32(id >> 32)
}

func (id ID) String() string {
	if id == Nil {
		return "nil"
	}
	return fmt.Sprintf("%d@%d", id.Index(), id.Generation())
}

type entry[T any] struct {
	value   T
	gen     uint32
	live    bool
	pending bool // deferred, waiting for the next reap
}

// Map stores values of T behind generational IDs.
type Map[T any] struct {
	entries  []entry[T]
	free     []uint32
	deferred []uint32
	n        int
}

// New returns an empty Map with room for capacity entries.
func New[T any](capacity int) *Map[T] {
	return &Map[T]{entries: make([]entry[T], 0, capacity)}
}

// Alloc stores v and returns its handle. Freed indices are reused first.
func (m *Map[T]) Alloc(v T) ID {
	m.n++
	if k := len(m.free); k > 0 {
		index := m.free[k-1]
		m.free = m.free[:k-1]
		e := &m.entries[index]
		e.value, e.live = v, true
		return makeID(index, e.gen)
	}
	index := uint32(len(m.entries))
	if uint64(index) != uint64(len(m.entries)) || index == ^uint32(0) {
		panic(errors.AssertionFailedf("slotmap: more than %d entries", ^uint32(0)))
	}
	m.entries = append(m.entries, entry[T]{value: v, live: true})
	return makeID(index, 0)
}

func (m *Map[T]) lookup(id ID) *entry[T] {
	index := id.Index()
	if int(index) >= len(m.entries) {
		return nil
	}
	e := &m.entries[index]
	if !e.live || e.gen != id.Generation() {
		return nil
	}
	return e
}

// Get returns the value for id, false when id is stale or unknown.
func (m *Map[T]) Get(id ID) (T, bool) {
	if e := m.lookup(id); e != nil {
		return e.value, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the value for id, false when id is stale or
// unknown. The pointer is valid until the entry is reaped or the map grows.
func (m *Map[T]) GetMut(id ID) (*T, bool) {
	if e := m.lookup(id); e != nil {
		return &e.value, true
	}
	return nil, false
}

// Contains reports whether id refers to a live entry.
func (m *Map[T]) Contains(id ID) bool {
	return m.lookup(id) != nil
}

// DeferFree marks id for release at the next ReapDeferred. It returns
// false, and logs a warning, when id is stale or already marked, which
// points at a double free.
func (m *Map[T]) DeferFree(id ID) bool {
	e := m.lookup(id)
	if e == nil || e.pending {
		xlog.L().Warn("slotmap: free of stale id", "id", id.String())
		return false
	}
	e.pending = true
	m.deferred = append(m.deferred, id.Index())
	return true
}

// MustDeferFree is DeferFree for call paths where a stale handle is a bug.
func (m *Map[T]) MustDeferFree(id ID) {
	if !m.DeferFree(id) {
		panic(errors.Wrapf(ErrStaleID, "slotmap: free %v", id))
	}
}

// ReapDeferred releases every entry marked by DeferFree: its generation is
// bumped, invalidating outstanding handles, its value is zeroed and its
// index goes on the free list. A slot already at MaxGeneration is retired
// for good. Returns the number of entries released.
func (m *Map[T]) ReapDeferred() int {
	var zero T
	for _, index := range m.deferred {
		e := &m.entries[index]
		e.value = zero
		e.live, e.pending = false, false
		if e.gen == MaxGeneration {
			xlog.L().Debug("slotmap: slot retired", "index", index)
			continue
		}
		e.gen++
		m.free = append(m.free, index)
	}
	n := len(m.deferred)
	m.n -= n
	m.deferred = m.deferred[:0]
	return n
}

// Len returns the number of live entries, pending ones included.
func (m *Map[T]) Len() int {
	return m.n
}

// Cap returns the number of slots, live or free.
func (m *Map[T]) Cap() int {
	return len(m.entries)
}

// Pending returns the number of entries awaiting ReapDeferred.
func (m *Map[T]) Pending() int {
	return len(m.deferred)
}

// Each calls fn for every live entry in index order until fn returns false.
func (m *Map[T]) Each(fn func(ID, *T) bool) {
	for i := range m.entries {
		e := &m.entries[i]
		if !e.live {
			continue
		}
		if !fn(makeID(uint32(i), e.gen), &e.value) {
			return
		}
	}
}
