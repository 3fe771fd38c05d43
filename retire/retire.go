// Package retire decides when a frame arena may be reused.
//
// A Manager, owned by the producer goroutine, hands out arenas tagged with
// increasing allocation sequences. The consumer reports back through its
// Retirer which sequences it no longer reads; the Manager applies those
// reports lazily, on its next GetAlloc or ProcessRetired, and moves the
// dead arenas to a free pool.
//
// The two sides share only two atomics. Reports are published with
// release semantics and read by the producer with acquire semantics, so
// every read the consumer made of a sequence happens before the producer
// recycles its storage.
package retire

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/sys/cpu"

	"github.com/pavanmanishd/framearena"
	"github.com/pavanmanishd/framearena/internal/xlog"
)

// DefaultPollInterval is how long WaitUntilCleanup sleeps between polls.
const DefaultPollInterval = time.Millisecond

// state is shared by a Manager and its Retirer. Each word sits on its own
// cache line, the consumer writes them while the producer polls.
type state struct {
	_     cpu.CacheLinePad
	upTo  atomic.Uint64 // every sequence <= upTo is dead
	_     cpu.CacheLinePad
	early atomic.Uint64 // one dead sequence reported out of order, 0 if none
	_     cpu.CacheLinePad
}

type options struct {
	arenaOpts []framearena.Option
	poll      time.Duration
}

// Option configures a Manager.
type Option func(*options)

// WithArenaOptions sets the options every new arena is created with.
func WithArenaOptions(opts ...framearena.Option) Option {
	return func(o *options) {
		o.arenaOpts = append(o.arenaOpts, opts...)
	}
}

// WithPollInterval sets the sleep between WaitUntilCleanup polls.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.poll = d
	}
}

// Manager owns the arenas. All methods must be called from the producer
// goroutine.
type Manager struct {
	st      *state
	inUse   []*framearena.Arena // ascending by sequence
	free    []*framearena.Arena
	nextSeq uint64
	created int
	opts    options
}

// Retirer is the consumer's side of a Manager. Its methods may be called
// from any goroutine, though the protocol assumes a single consumer.
type Retirer struct {
	st *state
}

// New returns a Manager and the Retirer paired with it.
func New(opts ...Option) (*Manager, *Retirer) {
	o := options{poll: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	st := &state{}
	m := &Manager{st: st, nextSeq: 1, opts: o}
	return m, &Retirer{st: st}
}

// GetAlloc applies pending retirement reports and returns an arena serving
// the next sequence, recycled from the free pool when possible.
func (m *Manager) GetAlloc() *framearena.Arena {
	m.ProcessRetired()

	seq := m.nextSeq
	m.nextSeq++

	var a *framearena.Arena
	if k := len(m.free); k > 0 {
		a = m.free[k-1]
		m.free[k-1] = nil
		m.free = m.free[:k-1]
		a.Reset(seq)
	} else {
		a = framearena.NewArena(seq, m.opts.arenaOpts...)
		m.created++
		if xlog.Enabled(slog.LevelDebug) {
			xlog.L().Debug("retire: new arena", "seq", seq, "arenas", m.created)
		}
	}
	m.inUse = append(m.inUse, a)
	return a
}

// ProcessRetired moves every arena the consumer reported dead from the
// in-use queue to the free pool.
func (m *Manager) ProcessRetired() {
	upTo := m.st.upTo.Load()
	early := m.st.early.Swap(0)

	n := 0
	for n < len(m.inUse) && m.inUse[n].Seq() <= upTo {
		n++
	}
	if n > 0 {
		m.free = append(m.free, m.inUse[:n]...)
		m.inUse = slices.Delete(m.inUse, 0, n)
	}

	if early != 0 {
		i, found := slices.BinarySearchFunc(m.inUse, early, func(a *framearena.Arena, seq uint64) int {
			switch s := a.Seq(); {
			case s < seq:
				return -1
			case s > seq:
				return 1
			}
			return 0
		})
		if found {
			m.free = append(m.free, m.inUse[i])
			m.inUse = slices.Delete(m.inUse, i, i+1)
		}
	}
}

// WaitUntilCleanup blocks until every handed out arena has been retired,
// polling the retirement reports. It is the drain barrier used at
// shutdown, typically after the consumer called Cleanup.
func (m *Manager) WaitUntilCleanup(ctx context.Context) error {
	m.ProcessRetired()
	if len(m.inUse) == 0 {
		return nil
	}
	xlog.L().Info("retire: draining", "inuse", len(m.inUse))
	ticker := time.NewTicker(m.opts.poll)
	defer ticker.Stop()
	for len(m.inUse) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		m.ProcessRetired()
	}
	xlog.L().Info("retire: drained", "arenas", m.created)
	return nil
}

// Close releases the memory of every pooled arena. Arenas still in use are
// left alone; call WaitUntilCleanup first.
func (m *Manager) Close() {
	for _, a := range m.free {
		a.Release()
	}
	m.free = nil
}

// InUse returns the sequences of the arenas not yet retired, ascending.
func (m *Manager) InUse() []uint64 {
	seqs := make([]uint64, len(m.inUse))
	for i, a := range m.inUse {
		seqs[i] = a.Seq()
	}
	return seqs
}

// FreeLen returns the number of arenas waiting in the free pool.
func (m *Manager) FreeLen() int {
	return len(m.free)
}

// Stats summarizes the manager's arenas.
type Stats struct {
	Created   int    // Arenas ever created
	InUse     int    // Arenas not yet retired
	Free      int    // Arenas in the free pool
	NextSeq   uint64 // Sequence the next GetAlloc assigns
	RetiredTo uint64 // High-water mark reported by the consumer
	Capacity  int    // Bytes held by all arenas
}

// Stats returns a snapshot of the manager.
func (m *Manager) Stats() Stats {
	s := Stats{
		Created:   m.created,
		InUse:     len(m.inUse),
		Free:      len(m.free),
		NextSeq:   m.nextSeq,
		RetiredTo: m.st.upTo.Load(),
	}
	for _, a := range m.inUse {
		s.Capacity += a.Stats().Capacity
	}
	for _, a := range m.free {
		s.Capacity += a.Stats().Capacity
	}
	return s
}

// RetireUpTo declares every sequence <= seq dead. The high-water mark only
// moves forward, a lower seq is ignored.
func (r *Retirer) RetireUpTo(seq uint64) {
	for {
		cur := r.st.upTo.Load()
		if seq <= cur || r.st.upTo.CompareAndSwap(cur, seq) {
			return
		}
	}
}

// RetireEarly declares the single sequence seq dead ahead of the ones
// before it, for frames the consumer skipped. Only one report can be
// pending: if the previous one has not been applied yet this one is
// dropped and false is returned.
func (r *Retirer) RetireEarly(seq uint64) bool {
	if seq == 0 {
		return false
	}
	return r.st.early.CompareAndSwap(0, seq)
}

// RetireSingle declares seq dead. When seq directly follows the high-water
// mark the mark advances, otherwise it is reported as an early retirement.
func (r *Retirer) RetireSingle(seq uint64) bool {
	for {
		cur := r.st.upTo.Load()
		switch {
		case seq <= cur:
			return true
		case seq != cur+1:
			return r.RetireEarly(seq)
		case r.st.upTo.CompareAndSwap(cur, seq):
			return true
		}
	}
}

// Cleanup retires every sequence, past and future. Used at shutdown to
// let a producer blocked in WaitUntilCleanup finish.
func (r *Retirer) Cleanup() {
	r.st.upTo.Store(math.MaxUint64)
}

// RetiredUpTo returns the current high-water mark.
func (r *Retirer) RetiredUpTo() uint64 {
	return r.st.upTo.Load()
}
