package framearena

import "unsafe"

// rawVec is a type-erased growable sequence. buf is element storage, its
// length is the capacity in bytes; n counts elements.
type rawVec struct {
	buf []byte
	n   int
}

// vecPool hands out rawVec slots for one (alignment, element size) pair.
// Slots keep their storage across sequences, so sequences of the same
// shape stop reallocating after a few frames.
type vecPool struct {
	seq    uint64 // sequence the pool last handed slots out for
	chunks [][]rawVec
	used   int // slots handed out from the current chunk
	total  int // slots handed out from earlier chunks
}

func (p *vecPool) getNew(seq uint64, initial int) *rawVec {
	if p.seq < seq {
		p.reset()
		p.seq = seq
	}
	if len(p.chunks) == 0 || p.used == len(p.chunks[len(p.chunks)-1]) {
		p.grow(initial)
	}
	v := &p.chunks[len(p.chunks)-1][p.used]
	p.used++
	v.n = 0
	return v
}

func (p *vecPool) grow(initial int) {
	n := initial
	if k := len(p.chunks); k > 0 {
		n = 2 * len(p.chunks[k-1])
		p.total += p.used
	}
	p.chunks = append(p.chunks, make([]rawVec, n))
	p.used = 0
}

// reset merges every slot, with the storage it holds, into a single chunk
// of twice the slot count.
func (p *vecPool) reset() {
	if len(p.chunks) > 1 {
		merged := 0
		for _, c := range p.chunks {
			merged += len(c)
		}
		next := make([]rawVec, 0, 2*merged)
		for _, c := range p.chunks {
			next = append(next, c...)
		}
		p.chunks = append(p.chunks[:0], next[:cap(next)])
	}
	p.used, p.total = 0, 0
}

// vecBucket holds the vector pools of one alignment class, indexed by
// element size in alignment units.
type vecBucket struct {
	align   int
	initial int
	pools   []vecPool
}

func (b *vecBucket) init(align int, o *options) {
	b.align = align
	b.initial = o.vecSlots
}

func (b *vecBucket) getNew(seq uint64, units int) *rawVec {
	if units >= len(b.pools) {
		pools := make([]vecPool, units+1)
		copy(pools, b.pools)
		b.pools = pools
	}
	return b.pools[units].getNew(seq, b.initial)
}

func (b *vecBucket) release() {
	b.pools = nil
}

func (b *vecBucket) stats(seq uint64) VecStats {
	s := VecStats{
		Align:    b.align,
		Overhead: int(unsafe.Sizeof(*b)) + cap(b.pools)*int(unsafe.Sizeof(vecPool{})),
	}
	for i := range b.pools {
		p := &b.pools[i]
		if len(p.chunks) == 0 {
			continue
		}
		s.Pools++
		if p.seq == seq {
			s.InUse += p.total + p.used
		}
		s.Overhead += cap(p.chunks) * int(unsafe.Sizeof([]rawVec{}))
		for _, c := range p.chunks {
			s.Slots += len(c)
			s.Overhead += len(c) * int(unsafe.Sizeof(rawVec{}))
			for j := range c {
				s.Capacity += len(c[j].buf)
			}
		}
	}
	return s
}
