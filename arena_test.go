package framearena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArena(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		chunkSize int
	}{
		{"default chunk size", nil, DefaultChunkSize},
		{"negative chunk size", []Option{WithChunkSize(-1)}, DefaultChunkSize},
		{"custom chunk size", []Option{WithChunkSize(8192)}, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(1, tt.opts...)
			if a.Seq() != 1 {
				t.Errorf("Seq() = %d, want 1", a.Seq())
			}
			for i, align := range Alignments {
				b := a.guard.values[i]
				if b.chunkSize != tt.chunkSize {
					t.Errorf("bucket %d chunk size = %d, want %d", align, b.chunkSize, tt.chunkSize)
				}
				if b.align != align {
					t.Errorf("bucket %d align = %d", align, b.align)
				}
			}
			// chunks are allocated lazily
			if a.NumChunks() != 0 {
				t.Errorf("NumChunks() = %d, want 0", a.NumChunks())
			}
		})
	}
}

func TestArenaAllocBytes(t *testing.T) {
	a := NewArena(1, WithChunkSize(1024))
	g := a.Guard()

	b1 := g.AllocBytes(100, 1)
	if len(b1) != 100 {
		t.Errorf("AllocBytes(100) length = %d, want 100", len(b1))
	}

	if b := g.AllocBytes(0, 8); b != nil {
		t.Errorf("AllocBytes(0) = %v, want nil", b)
	}
	if b := g.AllocBytes(-1, 8); b != nil {
		t.Errorf("AllocBytes(-1) = %v, want nil", b)
	}

	b4 := g.AllocBytes(2000, 1)
	if len(b4) != 2000 {
		t.Errorf("AllocBytes(2000) length = %d, want 2000", len(b4))
	}
	if a.NumChunks() != 2 {
		t.Errorf("NumChunks after large allocation = %d, want 2", a.NumChunks())
	}
}

func TestArenaUnsupportedAlignment(t *testing.T) {
	g := NewArena(1).Guard()
	for _, align := range []int{0, 3, 5, 32, -8} {
		t.Run(fmt.Sprint(align), func(t *testing.T) {
			requirePanicIs(t, ErrUnsupportedAlignment, func() { g.AllocBytes(8, align) })
		})
	}
}

func TestArenaResetNoResidue(t *testing.T) {
	a := NewArena(1, WithChunkSize(64))
	g := a.Guard()

	b := g.AllocBytes(32, 8)
	for i := range b {
		b[i] = 0xff
	}
	a.Reset(2)
	assert.Equal(t, 0, a.SizeInUse())

	b2 := g.AllocBytes(32, 8)
	assert.Equal(t, addr(&b[0]), addr(&b2[0]), "address reuse expected")
	assert.Equal(t, make([]byte, 32), b2)
	assert.Equal(t, 32, a.SizeInUse())

	a.Reset(3)
	p := New(g, uint64(0xdeadbeef))
	a.Reset(4)
	q := New(g, uint64(7))
	assert.Equal(t, addr(p), addr(q))
	assert.Equal(t, uint64(7), *q)
}

func TestArenaResetSequence(t *testing.T) {
	a := NewArena(5)
	requirePanicIs(t, ErrSequenceRegressed, func() { a.Reset(5) })
	requirePanicIs(t, ErrSequenceRegressed, func() { a.Reset(4) })
	assert.Equal(t, uint64(5), a.Seq())

	a.Reset(9)
	assert.Equal(t, uint64(9), a.Seq())
	assert.Equal(t, uint64(9), a.Guard().Seq())
}

func TestArenaResetLeavesVectorPools(t *testing.T) {
	a := NewArena(1)
	g := a.Guard()
	v := NewVec[int64](g)
	v.Append(1, 2, 3)

	a.Reset(2)
	pool := &g.vecs[alignIndex(8)].pools[1]
	assert.Equal(t, uint64(1), pool.seq, "pool resets lazily")
	assert.Equal(t, 1, pool.used)

	NewVec[int64](g)
	assert.Equal(t, uint64(2), pool.seq)
	assert.Equal(t, 1, pool.used)
}

func TestArenaRelease(t *testing.T) {
	src := &countingSource{}
	a := NewArena(1, WithSource(src))
	g := a.Guard()
	g.AllocBytes(100, 8)
	g.AllocBytes(100, 1)

	a.Release()
	assert.Equal(t, 2, src.frees)
	assert.Equal(t, 0, a.NumChunks())

	requirePanicIs(t, ErrReleased, func() { g.AllocBytes(100, 8) })
	requirePanicIs(t, ErrReleased, func() { New(g, 1) })
}

func TestArenaSteadyState(t *testing.T) {
	a := NewArena(1, WithChunkSize(256))
	g := a.Guard()
	frame := func() {
		for i := 0; i < 100; i++ {
			New(g, [3]float32{1, 2, 3})
		}
		CopyString(g, "a fairly long label for a sprite")
	}

	frame()
	require.Greater(t, a.NumChunks(), 2)
	for seq := uint64(2); seq < 5; seq++ {
		a.Reset(seq)
		frame()
	}
	// one chunk per bucket in use
	assert.Equal(t, 2, a.NumChunks())
}

func BenchmarkArenaAllocBytes(b *testing.B) {
	a := NewArena(1, WithChunkSize(1024*1024))
	g := a.Guard()
	sizes := []int{8, 64, 256, 1024}
	seq := uint64(1)

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g.AllocBytes(size, 8)
				if i%1000 == 999 {
					seq++
					a.Reset(seq)
				}
			}
		})
	}
}

func BenchmarkArenaVsBuiltin(b *testing.B) {
	b.Run("arena", func(b *testing.B) {
		a := NewArena(1, WithChunkSize(1024*1024))
		g := a.Guard()
		seq := uint64(1)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			g.AllocBytes(64, 8)
			if i%1000 == 999 {
				seq++
				a.Reset(seq)
			}
		}
	})

	b.Run("builtin", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = make([]byte, 64)
		}
	})
}
