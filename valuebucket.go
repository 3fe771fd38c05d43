package framearena

import (
	"unsafe"

	"golang.org/x/exp/slog"

	"github.com/pavanmanishd/framearena/internal/xlog"
)

// chunk is a single block of bucket memory.
type chunk struct {
	raw []byte // as returned by the source
	buf []byte // aligned window into raw
}

// valueBucket is a bump allocator for one alignment class. Only the last
// chunk takes new allocations, earlier chunks are kept until the next reset.
type valueBucket struct {
	align     int
	chunkSize int
	src       Source
	chunks    []chunk
	total     int // bytes used in finished chunks
	used      int // bytes used in the current chunk
	peak      int // largest content seen at a reset
}

func (b *valueBucket) init(align int, o *options) {
	b.align = align
	b.chunkSize = o.chunkSize
	b.src = o.src
}

// capacity of the current chunk.
func (b *valueBucket) capacity() int {
	if len(b.chunks) == 0 {
		return 0
	}
	return len(b.chunks[len(b.chunks)-1].buf)
}

// allocate returns size bytes, rounded up to the bucket alignment. The
// returned bytes are not cleared.
func (b *valueBucket) allocate(size int) []byte {
	size = alignUp(size, b.align)
	if size == 0 {
		return nil
	}
	if b.used+size > b.capacity() {
		b.grow(size)
	}
	c := &b.chunks[len(b.chunks)-1]
	p := c.buf[b.used : b.used+size : b.used+size]
	b.used += size
	return p
}

// extend grows the most recent allocation in place by size bytes. It fails
// when the current chunk has no room left.
func (b *valueBucket) extend(size int) bool {
	size = alignUp(size, b.align)
	if b.used+size > b.capacity() {
		return false
	}
	b.used += size
	return true
}

// shrink releases the unused tail of the most recent allocation.
func (b *valueBucket) shrink(size int) {
	size = alignUp(size, b.align)
	if size > b.used {
		panicf(ErrShrinkUnderflow, "framearena: shrink %d bytes, %d in use", size, b.used)
	}
	b.used -= size
}

func (b *valueBucket) grow(size int) {
	n := max(2*b.capacity(), 2*size, b.chunkSize)
	b.total += b.used
	b.used = 0
	b.chunks = append(b.chunks, b.newChunk(n))
	if xlog.Enabled(slog.LevelDebug) {
		xlog.L().Debug("framearena: value bucket grew",
			"align", b.align, "chunk", n, "chunks", len(b.chunks), "request", size)
	}
}

func (b *valueBucket) newChunk(n int) chunk {
	raw := b.src.Alloc(n + b.align - 1)
	return chunk{raw: raw, buf: alignedWindow(raw, n, b.align)}
}

// reset discards all content. Multiple chunks are merged into one chunk
// sized for twice the content seen since the last reset, so a steady
// workload settles on a single chunk.
func (b *valueBucket) reset() {
	content := b.content()
	if content > b.peak {
		b.peak = content
	}
	if len(b.chunks) > 1 {
		n := max(2*content, b.capacity())
		for _, c := range b.chunks {
			b.src.Free(c.raw)
		}
		b.chunks = append(b.chunks[:0], b.newChunk(n))
		xlog.L().Debug("framearena: value bucket consolidated", "align", b.align, "chunk", n)
	}
	b.total, b.used = 0, 0
}

func (b *valueBucket) release() {
	for _, c := range b.chunks {
		b.src.Free(c.raw)
	}
	b.chunks = nil
	b.total, b.used = 0, 0
}

func (b *valueBucket) content() int {
	return b.total + b.used
}

func (b *valueBucket) stats() BucketStats {
	s := BucketStats{
		Align:    b.align,
		Chunks:   len(b.chunks),
		Content:  b.content(),
		Peak:     max(b.peak, b.content()),
		Overhead: int(unsafe.Sizeof(*b)) + cap(b.chunks)*int(unsafe.Sizeof(chunk{})),
	}
	for _, c := range b.chunks {
		s.Capacity += len(c.buf)
	}
	return s
}
