package framearena

// DefaultChunkSize is the minimum size of a value bucket chunk (4 KiB).
// Buckets allocate their first chunk lazily.
const DefaultChunkSize = 4 << 10

// DefaultVecSlots is the number of vector slots in a pool's first chunk.
const DefaultVecSlots = 8

type options struct {
	chunkSize int
	vecSlots  int
	src       Source
}

// Option configures an Arena.
type Option func(*options)

// WithChunkSize sets the minimum chunk size of every value bucket.
// Values <= 0 select DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithVecSlots sets the slot count of a vector pool's first chunk.
func WithVecSlots(n int) Option {
	return func(o *options) {
		o.vecSlots = n
	}
}

// WithSource selects where value bucket chunks come from. The default is
// the Go heap.
func WithSource(src Source) Option {
	return func(o *options) {
		o.src = src
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSize <= 0 {
		o.chunkSize = DefaultChunkSize
	}
	if o.vecSlots <= 0 {
		o.vecSlots = DefaultVecSlots
	}
	if o.src == nil {
		o.src = HeapSource{}
	}
	return o
}
