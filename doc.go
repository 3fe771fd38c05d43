// Package framearena implements per-frame region allocation for a
// producer/consumer simulation loop.
//
// # Overview
//
// A producer goroutine builds one frame of data per tick and hands it to a
// consumer, a renderer for instance, without copying it and without
// creating garbage. Every frame lives in an Arena: a set of bump allocated
// buckets, one per alignment class (1, 2, 4, 8 and 16 bytes), tagged with
// a monotonically increasing allocation sequence. Arenas are reset, never
// freed, and the retire package decides when a sequence is no longer read
// by the consumer so its arena can be reused.
//
// # Basic Usage
//
//	a := framearena.NewArena(1)
//	g := a.Guard()
//
//	p := framearena.New(g, Vec3{1, 2, 3})          // single value
//	xs := framearena.CopySlice(g, []int32{1, 2, 3}) // slice copy
//	name := framearena.CopyString(g, "player")      // string copy
//
//	v := framearena.NewVec[Sprite](g) // growable, capacity reused across frames
//	v.Push(Sprite{ID: 7})
//
//	s := framearena.NewSink[Particle](g) // contiguous append
//	s.Push(Particle{})
//	particles := s.IntoSlice()
//
//	a.Reset(2) // everything above is invalid from here on
//
// # Plain Data Only
//
// Bucket memory is invisible to the garbage collector and recycled without
// running any teardown, so only plain data may be stored: booleans,
// numbers, arrays and structs of those. Any other type panics with
// ErrNotPlain on first use.
//
// # Sequences and References
//
// Pointers returned by New, CopySlice and friends are plain Go pointers.
// Data that crosses to another goroutine should be stamped with Stamp or
// Put; the resulting Ref reports ErrStaleRef once its arena has been reset.
// Vec values check their sequence on every access.
//
// # Memory Layout
//
// A value bucket hands out bytes from its last chunk. When that chunk is
// full a new one of at least twice the size is added; Reset merges all
// chunks into one sized for twice the frame's content, so a steady
// workload settles on a single chunk per bucket. Chunks come from a
// Source: the Go heap by default, anonymous mappings with MmapSource.
//
// # Metrics and Monitoring
//
//	stats := a.Stats()
//	fmt.Println(stats)        // humanized summary
//	js, _ := stats.JSON()     // per bucket detail
package framearena
