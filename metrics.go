package framearena

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

// BucketStats describes one value bucket.
type BucketStats struct {
	Align    int // Alignment class in bytes
	Chunks   int // Number of chunks held
	Capacity int // Bytes across all chunks
	Content  int // Bytes handed out since the last reset
	Peak     int // Largest content seen across resets
	Overhead int // Bookkeeping bytes
}

// VecStats describes one vector bucket.
type VecStats struct {
	Align    int // Alignment class in bytes
	Pools    int // Element sizes seen so far
	Slots    int // Vector slots across all pools
	InUse    int // Slots handed out under the current sequence
	Capacity int // Element storage retained by all slots, in bytes
	Overhead int // Bookkeeping bytes
}

// Stats is a snapshot of an arena's memory accounting.
type Stats struct {
	Seq         uint64
	Values      [numAligns]BucketStats
	Vectors     [numAligns]VecStats
	Capacity    int     // Bytes held by value chunks and vector storage
	Content     int     // Bytes handed out from value buckets
	Overhead    int     // Bookkeeping bytes
	Utilization float64 // Content over value bucket capacity (0.0-1.0)
}

// Stats returns a snapshot of the arena's memory accounting.
func (a *Arena) Stats() Stats {
	return a.guard.Stats()
}

// SizeInUse returns the bytes handed out from value buckets since the last
// reset, alignment padding included.
func (a *Arena) SizeInUse() int {
	n := 0
	for i := range a.guard.values {
		n += a.guard.values[i].content()
	}
	return n
}

// NumChunks returns the number of value bucket chunks.
func (a *Arena) NumChunks() int {
	n := 0
	for i := range a.guard.values {
		n += len(a.guard.values[i].chunks)
	}
	return n
}

// Capacity returns the bytes held by value bucket chunks.
func (a *Arena) Capacity() int {
	n := 0
	for i := range a.guard.values {
		for _, c := range a.guard.values[i].chunks {
			n += len(c.buf)
		}
	}
	return n
}

// Utilization returns the ratio of SizeInUse to Capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seq=%d capacity=%s content=%s overhead=%s utilization=%.1f%%",
		s.Seq, humanize.IBytes(uint64(s.Capacity)), humanize.IBytes(uint64(s.Content)),
		humanize.IBytes(uint64(s.Overhead)), s.Utilization*100)
	for _, v := range s.Values {
		if v.Chunks == 0 {
			continue
		}
		fmt.Fprintf(&sb, " value%d=%s/%s", v.Align,
			humanize.IBytes(uint64(v.Content)), humanize.IBytes(uint64(v.Capacity)))
	}
	for _, v := range s.Vectors {
		if v.Pools == 0 {
			continue
		}
		fmt.Fprintf(&sb, " vec%d=%d/%d", v.Align, v.InUse, v.Slots)
	}
	return sb.String()
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seq", s.Seq),
		slog.String("capacity", humanize.IBytes(uint64(s.Capacity))),
		slog.String("content", humanize.IBytes(uint64(s.Content))),
		slog.String("overhead", humanize.IBytes(uint64(s.Overhead))),
		slog.Float64("utilization", s.Utilization),
	)
}

// WriteJSON writes the snapshot as a JSON object, buckets keyed by their
// alignment.
func (s Stats) WriteJSON(w *jwriter.Writer) {
	obj := w.Object()
	// A float64 cannot hold every sequence.
	obj.Name("seq").Raw(json.RawMessage(strconv.FormatUint(s.Seq, 10)))
	obj.Name("capacity").Int(s.Capacity)
	obj.Name("content").Int(s.Content)
	obj.Name("overhead").Int(s.Overhead)
	obj.Name("utilization").Float64(s.Utilization)

	values := obj.Name("values").Object()
	for _, v := range s.Values {
		b := values.Name(strconv.Itoa(v.Align)).Object()
		b.Name("chunks").Int(v.Chunks)
		b.Name("capacity").Int(v.Capacity)
		b.Name("content").Int(v.Content)
		b.Name("peak").Int(v.Peak)
		b.Name("overhead").Int(v.Overhead)
		b.End()
	}
	values.End()

	vectors := obj.Name("vectors").Object()
	for _, v := range s.Vectors {
		b := vectors.Name(strconv.Itoa(v.Align)).Object()
		b.Name("pools").Int(v.Pools)
		b.Name("slots").Int(v.Slots)
		b.Name("inuse").Int(v.InUse)
		b.Name("capacity").Int(v.Capacity)
		b.Name("overhead").Int(v.Overhead)
		b.End()
	}
	vectors.End()
	obj.End()
}

// JSON returns the snapshot encoded by WriteJSON.
func (s Stats) JSON() ([]byte, error) {
	w := jwriter.NewWriter()
	s.WriteJSON(&w)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
