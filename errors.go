package framearena

import "github.com/cockroachdb/errors"

// Contract violations are reported by panicking with one of these, wrapped
// with the offending values. ErrStaleRef is also returned by Ref.Get.
var (
	ErrUnsupportedAlignment = errors.New("unsupported alignment")
	ErrNotPlain             = errors.New("type is not plain data")
	ErrSinkOpen             = errors.New("guard is exclusively borrowed")
	ErrSinkClosed           = errors.New("sink already finalized")
	ErrSequenceRegressed    = errors.New("allocation sequence did not advance")
	ErrShrinkUnderflow      = errors.New("shrink exceeds last allocation")
	ErrStaleRef             = errors.New("stale arena reference")
	ErrReleased             = errors.New("arena released")
	ErrSizeOverflow         = errors.New("allocation size overflows")
)

func panicf(err error, format string, args ...interface{}) {
	panic(errors.Wrapf(err, format, args...))
}

func errorsIndex(i, n int) error {
	return errors.Newf("framearena: index %d out of range [0:%d]", i, n)
}
