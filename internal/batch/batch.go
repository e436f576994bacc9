package batch

import (
	"fmt"
)

// Range is an inclusive id interval processed as one fetch-transform-commit unit.
type Range struct {
	Start int64
	End   int64
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Partition splits [minID, maxID] into contiguous, non-overlapping ranges of
// size ids each; the last range may be shorter.
func Partition(minID, maxID int64, size int) []Range {
	if size <= 0 || maxID < minID {
		return nil
	}
	step := int64(size)
	out := make([]Range, 0, (maxID-minID)/step+1)
	for start := minID; start <= maxID; start += step {
		end := start + step - 1
		if end > maxID || end < start {
			end = maxID
		}
		out = append(out, Range{Start: start, End: end})
		if end == maxID {
			break
		}
	}
	return out
}

// RangeError is a failure contained to a single range.
type RangeError struct {
	Range Range
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s: %v", e.Range, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}
