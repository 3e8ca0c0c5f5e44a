// Package interval provides 1-based closed genomic coordinate ranges.
package interval

import (
	"errors"
	"fmt"
)

// MinCoord is the smallest valid coordinate.
const MinCoord int64 = 1

var (
	// ErrInvalidInterval is returned when an interval would have start > end
	// or a window of non-positive size is requested.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvariantViolation is returned when growing an interval does not
	// produce a single contiguous range.
	ErrInvariantViolation = errors.New("interval invariant violated")
)

// Interval is a closed range [Start, End] optionally scoped to a sequence id.
// Intervals are values; every transformation returns a new Interval.
type Interval struct {
	seqID string
	start int64
	end   int64
}

// New creates an untagged interval.
func New(start, end int64) (Interval, error) {
	return NewOn("", start, end)
}

// NewOn creates an interval on the named sequence.
func NewOn(seqID string, start, end int64) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("%w: start %d > end %d", ErrInvalidInterval, start, end)
	}
	return Interval{seqID: seqID, start: start, end: end}, nil
}

// Start returns the inclusive lower bound.
func (iv Interval) Start() int64 { return iv.start }

// End returns the inclusive upper bound.
func (iv Interval) End() int64 { return iv.end }

// SeqID returns the sequence id tag, or "" if the interval is untagged.
func (iv Interval) SeqID() string { return iv.seqID }

// WithSeqID returns a copy of iv tagged with seqID.
func (iv Interval) WithSeqID(seqID string) Interval {
	iv.seqID = seqID
	return iv
}

// Len returns the number of positions covered.
func (iv Interval) Len() int64 {
	return iv.end - iv.start + 1
}

// Contains returns true if pos lies within the interval.
func (iv Interval) Contains(pos int64) bool {
	return pos >= iv.start && pos <= iv.end
}

// Covers returns true if o is fully nested within iv.
func (iv Interval) Covers(o Interval) bool {
	return iv.seqID == o.seqID && iv.start <= o.start && o.end <= iv.end
}

// Overlaps returns true if the intervals share at least one position.
// Intervals on different sequences never overlap.
func (iv Interval) Overlaps(o Interval) bool {
	if iv.seqID != o.seqID {
		return false
	}
	return max(iv.start, o.start) <= min(iv.end, o.end)
}

// Abuts returns true if the intervals are adjacent without sharing a
// position, e.g. [1,5] and [6,10].
func (iv Interval) Abuts(o Interval) bool {
	if iv.seqID != o.seqID {
		return false
	}
	return iv.end+1 == o.start || o.end+1 == iv.start
}

// MergeIfOverlapping returns the union of iv and o when they overlap or abut.
// The second result is false when the intervals are disjoint.
func (iv Interval) MergeIfOverlapping(o Interval) (Interval, bool) {
	if !iv.Overlaps(o) && !iv.Abuts(o) {
		return Interval{}, false
	}
	return Interval{
		seqID: iv.seqID,
		start: min(iv.start, o.start),
		end:   max(iv.end, o.end),
	}, true
}

// LeftWindow returns the size positions immediately left of iv, clamped so
// that neither bound drops below MinCoord. A window that clamping would
// invert collapses to [MinCoord, MinCoord].
func (iv Interval) LeftWindow(size int64) (Interval, error) {
	if size < 1 {
		return Interval{}, fmt.Errorf("%w: window size %d", ErrInvalidInterval, size)
	}
	start, ok := add(iv.start, -size)
	if !ok {
		return Interval{}, fmt.Errorf("%w: window size %d left of %d overflows", ErrInvalidInterval, size, iv.start)
	}
	end, ok := add(iv.start, -1)
	if !ok {
		return Interval{}, fmt.Errorf("%w: no positions left of %d", ErrInvalidInterval, iv.start)
	}
	return Interval{seqID: iv.seqID, start: max(start, MinCoord), end: max(end, MinCoord)}, nil
}

// RightWindow returns the size positions immediately right of iv.
// No upper clamp is applied since sequence lengths are unknown here.
func (iv Interval) RightWindow(size int64) (Interval, error) {
	if size < 1 {
		return Interval{}, fmt.Errorf("%w: window size %d", ErrInvalidInterval, size)
	}
	start, ok := add(iv.end, 1)
	if !ok {
		return Interval{}, fmt.Errorf("%w: no positions right of %d", ErrInvalidInterval, iv.end)
	}
	end, ok := add(iv.end, size)
	if !ok {
		return Interval{}, fmt.Errorf("%w: window size %d right of %d overflows", ErrInvalidInterval, size, iv.end)
	}
	return Interval{seqID: iv.seqID, start: start, end: end}, nil
}

// add returns a+b and false if the sum overflows int64.
func add(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Side selects which flank Grow extends.
type Side int

const (
	Left Side = iota
	Right
	Both
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Grow extends iv by amount positions on the given side(s).
func (iv Interval) Grow(amount int64, side Side) (Interval, error) {
	if amount < 0 {
		return Interval{}, fmt.Errorf("%w: grow amount %d", ErrInvalidInterval, amount)
	}
	if amount == 0 {
		return iv, nil
	}

	var windows []Interval
	if side == Left || side == Both {
		w, err := iv.LeftWindow(amount)
		if err != nil {
			return Interval{}, err
		}
		windows = append(windows, w)
	}
	if side == Right || side == Both {
		w, err := iv.RightWindow(amount)
		if err != nil {
			return Interval{}, err
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return Interval{}, fmt.Errorf("%w: unknown side %v", ErrInvalidInterval, side)
	}

	grown := iv
	for _, w := range windows {
		merged, ok := grown.MergeIfOverlapping(w)
		if !ok {
			return Interval{}, fmt.Errorf("%w: %s does not join %s", ErrInvariantViolation, w, grown)
		}
		grown = merged
	}
	return grown, nil
}

// Compare orders intervals by start only: it returns -1, 0 or 1.
// Intervals with equal starts compare equal regardless of their ends, so the
// ordering is a total preorder rather than a strict total order.
func (iv Interval) Compare(o Interval) int {
	switch {
	case iv.start < o.start:
		return -1
	case iv.start > o.start:
		return 1
	}
	return 0
}

// Equal returns true if both intervals cover exactly the same range on the
// same sequence.
func (iv Interval) Equal(o Interval) bool {
	return iv == o
}

// String formats the interval as "seq:start-end" or "start-end".
func (iv Interval) String() string {
	if iv.seqID == "" {
		return fmt.Sprintf("%d-%d", iv.start, iv.end)
	}
	return fmt.Sprintf("%s:%d-%d", iv.seqID, iv.start, iv.end)
}
