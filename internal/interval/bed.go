package interval

import "fmt"

// BED returns the 0-based half-open coordinates of iv.
func (iv Interval) BED() (start, end int64) {
	return iv.start - 1, iv.end
}

// FromBED converts 0-based half-open BED coordinates to a closed interval.
func FromBED(seqID string, start, end int64) (Interval, error) {
	if start < 0 || start >= end {
		return Interval{}, fmt.Errorf("%w: BED range [%d,%d)", ErrInvalidInterval, start, end)
	}
	return NewOn(seqID, start+1, end)
}
