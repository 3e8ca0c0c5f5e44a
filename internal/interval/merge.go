package interval

import (
	"cmp"
	"slices"
)

// Merge returns the minimal set of intervals covering the same positions as
// ivs. Overlapping and adjacent intervals on the same sequence are joined.
// The result is sorted by sequence id, then start. The input is not modified.
func Merge(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := slices.Clone(ivs)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if c := cmp.Compare(a.seqID, b.seqID); c != 0 {
			return c
		}
		return a.Compare(b)
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if joined, ok := current.MergeIfOverlapping(next); ok {
			current = joined
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// TotalLen returns the number of distinct positions covered by ivs.
func TotalLen(ivs []Interval) int64 {
	var n int64
	for _, iv := range Merge(ivs) {
		n += iv.Len()
	}
	return n
}
