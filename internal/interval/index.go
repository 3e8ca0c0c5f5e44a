package interval

import "sort"

// Index provides O(log n + k) overlap queries using a sorted-slice approach.
// Items are loaded once and never modified after build.
type Index[T any] struct {
	entries []entry[T]
	maxEnd  []int64 // maxEnd[i] = max(end) for entries[:i+1]
}

type entry[T any] struct {
	iv   Interval
	item T
}

// BuildIndex creates an index over items, keyed by the interval returned by
// key. Sequence ids are ignored; build one index per sequence.
func BuildIndex[T any](items []T, key func(T) Interval) *Index[T] {
	if len(items) == 0 {
		return &Index[T]{}
	}

	entries := make([]entry[T], len(items))
	for i, it := range items {
		entries[i] = entry[T]{iv: key(it), item: it}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].iv.start < entries[j].iv.start
	})

	// Prefix-max array: once maxEnd[i] falls below the query start, nothing
	// at or before i can reach it.
	maxEnd := make([]int64, len(entries))
	maxEnd[0] = entries[0].iv.end
	for i := 1; i < len(entries); i++ {
		maxEnd[i] = max(maxEnd[i-1], entries[i].iv.end)
	}

	return &Index[T]{entries: entries, maxEnd: maxEnd}
}

// Len returns the number of indexed items.
func (x *Index[T]) Len() int {
	return len(x.entries)
}

// At returns all items whose interval contains pos.
func (x *Index[T]) At(pos int64) []T {
	return x.query(pos, pos)
}

// Overlapping returns all items whose interval shares a position with iv.
// Results are ordered by start.
func (x *Index[T]) Overlapping(iv Interval) []T {
	return x.query(iv.start, iv.end)
}

func (x *Index[T]) query(start, end int64) []T {
	if len(x.entries) == 0 {
		return nil
	}

	// hi is the first entry with start > end; candidates are [0, hi).
	hi := sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].iv.start > end
	})

	var result []T
	for i := hi - 1; i >= 0; i-- {
		if x.maxEnd[i] < start {
			break
		}
		if x.entries[i].iv.end >= start {
			result = append(result, x.entries[i].item)
		}
	}

	// Scanned right to left; restore start order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}
