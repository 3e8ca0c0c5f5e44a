package feature

import (
	"strconv"
	"strings"
)

// Format renders f as a tab-separated line in the given dialect, without a
// trailing newline.
func (f *Feature) Format(d Dialect) string {
	score := "."
	if f.Score != nil {
		score = strconv.FormatFloat(*f.Score, 'g', -1, 64)
	}
	phase := "."
	if f.Phase != NoPhase {
		phase = strconv.Itoa(int(f.Phase))
	}
	attrs := f.Attributes.String()
	if d == GTF {
		attrs = f.Attributes.GTFString()
	}

	return strings.Join([]string{
		f.SeqID,
		orDot(f.Source),
		orDot(f.Type),
		strconv.FormatInt(f.Interval.Start(), 10),
		strconv.FormatInt(f.Interval.End(), 10),
		score,
		f.Strand.String(),
		phase,
		attrs,
	}, "\t")
}

// String renders f as a GFF3 line.
func (f *Feature) String() string {
	return f.Format(GFF3)
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
