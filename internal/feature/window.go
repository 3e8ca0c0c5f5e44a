package feature

import (
	"fmt"

	"github.com/inodb/featgraph/internal/interval"
)

// UpstreamWindow returns a new feature covering length bases upstream of f,
// that is to the left on the forward strand and to the right on the reverse
// strand. The result is not bound to any graph.
func (f *Feature) UpstreamWindow(length int64) (*Feature, error) {
	var (
		iv  interval.Interval
		err error
	)
	if f.Strand.IsReverse() {
		iv, err = f.Interval.RightWindow(length)
	} else {
		iv, err = f.Interval.LeftWindow(length)
	}
	if err != nil {
		return nil, fmt.Errorf("upstream window of %s: %w", f.Interval, err)
	}
	return f.derive(TypeUpstreamRegion, iv), nil
}

// DownstreamWindow returns a new feature covering length bases downstream of
// f. The result is not bound to any graph.
func (f *Feature) DownstreamWindow(length int64) (*Feature, error) {
	var (
		iv  interval.Interval
		err error
	)
	if f.Strand.IsReverse() {
		iv, err = f.Interval.LeftWindow(length)
	} else {
		iv, err = f.Interval.RightWindow(length)
	}
	if err != nil {
		return nil, fmt.Errorf("downstream window of %s: %w", f.Interval, err)
	}
	return f.derive(TypeDownstreamRegion, iv), nil
}

func (f *Feature) derive(typ string, iv interval.Interval) *Feature {
	d := &Feature{
		SeqID:      f.SeqID,
		Source:     SourceDerived,
		Type:       typ,
		Interval:   iv,
		Strand:     f.Strand,
		Phase:      f.Phase,
		Attributes: f.Attributes.Clone(),
		Line:       f.Line,
	}
	if f.Score != nil {
		s := *f.Score
		d.Score = &s
	}
	return d
}
