// Package feature provides genomic annotation records parsed from GFF3 or
// GTF lines.
package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/featgraph/internal/interval"
)

// Source and type values assigned to derived flanking features.
const (
	SourceDerived        = "derived"
	TypeUpstreamRegion   = "upstream_region"
	TypeDownstreamRegion = "downstream_region"
)

// NoPhase marks a feature without a CDS phase (".").
const NoPhase int8 = -1

// ErrSequenceUnavailable is returned when a sequence is requested but no
// provider is attached.
var ErrSequenceUnavailable = errors.New("sequence unavailable")

// SequenceProvider retrieves nucleotide sequence for a 1-based closed range.
// Reverse-strand requests return the reverse complement.
type SequenceProvider interface {
	Sequence(seqID string, start, end int64, strand Strand) (string, error)
}

// Owner is the collection a feature belongs to once ingested.
type Owner interface {
	SequenceProvider() SequenceProvider
}

// Feature is a single annotation record.
type Feature struct {
	SeqID      string
	Source     string
	Type       string
	Interval   interval.Interval
	Score      *float64 // nil if unscored
	Strand     Strand
	Phase      int8 // NoPhase, or 0..2
	Attributes *Attributes
	Line       int // 1-based source line

	uid   string
	owner Owner
}

// Bind assigns the feature's unique id and owning collection.
func (f *Feature) Bind(o Owner) {
	f.uid = f.deriveUniqueID()
	f.owner = o
}

// UniqueID returns the derived id, or "" if the feature is not bound.
func (f *Feature) UniqueID() string {
	return f.uid
}

// deriveUniqueID builds an id from the fields that identify a line. The
// line number alone keeps otherwise identical records apart.
func (f *Feature) deriveUniqueID() string {
	return strings.Join([]string{
		strconv.Itoa(f.Line),
		f.SeqID,
		f.Type,
		strconv.FormatInt(f.Interval.Start(), 10),
		strconv.FormatInt(f.Interval.End(), 10),
		f.Strand.String(),
		f.ID(),
	}, "|")
}

// ID returns the ID attribute, or "".
func (f *Feature) ID() string {
	return f.Attributes.Value(KeyID)
}

// ParentID returns the Parent attribute if present.
func (f *Feature) ParentID() (string, bool) {
	return f.Attributes.Get(KeyParent)
}

// SetParentID overwrites the Parent attribute.
func (f *Feature) SetParentID(id string) {
	if f.Attributes == nil {
		f.Attributes = NewAttributes()
	}
	f.Attributes.Set(KeyParent, id)
}

// Len returns the feature length in bases.
func (f *Feature) Len() int64 {
	return f.Interval.Len()
}

// Sequence returns the feature's sequence from its owner's provider.
func (f *Feature) Sequence() (string, error) {
	if f.owner == nil {
		return "", fmt.Errorf("%w: feature at line %d is not attached to a graph", ErrSequenceUnavailable, f.Line)
	}
	p := f.owner.SequenceProvider()
	if p == nil {
		return "", fmt.Errorf("%w: no sequence provider attached", ErrSequenceUnavailable)
	}
	return f.SequenceFrom(p)
}

// SequenceFrom returns the feature's sequence from p.
func (f *Feature) SequenceFrom(p SequenceProvider) (string, error) {
	if p == nil {
		return "", ErrSequenceUnavailable
	}
	seq, err := p.Sequence(f.SeqID, f.Interval.Start(), f.Interval.End(), f.Strand)
	if err != nil {
		return "", fmt.Errorf("get sequence %s: %w", f.Interval, err)
	}
	return seq, nil
}
