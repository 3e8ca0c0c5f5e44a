package feature

import "fmt"

// Strand is the orientation of a feature relative to the reference.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// strandTokens maps the accepted textual strand tokens. An unstranded "."
// is treated as forward.
var strandTokens = map[string]Strand{
	"+":  Forward,
	"1":  Forward,
	".":  Forward,
	"-":  Reverse,
	"-1": Reverse,
}

// ParseStrand normalizes a strand token.
func ParseStrand(token string) (Strand, error) {
	s, ok := strandTokens[token]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrStrand, token)
	}
	return s, nil
}

// IsForward returns true for the forward strand.
func (s Strand) IsForward() bool { return s == Forward }

// IsReverse returns true for the reverse strand.
func (s Strand) IsReverse() bool { return s == Reverse }

// String returns "+" or "-".
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}
