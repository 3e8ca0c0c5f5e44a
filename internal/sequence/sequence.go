// Package sequence provides nucleotide sequence providers backed by FASTA
// files.
package sequence

import (
	"errors"
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/inodb/featgraph/internal/feature"
)

var (
	// ErrUnknownSequence is returned for a sequence id absent from the FASTA.
	ErrUnknownSequence = errors.New("unknown sequence")

	// ErrOutOfRange is returned when a range falls outside its sequence.
	ErrOutOfRange = errors.New("range out of bounds")
)

// Provider retrieves sequence for a 1-based closed range.
type Provider = feature.SequenceProvider

// ReverseComplement returns the reverse complement of a DNA sequence,
// including IUPAC ambiguity codes. Case is preserved.
func ReverseComplement(s string) string {
	seq := linear.NewSeq("", alphabet.BytesToLetters([]byte(s)), alphabet.DNAredundant)
	seq.RevComp()
	return string(alphabet.LettersToBytes(seq.Seq))
}

func checkRange(seqID string, start, end, length int64) error {
	if start < 1 || end > length || start > end {
		return fmt.Errorf("%w: %s:%d-%d (length %d)", ErrOutOfRange, seqID, start, end, length)
	}
	return nil
}

func orient(s string, strand feature.Strand) string {
	if strand.IsReverse() {
		return ReverseComplement(s)
	}
	return s
}
