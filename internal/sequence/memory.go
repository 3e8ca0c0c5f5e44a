package sequence

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/inodb/featgraph/internal/feature"
)

// Memory holds every FASTA record in memory, keyed by the first token of
// its header line.
type Memory struct {
	seqs  map[string]*linear.Seq
	names []string
}

// LoadFASTA reads a plain or gzipped (.gz) FASTA file into memory.
func LoadFASTA(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseFASTA(reader)
}

// ParseFASTA parses FASTA records from r. Duplicate record names are an
// error.
func ParseFASTA(r io.Reader) (*Memory, error) {
	m := &Memory{seqs: make(map[string]*linear.Seq)}

	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		seq := sc.Seq().(*linear.Seq)
		if _, ok := m.seqs[seq.ID]; ok {
			return nil, fmt.Errorf("non-unique sequence id in FASTA: %q", seq.ID)
		}
		m.seqs[seq.ID] = seq
		m.names = append(m.names, seq.ID)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return m, nil
}

// Sequence returns bases start..end of seqID, reverse complemented on the
// reverse strand.
func (m *Memory) Sequence(seqID string, start, end int64, strand feature.Strand) (string, error) {
	seq, ok := m.seqs[seqID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSequence, seqID)
	}
	if err := checkRange(seqID, start, end, int64(seq.Len())); err != nil {
		return "", err
	}
	return orient(string(alphabet.LettersToBytes(seq.Seq[start-1:end])), strand), nil
}

// Names returns the record names in file order.
func (m *Memory) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Length returns the length of seqID.
func (m *Memory) Length(seqID string) (int64, bool) {
	seq, ok := m.seqs[seqID]
	if !ok {
		return 0, false
	}
	return int64(seq.Len()), true
}
