package sequence

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/biogo/hts/fai"

	"github.com/inodb/featgraph/internal/feature"
)

// Indexed reads ranges from a FASTA file on demand through a samtools
// faidx index. Reads are serialized since they share one file handle.
type Indexed struct {
	mu   sync.Mutex
	file *os.File
	idx  fai.Index
	fa   *fai.File
}

// OpenIndexed opens a FASTA file for random access. The index is read from
// path+".fai" when present, otherwise it is built by scanning the file.
func OpenIndexed(path string) (*Indexed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}

	idx, err := loadIndex(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Indexed{file: f, idx: idx, fa: fai.NewFile(f, idx)}, nil
}

func loadIndex(path string, f *os.File) (fai.Index, error) {
	idxFile, err := os.Open(path + ".fai")
	switch {
	case err == nil:
		defer idxFile.Close()
		idx, err := fai.ReadFrom(idxFile)
		if err != nil {
			return nil, fmt.Errorf("read FASTA index: %w", err)
		}
		return idx, nil
	case errors.Is(err, os.ErrNotExist):
		idx, err := fai.NewIndex(f)
		if err != nil {
			return nil, fmt.Errorf("index FASTA file: %w", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek FASTA file: %w", err)
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("open FASTA index: %w", err)
	}
}

// Sequence returns bases start..end of seqID, reverse complemented on the
// reverse strand.
func (x *Indexed) Sequence(seqID string, start, end int64, strand feature.Strand) (string, error) {
	rec, ok := x.idx[seqID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSequence, seqID)
	}
	if err := checkRange(seqID, start, end, int64(rec.Length)); err != nil {
		return "", err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	// fai ranges are 0-based half-open.
	r, err := x.fa.SeqRange(seqID, int(start-1), int(end))
	if err != nil {
		return "", fmt.Errorf("seek %s:%d-%d: %w", seqID, start, end, err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s:%d-%d: %w", seqID, start, end, err)
	}
	return orient(string(b), strand), nil
}

// Names returns the indexed record names, sorted.
func (x *Indexed) Names() []string {
	names := make([]string, 0, len(x.idx))
	for name := range x.idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Length returns the length of seqID.
func (x *Indexed) Length(seqID string) (int64, bool) {
	rec, ok := x.idx[seqID]
	if !ok {
		return 0, false
	}
	return int64(rec.Length), true
}

// Close closes the FASTA file.
func (x *Indexed) Close() error {
	return x.file.Close()
}
