package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/interval"
)

// BEDWriter writes features as BED6 records with 0-based half-open
// coordinates.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a new BED writer.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op; BED output has no header.
func (bw *BEDWriter) WriteHeader() error {
	return nil
}

// Write writes a single feature. The name column is the feature ID, or its
// type when it has none.
func (bw *BEDWriter) Write(f *feature.Feature) error {
	name := f.ID()
	if name == "" {
		name = f.Type
	}
	return bw.write(f.SeqID, f.Interval, name, f.Strand.String())
}

// WriteInterval writes a bare interval, such as a merged region. The
// interval must carry a sequence id.
func (bw *BEDWriter) WriteInterval(iv interval.Interval, name string) error {
	return bw.write(iv.SeqID(), iv, name, ".")
}

func (bw *BEDWriter) write(seqID string, iv interval.Interval, name, strand string) error {
	start, end := iv.BED()
	values := []string{
		seqID,
		strconv.FormatInt(start, 10),
		strconv.FormatInt(end, 10),
		dotIfEmpty(name),
		"0",
		strand,
	}
	_, err := bw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}

func dotIfEmpty(s string) string {
	if s == "" {
		return "."
	}
	return s
}
