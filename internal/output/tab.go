// Package output provides feature output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/featgraph/internal/feature"
)

// TabWriter writes features in tab-delimited format, one row per feature.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#SeqID",
			"Start",
			"End",
			"Strand",
			"Type",
			"Source",
			"ID",
			"Parent",
			"Length",
			"UniqueID",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single feature.
func (tw *TabWriter) Write(f *feature.Feature) error {
	parent, _ := f.ParentID()

	values := []string{
		f.SeqID,
		strconv.FormatInt(f.Interval.Start(), 10),
		strconv.FormatInt(f.Interval.End(), 10),
		f.Strand.String(),
		dash(f.Type),
		dash(f.Source),
		dash(f.ID()),
		dash(parent),
		strconv.FormatInt(f.Len(), 10),
		dash(f.UniqueID()),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
