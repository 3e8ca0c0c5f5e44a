package output

import (
	"bufio"
	"io"

	"github.com/inodb/featgraph/internal/feature"
)

// AnnotationWriter writes features back out as GFF3 or GTF lines.
type AnnotationWriter struct {
	w       *bufio.Writer
	dialect feature.Dialect
}

// NewGFF3Writer creates a writer for GFF3 output.
func NewGFF3Writer(w io.Writer) *AnnotationWriter {
	return &AnnotationWriter{w: bufio.NewWriter(w), dialect: feature.GFF3}
}

// NewGTFWriter creates a writer for GTF output.
func NewGTFWriter(w io.Writer) *AnnotationWriter {
	return &AnnotationWriter{w: bufio.NewWriter(w), dialect: feature.GTF}
}

// WriteHeader writes the version directive for GFF3. GTF has no header.
func (aw *AnnotationWriter) WriteHeader() error {
	if aw.dialect != feature.GFF3 {
		return nil
	}
	_, err := aw.w.WriteString("##gff-version 3\n")
	return err
}

// Write writes a single feature.
func (aw *AnnotationWriter) Write(f *feature.Feature) error {
	_, err := aw.w.WriteString(f.Format(aw.dialect) + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (aw *AnnotationWriter) Flush() error {
	return aw.w.Flush()
}
