package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/inodb/featgraph/internal/feature"
)

// FeatureWriter writes features in some output format.
type FeatureWriter interface {
	WriteHeader() error
	Write(f *feature.Feature) error
	Flush() error
}

// Formats lists the names accepted by NewWriter.
var Formats = []string{"tab", "gff3", "gtf", "bed"}

// NewWriter returns the writer for the named format.
func NewWriter(format string, w io.Writer) (FeatureWriter, error) {
	switch strings.ToLower(format) {
	case "tab", "":
		return NewTabWriter(w), nil
	case "gff3", "gff":
		return NewGFF3Writer(w), nil
	case "gtf":
		return NewGTFWriter(w), nil
	case "bed":
		return NewBEDWriter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// WriteAll writes the header, every feature, and flushes.
func WriteAll(fw FeatureWriter, features []*feature.Feature) error {
	if err := fw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, f := range features {
		if err := fw.Write(f); err != nil {
			return fmt.Errorf("write feature at line %d: %w", f.Line, err)
		}
	}
	if err := fw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
