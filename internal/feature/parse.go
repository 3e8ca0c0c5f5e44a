package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/featgraph/internal/interval"
)

// Parse error causes.
var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrCoordinate = errors.New("invalid coordinate")
	ErrStrand     = errors.New("invalid strand")
	ErrScore      = errors.New("invalid score")
	ErrPhase      = errors.New("invalid phase")
)

// ParseError reports a malformed annotation record.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Dialect selects the attribute column syntax.
type Dialect int

const (
	GFF3 Dialect = iota
	GTF
)

// ParseDialect converts "gff3", "gff" or "gtf" to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "gff3", "gff", "":
		return GFF3, nil
	case "gtf":
		return GTF, nil
	}
	return 0, fmt.Errorf("unknown annotation format %q", s)
}

func (d Dialect) String() string {
	if d == GTF {
		return "gtf"
	}
	return "gff3"
}

const numFields = 9

// Parse parses one tab-separated annotation line. lineNum is recorded on the
// feature and on any returned *ParseError.
func Parse(line string, lineNum int, d Dialect) (*Feature, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != numFields {
		return nil, &ParseError{
			Line: lineNum,
			Err:  fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), numFields),
		}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: lineNum, Field: "start", Err: fmt.Errorf("%w %q", ErrCoordinate, fields[3])}
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: lineNum, Field: "end", Err: fmt.Errorf("%w %q", ErrCoordinate, fields[4])}
	}
	iv, err := interval.NewOn(fields[0], start, end)
	if err != nil {
		return nil, &ParseError{Line: lineNum, Field: "end", Err: err}
	}

	var attrs *Attributes
	if d == GTF {
		attrs = ParseGTFAttributes(fields[8])
	} else {
		attrs = ParseAttributes(fields[8])
	}

	return build(fields[0], fields[1], fields[2], iv, fields[5], fields[6], fields[7], attrs, lineNum)
}

// FromFields builds a feature from already split values. The interval is
// tagged with seqID.
func FromFields(seqID, source, typ string, iv interval.Interval, score, strand, phase, attrs string, line int) (*Feature, error) {
	return build(seqID, source, typ, iv.WithSeqID(seqID), score, strand, phase, ParseAttributes(attrs), line)
}

func build(seqID, source, typ string, iv interval.Interval, score, strand, phase string, attrs *Attributes, line int) (*Feature, error) {
	f := &Feature{
		SeqID:      seqID,
		Source:     source,
		Type:       typ,
		Interval:   iv,
		Phase:      NoPhase,
		Attributes: attrs,
		Line:       line,
	}

	var err error
	if f.Strand, err = ParseStrand(strand); err != nil {
		return nil, &ParseError{Line: line, Field: "strand", Err: err}
	}

	if score != "." && score != "" {
		v, err := strconv.ParseFloat(score, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Field: "score", Err: fmt.Errorf("%w %q", ErrScore, score)}
		}
		f.Score = &v
	}

	if phase != "." && phase != "" {
		p, err := strconv.Atoi(phase)
		if err != nil || p < 0 || p > 2 {
			return nil, &ParseError{Line: line, Field: "phase", Err: fmt.Errorf("%w %q", ErrPhase, phase)}
		}
		f.Phase = int8(p)
	}

	return f, nil
}
