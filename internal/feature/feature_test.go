package feature

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/featgraph/internal/interval"
)

const geneLine = "chr1\thavana\tgene\t100\t200\t.\t+\t.\tID=gene1;Name=BRCA1"

func TestParse(t *testing.T) {
	f, err := Parse(geneLine, 3, GFF3)
	require.NoError(t, err)

	assert.Equal(t, "chr1", f.SeqID)
	assert.Equal(t, "havana", f.Source)
	assert.Equal(t, "gene", f.Type)
	assert.Equal(t, int64(100), f.Interval.Start())
	assert.Equal(t, int64(200), f.Interval.End())
	assert.Equal(t, "chr1", f.Interval.SeqID())
	assert.Nil(t, f.Score)
	assert.Equal(t, Forward, f.Strand)
	assert.Equal(t, NoPhase, f.Phase)
	assert.Equal(t, "gene1", f.ID())
	assert.Equal(t, "BRCA1", f.Attributes.Value("Name"))
	assert.Equal(t, 3, f.Line)
	assert.Empty(t, f.UniqueID(), "not bound yet")
}

func TestParse_ScoreAndPhase(t *testing.T) {
	f, err := Parse("chr2\tensembl\tCDS\t10\t30\t0.5\t-\t2\tParent=tx1", 1, GFF3)
	require.NoError(t, err)
	require.NotNil(t, f.Score)
	assert.InDelta(t, 0.5, *f.Score, 1e-9)
	assert.Equal(t, Reverse, f.Strand)
	assert.Equal(t, int8(2), f.Phase)

	parent, ok := f.ParentID()
	assert.True(t, ok)
	assert.Equal(t, "tx1", parent)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
		cause error
	}{
		{"too few fields", "chr1\tsrc\tgene\t1\t2", "", ErrFieldCount},
		{"bad start", "chr1\tsrc\tgene\tx\t2\t.\t+\t.\t.", "start", ErrCoordinate},
		{"bad end", "chr1\tsrc\tgene\t1\t2.5\t.\t+\t.\t.", "end", ErrCoordinate},
		{"start after end", "chr1\tsrc\tgene\t20\t10\t.\t+\t.\t.", "end", interval.ErrInvalidInterval},
		{"bad strand", "chr1\tsrc\tgene\t1\t2\t.\t?\t.\t.", "strand", ErrStrand},
		{"bad score", "chr1\tsrc\tgene\t1\t2\thigh\t+\t.\t.", "score", ErrScore},
		{"bad phase", "chr1\tsrc\tCDS\t1\t2\t.\t+\t3\t.", "phase", ErrPhase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line, 7, GFF3)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 7, pe.Line)
			assert.Equal(t, tt.field, pe.Field)
			assert.ErrorIs(t, err, tt.cause)
			assert.Contains(t, err.Error(), "line 7")
		})
	}
}

func TestParseStrand(t *testing.T) {
	for _, tok := range []string{"+", "1", "."} {
		s, err := ParseStrand(tok)
		require.NoError(t, err)
		assert.Equal(t, Forward, s, tok)
	}
	for _, tok := range []string{"-", "-1"} {
		s, err := ParseStrand(tok)
		require.NoError(t, err)
		assert.Equal(t, Reverse, s, tok)
	}
	for _, tok := range []string{"", "?", "0", "minus"} {
		_, err := ParseStrand(tok)
		assert.ErrorIs(t, err, ErrStrand, tok)
	}
}

func TestFromFields(t *testing.T) {
	iv, err := interval.New(5, 50)
	require.NoError(t, err)

	f, err := FromFields("chrX", "src", "exon", iv, ".", "-1", ".", "ID=e1;Parent=tx1;flag", 9)
	require.NoError(t, err)
	assert.Equal(t, "chrX", f.Interval.SeqID())
	assert.True(t, f.Strand.IsReverse())
	assert.Equal(t, []string{"flag"}, f.Attributes.Unnamed())

	_, err = FromFields("chrX", "src", "exon", iv, ".", "*", ".", "", 9)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "strand", pe.Field)
}

func TestBind_UniqueID(t *testing.T) {
	a, err := Parse(geneLine, 1, GFF3)
	require.NoError(t, err)
	b, err := Parse(geneLine, 2, GFF3)
	require.NoError(t, err)
	c, err := Parse(geneLine, 1, GFF3)
	require.NoError(t, err)

	a.Bind(nil)
	b.Bind(nil)
	c.Bind(nil)

	assert.NotEmpty(t, a.UniqueID())
	assert.NotEqual(t, a.UniqueID(), b.UniqueID(), "identical records on different lines")
	assert.Equal(t, a.UniqueID(), c.UniqueID(), "derivation is deterministic")
	assert.True(t, strings.Contains(a.UniqueID(), "gene1"))
}

func TestSetParentID(t *testing.T) {
	f, err := Parse(geneLine, 1, GFF3)
	require.NoError(t, err)

	_, ok := f.ParentID()
	assert.False(t, ok)

	f.SetParentID("locus9")
	p, ok := f.ParentID()
	assert.True(t, ok)
	assert.Equal(t, "locus9", p)

	f.SetParentID("locus10")
	assert.Equal(t, []string{"locus10"}, f.Attributes.Values(KeyParent))
}

func TestFormat_GFF3RoundTrip(t *testing.T) {
	line := "chr2\tensembl\tCDS\t10\t30\t0.5\t-\t2\tID=cds1;Parent=tx1"
	f, err := Parse(line, 1, GFF3)
	require.NoError(t, err)
	assert.Equal(t, line, f.String())
}

func TestFormat_GTF(t *testing.T) {
	line := `chr1	HAVANA	exon	11869	12227	.	+	.	gene_id "ENSG01"; transcript_id "ENST01"; exon_number "1";`
	f, err := Parse(line, 1, GTF)
	require.NoError(t, err)
	assert.Equal(t, "ENST01", f.Attributes.Value("transcript_id"))
	assert.Equal(t, line, f.Format(GTF))
	assert.Equal(t, "gene_id=ENSG01;transcript_id=ENST01;exon_number=1", f.Attributes.String())
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("GTF")
	require.NoError(t, err)
	assert.Equal(t, GTF, d)

	d, err = ParseDialect("gff3")
	require.NoError(t, err)
	assert.Equal(t, GFF3, d)

	_, err = ParseDialect("bed")
	assert.Error(t, err)
}

type stubProvider struct {
	calls []string
}

func (p *stubProvider) Sequence(seqID string, start, end int64, strand Strand) (string, error) {
	p.calls = append(p.calls, seqID)
	if seqID == "missing" {
		return "", errors.New("unknown sequence")
	}
	if strand.IsReverse() {
		return "TTTT", nil
	}
	return "AAAA", nil
}

type stubOwner struct {
	p SequenceProvider
}

func (o stubOwner) SequenceProvider() SequenceProvider { return o.p }

func TestSequence(t *testing.T) {
	f, err := Parse(geneLine, 1, GFF3)
	require.NoError(t, err)

	_, err = f.Sequence()
	assert.ErrorIs(t, err, ErrSequenceUnavailable, "unbound feature")

	f.Bind(stubOwner{})
	_, err = f.Sequence()
	assert.ErrorIs(t, err, ErrSequenceUnavailable, "owner without provider")

	p := &stubProvider{}
	f.Bind(stubOwner{p: p})
	seq, err := f.Sequence()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", seq)
	assert.Len(t, p.calls, 1)

	f.Strand = Reverse
	seq, err = f.SequenceFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "TTTT", seq)

	f.SeqID = "missing"
	_, err = f.SequenceFrom(p)
	assert.Error(t, err)

	_, err = f.SequenceFrom(nil)
	assert.ErrorIs(t, err, ErrSequenceUnavailable)
}

func TestFeatureLiteral_NilAttributes(t *testing.T) {
	iv, err := interval.NewOn("chr1", 5, 9)
	require.NoError(t, err)
	f := &Feature{SeqID: "chr1", Type: "region", Interval: iv, Phase: NoPhase, Line: 3}

	assert.Empty(t, f.ID())
	_, ok := f.ParentID()
	assert.False(t, ok)

	f.Bind(nil)
	assert.Equal(t, "3|chr1|region|5|9|+|", f.UniqueID())
	assert.Equal(t, "chr1\t.\tregion\t5\t9\t.\t+\t.\t.", f.String())

	up, err := f.UpstreamWindow(2)
	require.NoError(t, err)
	assert.Zero(t, up.Attributes.Len())

	f.SetParentID("p1")
	p, ok := f.ParentID()
	assert.True(t, ok)
	assert.Equal(t, "p1", p)
}
