package sequence

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/featgraph/internal/feature"
)

var (
	_ Provider = (*Memory)(nil)
	_ Provider = (*Indexed)(nil)
)

// chr1 = ACGTACGTACGGGGCCCCAATT (22 bases, wrapped at 10)
const smallFASTA = ">chr1 first record\nACGTACGTAC\nGGGGCCCCAA\nTT\n>chr2\nNNNNacgt\n"

func writeFASTA(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"A", "T"},
		{"ACGT", "ACGT"},
		{"AACCGT", "ACGGTT"},
		{"ACGTN", "NACGT"},
		{"RYKM", "KMRY"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReverseComplement(tt.in), tt.in)
	}
}

// providerCases runs the same range queries against any provider.
func providerCases(t *testing.T, p Provider) {
	t.Helper()

	tests := []struct {
		name       string
		seqID      string
		start, end int64
		strand     feature.Strand
		want       string
	}{
		{"first bases", "chr1", 1, 4, feature.Forward, "ACGT"},
		{"across line break", "chr1", 9, 14, feature.Forward, "ACGGGG"},
		{"reverse strand", "chr1", 9, 14, feature.Reverse, "CCCCGT"},
		{"last bases", "chr1", 19, 22, feature.Forward, "AATT"},
		{"whole record", "chr1", 1, 22, feature.Forward, "ACGTACGTACGGGGCCCCAATT"},
		{"soft masked", "chr2", 5, 8, feature.Forward, "acgt"},
		{"single base", "chr2", 1, 1, feature.Forward, "N"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Sequence(tt.seqID, tt.start, tt.end, tt.strand)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := p.Sequence("chrZ", 1, 2, feature.Forward)
	assert.ErrorIs(t, err, ErrUnknownSequence)

	_, err = p.Sequence("chr1", 20, 23, feature.Forward)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = p.Sequence("chr1", 0, 3, feature.Forward)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemory(t *testing.T) {
	m, err := ParseFASTA(strings.NewReader(smallFASTA))
	require.NoError(t, err)

	assert.Equal(t, []string{"chr1", "chr2"}, m.Names())
	n, ok := m.Length("chr1")
	assert.True(t, ok)
	assert.Equal(t, int64(22), n)
	_, ok = m.Length("chr9")
	assert.False(t, ok)

	providerCases(t, m)
}

func TestMemory_DuplicateName(t *testing.T) {
	_, err := ParseFASTA(strings.NewReader(">a\nAC\n>a dup\nGT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestLoadFASTA_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(smallFASTA))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	m, err := LoadFASTA(path)
	require.NoError(t, err)
	providerCases(t, m)
}

func TestLoadFASTA_Missing(t *testing.T) {
	_, err := LoadFASTA(filepath.Join(t.TempDir(), "none.fa"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIndexed_BuildsIndex(t *testing.T) {
	x, err := OpenIndexed(writeFASTA(t, smallFASTA))
	require.NoError(t, err)
	defer x.Close()

	assert.Equal(t, []string{"chr1", "chr2"}, x.Names())
	n, ok := x.Length("chr2")
	assert.True(t, ok)
	assert.Equal(t, int64(8), n)

	providerCases(t, x)
}

func TestIndexed_ReadsFaiFile(t *testing.T) {
	path := writeFASTA(t, smallFASTA)
	// name, length, offset, bases per line, bytes per line
	fai := "chr1\t22\t19\t10\t11\nchr2\t8\t50\t8\t9\n"
	require.NoError(t, os.WriteFile(path+".fai", []byte(fai), 0o644))

	x, err := OpenIndexed(path)
	require.NoError(t, err)
	defer x.Close()

	providerCases(t, x)
}

func TestSampleFASTA(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "sample.fa")

	m, err := LoadFASTA(path)
	require.NoError(t, err)
	x, err := OpenIndexed(path)
	require.NoError(t, err)
	defer x.Close()

	for _, name := range []string{"chr1", "chr2"} {
		n, ok := m.Length(name)
		require.True(t, ok)
		fromMemory, err := m.Sequence(name, 1, n, feature.Reverse)
		require.NoError(t, err)
		fromIndex, err := x.Sequence(name, 1, n, feature.Reverse)
		require.NoError(t, err)
		assert.Equal(t, fromMemory, fromIndex, name)
	}
}
