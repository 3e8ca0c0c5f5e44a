package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/featgraph/internal/duckdb"
	"github.com/inodb/featgraph/internal/interval"
)

var (
	sampleGFF   = filepath.Join("..", "..", "testdata", "sample.gff3")
	sampleFASTA = filepath.Join("..", "..", "testdata", "sample.fa")
)

// execute runs the CLI with a fresh config and an empty home directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestSummary(t *testing.T) {
	out, errOut, err := execute(t, "summary", sampleGFF)
	require.NoError(t, err)

	assert.Regexp(t, `features\s+9\n`, out)
	assert.Regexp(t, `edges\s+6\n`, out)
	assert.Regexp(t, `roots\s+3\n`, out)
	assert.Regexp(t, `seqids\s+chr1,chr2\n`, out)
	assert.Regexp(t, `sources\s+ensembl,havana\n`, out)
	assert.Regexp(t, `type:exon\s+4\n`, out)
	assert.Regexp(t, `type:CDS\s+2\n`, out)
	assert.Regexp(t, `diagnostics\s+1\n`, out)
	assert.Contains(t, errOut, "line 12: unresolved_parent")
}

func TestSummary_Strict(t *testing.T) {
	_, _, err := execute(t, "summary", "--strict", sampleGFF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 graph diagnostics")
}

func TestChildren(t *testing.T) {
	out, _, err := execute(t, "children", sampleGFF, "tx1")
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 5)
	assert.True(t, strings.HasPrefix(rows[0], "#SeqID"))
	var ids []string
	for _, row := range rows[1:] {
		ids = append(ids, strings.Split(row, "\t")[6])
	}
	assert.ElementsMatch(t, []string{"exon1", "cds1", "exon2", "cds1"}, ids)
}

func TestChildren_Parents(t *testing.T) {
	out, _, err := execute(t, "-f", "gff3", "children", "--parents", sampleGFF, "cds1")
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 3, "header plus tx1 once per cds1 row")
	assert.Equal(t, "##gff-version 3", rows[0])
	assert.Contains(t, rows[1], "ID=tx1")
	assert.Contains(t, rows[2], "ID=tx1")
}

func TestChildren_UnknownID(t *testing.T) {
	_, _, err := execute(t, "children", sampleGFF, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no feature with ID "nope"`)
}

func TestOverlap(t *testing.T) {
	out, _, err := execute(t, "-f", "bed", "overlap", sampleGFF, "chr1:1201-1800")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"chr1\t1000\t2000\tgene1\t0\t+",
		"chr1\t1000\t2000\ttx1\t0\t+",
	}, lines(out))

	out, _, err = execute(t, "-f", "bed", "overlap", "--type", "exon", sampleGFF, "chr2:60")
	require.NoError(t, err)
	assert.Equal(t, []string{"chr2\t50\t120\texon\t0\t-"}, lines(out))
}

func TestOverlap_BadRegion(t *testing.T) {
	_, _, err := execute(t, "overlap", sampleGFF, "chr1")
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestFlank(t *testing.T) {
	out, _, err := execute(t, "-f", "bed", "flank", "--size", "100", sampleGFF)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"chr1\t900\t1000\tgene1\t0\t+",
		"chr1\t2000\t2100\tgene1\t0\t+",
		"chr2\t120\t220\tgene2\t0\t-",
		"chr2\t0\t50\tgene2\t0\t-",
	}, lines(out))
}

func TestFlank_Upstream(t *testing.T) {
	out, _, err := execute(t, "-f", "gff3", "flank", "--side", "upstream", "-n", "10", sampleGFF)
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[1], "\tderived\tupstream_region\t991\t1000\t")
	assert.Contains(t, rows[2], "\tderived\tupstream_region\t121\t130\t")
}

func TestFlank_InvalidSide(t *testing.T) {
	_, _, err := execute(t, "flank", "--side", "sideways", sampleGFF)
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestMerge(t *testing.T) {
	out, _, err := execute(t, "merge", sampleGFF)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"chr1\t1000\t1200\texon\t0\t.",
		"chr1\t1800\t2000\texon\t0\t.",
		"chr2\t50\t120\texon\t0\t.",
		"chr2\t299\t320\texon\t0\t.",
	}, lines(out))

	out, _, err = execute(t, "merge", "--type", "mRNA", sampleGFF)
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1\t1000\t2000\tmRNA\t0\t."}, lines(out))
}

func TestSeq(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		args := []string{"seq", "--fasta", sampleFASTA, "--id", "gene2", sampleGFF}
		if indexed {
			args = append(args, "--index")
		}
		out, _, err := execute(t, args...)
		require.NoError(t, err)

		rows := lines(out)
		require.Len(t, rows, 3)
		assert.Equal(t, ">gene2 gene chr2:51-120 -", rows[0])
		assert.Equal(t,
			"TTGAGGCGACCTGCTCCCGTCAAAAGGACATGTTACTCAAAACCACTTTAGCGCCTGAAGCGCAAATCAA",
			rows[1]+rows[2])
		assert.Len(t, rows[1], 60)
	}
}

func TestSeq_NeedsFASTA(t *testing.T) {
	_, _, err := execute(t, "seq", sampleGFF)
	var ue usageError
	assert.ErrorAs(t, err, &ue)
}

func TestDot(t *testing.T) {
	out, _, err := execute(t, "dot", sampleGFF)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph sample {"))
	assert.Equal(t, 6, strings.Count(out, "->"))
}

func TestExport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "features.duckdb")

	out, _, err := execute(t, "export", "--db", db, sampleGFF)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 9 features and 6 edges")

	out, _, err = execute(t, "export", "--db", db, sampleGFF)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	out, _, err = execute(t, "export", "--db", db, "--force", sampleGFF)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 9 features")

	s, err := duckdb.Open(db)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestExport_ReexportAfterOtherFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "features.duckdb")
	other := filepath.Join(dir, "other.gff3")
	require.NoError(t, os.WriteFile(other, []byte("chr9\tsrc\tgene\t1\t10\t.\t+\t.\tID=other\n"), 0o644))

	out, _, err := execute(t, "export", "--db", db, sampleGFF)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 9 features")

	out, _, err = execute(t, "export", "--db", db, other)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 features and 0 edges")

	out, _, err = execute(t, "export", "--db", db, sampleGFF)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 9 features and 6 edges")
	assert.NotContains(t, out, "up to date")

	s, err := duckdb.Open(db)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestConfigSetGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "featgraph.yaml")

	out, _, err := execute(t, "--config", cfg, "config", "set", "flank.size", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Set flank.size = 25")

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "size: 25")
	assert.NotContains(t, string(data), "level", "flag defaults are not written")

	out, _, err = execute(t, "--config", cfg, "config", "get", "flank.size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)

	out, _, err = execute(t, "--config", cfg, "-f", "bed", "flank", "--side", "upstream", sampleGFF)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t975\t1000\tgene1\t0\t+", lines(out)[0])
}

func TestConfigSet_Normalizes(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "featgraph.yaml")

	_, _, err := execute(t, "--config", cfg, "config", "set", "output.format", "BED")
	require.NoError(t, err)
	_, _, err = execute(t, "--config", cfg, "config", "set", "input.format", "gff")
	require.NoError(t, err)
	_, _, err = execute(t, "--config", cfg, "config", "set", "log.level", "DEBUG")
	require.NoError(t, err)
	_, _, err = execute(t, "--config", cfg, "config", "set", "export.db", "rel/features.duckdb")
	require.NoError(t, err)

	out, _, err := execute(t, "--config", cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# Config file: "+cfg)
	assert.Contains(t, out, "output.format: bed")
	assert.Contains(t, out, "input.format: gff3")
	assert.Contains(t, out, "log.level: debug")

	out, _, err = execute(t, "--config", cfg, "config", "get", "export.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(strings.TrimSpace(out)), out)
}

func TestConfigSet_RejectsInvalidValues(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "featgraph.yaml")

	for _, kv := range [][2]string{
		{"input.format", "bam"},
		{"output.format", "xml"},
		{"log.level", "loud"},
		{"flank.size", "0"},
		{"flank.size", "ten"},
		{"fasta", ""},
		{"no.such.key", "1"},
	} {
		_, _, err := execute(t, "--config", cfg, "config", "set", kv[0], kv[1])
		var ue usageError
		assert.ErrorAs(t, err, &ue, "%s=%s", kv[0], kv[1])
	}

	_, err := os.Stat(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing written for rejected values")

	_, _, err = execute(t, "--config", cfg, "config", "get", "fasta")
	assert.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	_, _, err := execute(t, "children", sampleGFF)
	var ue usageError
	assert.ErrorAs(t, err, &ue)

	_, _, err = execute(t, "--log-level", "loud", "summary", sampleGFF)
	assert.ErrorAs(t, err, &ue)

	_, _, err = execute(t, "--format", "bam", "summary", sampleGFF)
	assert.ErrorAs(t, err, &ue)

	_, _, err = execute(t, "summary", "--bogus", sampleGFF)
	assert.ErrorAs(t, err, &ue)
}

func TestRunExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, ExitUsage, run([]string{"children"}))
	assert.Equal(t, ExitError, run([]string{"summary", filepath.Join(t.TempDir(), "missing.gff3")}))
}

func TestParseRegion(t *testing.T) {
	iv, err := parseRegion("chr1:1,000-2,000")
	require.NoError(t, err)
	want, _ := interval.NewOn("chr1", 1000, 2000)
	assert.Equal(t, want, iv)

	iv, err = parseRegion("HLA-A:5")
	require.NoError(t, err)
	assert.Equal(t, "HLA-A:5-5", iv.String())

	for _, bad := range []string{"chr1", ":1-2", "chr1:x-2", "chr1:5-1"} {
		_, err := parseRegion(bad)
		assert.Error(t, err, bad)
	}
}

func TestGraphName(t *testing.T) {
	assert.Equal(t, "genes", graphName("/data/genes.gff3.gz"))
	assert.Equal(t, "genes", graphName("genes.gtf"))
	assert.Equal(t, "features", graphName("-"))
}
