package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/gff"
	"github.com/inodb/featgraph/internal/graph"
	"github.com/inodb/featgraph/internal/interval"
	"github.com/inodb/featgraph/internal/output"
	"github.com/inodb/featgraph/internal/sequence"
)

// loadGraph parses the annotation at path ("-" for stdin) into a sealed graph.
func loadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	dialect, err := feature.ParseDialect(viper.GetString("input.format"))
	if err != nil {
		return nil, usageError{err}
	}

	r, err := gff.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b := graph.NewBuilder()
	b.SetLogger(logger)
	b.SetDialect(dialect)

	logger.Debug("loading annotation", zap.String("path", path), zap.Stringer("dialect", dialect))
	g, err := b.Build(gff.WithContext(ctx, r))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// attachSequences opens the FASTA at path and attaches it to g. Files with a
// .fai index, or any uncompressed file when indexed is set, are read through
// the index; everything else is loaded into memory.
func attachSequences(g *graph.Graph, path string, indexed bool) (func() error, error) {
	if path == "" {
		return nil, usageError{fmt.Errorf("a FASTA file is required (--fasta or config key fasta)")}
	}

	_, err := os.Stat(path + ".fai")
	if (err == nil || indexed) && !strings.HasSuffix(path, ".gz") {
		x, err := sequence.OpenIndexed(path)
		if err != nil {
			return nil, err
		}
		g.AttachSequenceProvider(x)
		logger.Debug("attached indexed FASTA", zap.String("path", path), zap.Int("sequences", len(x.Names())))
		return x.Close, nil
	}

	m, err := sequence.LoadFASTA(path)
	if err != nil {
		return nil, err
	}
	g.AttachSequenceProvider(m)
	logger.Debug("loaded FASTA", zap.String("path", path), zap.Int("sequences", len(m.Names())))
	return func() error { return nil }, nil
}

// openOutput returns the writer named by --output, or the command's stdout.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// featureWriter returns the writer for the configured output format.
func featureWriter(w io.Writer) (output.FeatureWriter, error) {
	fw, err := output.NewWriter(viper.GetString("output.format"), w)
	if err != nil {
		return nil, usageError{err}
	}
	return fw, nil
}

// writeFeatures writes features to --output in the configured format.
func writeFeatures(cmd *cobra.Command, features []*feature.Feature) error {
	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	fw, err := featureWriter(w)
	if err != nil {
		closeFn()
		return err
	}
	if err := output.WriteAll(fw, features); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// parseRegion parses "seqid:start-end" or "seqid:pos" with 1-based closed
// coordinates. Commas in numbers are ignored.
func parseRegion(s string) (interval.Interval, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return interval.Interval{}, fmt.Errorf("invalid region %q: want seqid:start-end", s)
	}
	seqID, rng := s[:i], strings.ReplaceAll(s[i+1:], ",", "")

	startStr, endStr, ok := strings.Cut(rng, "-")
	if !ok {
		endStr = startStr
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid region start %q: %w", startStr, err)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid region end %q: %w", endStr, err)
	}
	iv, err := interval.NewOn(seqID, start, end)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	return iv, nil
}
