package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/interval"
	"github.com/inodb/featgraph/internal/output"
)

func newMergeCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "merge <annotation>",
		Short: "Merge overlapping or adjacent features of a type into BED regions",
		Example: `  featgraph merge --type exon genes.gff3 > exonic.bed
  featgraph merge --type CDS -o cds.bed genes.gff3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			features := g.FeaturesOfType(typ)
			ivs := make([]interval.Interval, len(features))
			for i, f := range features {
				ivs[i] = f.Interval
			}
			merged := interval.Merge(ivs)
			logger.Info("merged regions",
				zap.String("type", typ),
				zap.Int("features", len(features)),
				zap.Int("regions", len(merged)),
				zap.Int64("bases", interval.TotalLen(merged)))

			w, closeFn, err := openOutput(cmd)
			if err != nil {
				return err
			}
			bw := output.NewBEDWriter(w)
			for _, iv := range merged {
				if err := bw.WriteInterval(iv, typ); err != nil {
					closeFn()
					return fmt.Errorf("write region %s: %w", iv, err)
				}
			}
			if err := bw.Flush(); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "exon", "Feature type to merge")
	return cmd
}
