package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/featgraph/internal/feature"
)

func newOverlapCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "overlap <annotation> <seqid:start-end>",
		Short: "List features overlapping a region",
		Example: `  featgraph overlap genes.gff3 chr1:1000-2000
  featgraph overlap --type exon genes.gff3 chr12:25,245,274`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := parseRegion(args[1])
			if err != nil {
				return usageError{err}
			}
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var hits []*feature.Feature
			for _, f := range g.Overlapping(region) {
				if typ == "" || f.Type == typ {
					hits = append(hits, f)
				}
			}
			return writeFeatures(cmd, hits)
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "Only report features of this type")
	return cmd
}
