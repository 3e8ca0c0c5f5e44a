package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/graph"
)

func newChildrenCmd() *cobra.Command {
	var parents bool

	cmd := &cobra.Command{
		Use:   "children <annotation> <ID>",
		Short: "List the children of every feature with the given ID",
		Example: `  featgraph children genes.gff3 ENST00000311936
  featgraph children --parents genes.gff3 exon1
  featgraph -f gff3 children genes.gff3 gene1`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			uids := g.UniqueIDs(args[1])
			if len(uids) == 0 {
				return fmt.Errorf("no feature with ID %q", args[1])
			}

			lookup := g.ChildrenOf
			if parents {
				lookup = g.ParentsOf
			}
			var related []*feature.Feature
			for _, uid := range uids {
				ids, err := lookup(uid)
				if err != nil {
					return err
				}
				fs, err := resolve(g, ids)
				if err != nil {
					return err
				}
				related = append(related, fs...)
			}
			return writeFeatures(cmd, related)
		},
	}

	cmd.Flags().BoolVar(&parents, "parents", false, "List parents instead of children")
	return cmd
}

func resolve(g *graph.Graph, uids []string) ([]*feature.Feature, error) {
	fs := make([]*feature.Feature, 0, len(uids))
	for _, uid := range uids {
		f, err := g.Get(uid)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}
