package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "summary <annotation>",
		Short: "Summarize a feature graph",
		Long: `Parse an annotation file and report feature, edge and root counts, the
sequence ids, types and sources it contains, and any graph diagnostics.`,
		Example: `  featgraph summary genes.gff3
  featgraph --format gtf summary genes.gtf.gz
  featgraph summary --strict genes.gff3   # fail on unresolved parents or cycles`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "features\t%d\n", g.Len())
			fmt.Fprintf(tw, "edges\t%d\n", len(g.Edges()))
			fmt.Fprintf(tw, "roots\t%d\n", len(g.Roots()))
			fmt.Fprintf(tw, "seqids\t%s\n", strings.Join(g.SeqIDs(), ","))
			fmt.Fprintf(tw, "sources\t%s\n", strings.Join(g.Sources(), ","))
			for _, typ := range g.Types() {
				fmt.Fprintf(tw, "type:%s\t%d\n", typ, len(g.FeaturesOfType(typ)))
			}
			diags := g.Diagnostics()
			fmt.Fprintf(tw, "diagnostics\t%d\n", len(diags))
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, d := range diags {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", d.Error())
			}
			if strict && len(diags) > 0 {
				return fmt.Errorf("%d graph diagnostics", len(diags))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error if the graph has diagnostics")
	return cmd
}
