package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newDotCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "dot <annotation>",
		Short: "Render the parent/child graph in Graphviz DOT",
		Example: `  featgraph dot genes.gff3 | dot -Tsvg > genes.svg
  featgraph dot --name KRAS -o kras.dot kras.gff3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = graphName(args[0])
			}

			w, closeFn, err := openOutput(cmd)
			if err != nil {
				return err
			}
			if err := g.WriteDOT(w, name); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Graph name (default: annotation file name)")
	return cmd
}

// graphName strips directories and annotation extensions from path.
func graphName(path string) string {
	if path == "-" {
		return "features"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	for _, ext := range []string{".gff3", ".gff", ".gtf"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
