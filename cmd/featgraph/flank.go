package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/feature"
)

func newFlankCmd() *cobra.Command {
	var (
		typ  string
		side string
	)

	cmd := &cobra.Command{
		Use:   "flank <annotation>",
		Short: "Derive strand-aware upstream/downstream windows",
		Long: `Derive upstream and/or downstream region features of the given size for
every feature of a type. Upstream is to the left on the forward strand and to
the right on the reverse strand. Windows are clamped at position 1.`,
		Example: `  featgraph flank --type gene --size 2000 genes.gff3
  featgraph flank --side upstream -f bed genes.gff3 > promoters.bed`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := viper.GetInt64("flank.size")
			if size < 1 {
				return usageError{fmt.Errorf("flank size must be positive, got %d", size)}
			}
			upstream, downstream, err := parseSide(side)
			if err != nil {
				return usageError{err}
			}

			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var windows []*feature.Feature
			for _, f := range g.FeaturesOfType(typ) {
				if upstream {
					w, err := f.UpstreamWindow(size)
					if err != nil {
						logger.Warn("skipping upstream window", zap.String("uid", f.UniqueID()), zap.Error(err))
					} else {
						windows = append(windows, w)
					}
				}
				if downstream {
					w, err := f.DownstreamWindow(size)
					if err != nil {
						logger.Warn("skipping downstream window", zap.String("uid", f.UniqueID()), zap.Error(err))
					} else {
						windows = append(windows, w)
					}
				}
			}
			return writeFeatures(cmd, windows)
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "gene", "Feature type to flank")
	cmd.Flags().Int64P("size", "n", 1000, "Window size in bases")
	cmd.Flags().StringVar(&side, "side", "both", "Which windows: upstream, downstream, both")
	_ = viper.BindPFlag("flank.size", cmd.Flags().Lookup("size"))
	return cmd
}

func parseSide(s string) (upstream, downstream bool, err error) {
	switch s {
	case "upstream", "up":
		return true, false, nil
	case "downstream", "down":
		return false, true, nil
	case "both":
		return true, true, nil
	}
	return false, false, fmt.Errorf("invalid side %q (want upstream, downstream or both)", s)
}
