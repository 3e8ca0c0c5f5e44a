package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/duckdb"
)

func newExportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export <annotation>",
		Short: "Export a feature graph to DuckDB",
		Long: `Write the features and parent/child edges of an annotation into DuckDB
tables "features" and "edges". The annotation's size and modification time
are recorded; re-exporting an unchanged file is skipped unless --force is set.`,
		Example: `  featgraph export --db genes.duckdb genes.gff3
  featgraph config set export.db ~/.featgraph/features.duckdb
  featgraph export --force genes.gff3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := viper.GetString("export.db")
			if dbPath == "" {
				return usageError{fmt.Errorf("a database path is required (--db or config key export.db)")}
			}
			if args[0] == "-" {
				force = true
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var fp duckdb.FileFingerprint
			if args[0] != "-" {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if fp, err = duckdb.StatFile(abs); err != nil {
					return err
				}
				current, err := store.SourceCurrent(fp)
				if err != nil {
					return err
				}
				if current && !force {
					logger.Info("annotation unchanged since last export", zap.String("path", abs))
					fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date in %s\n", args[0], dbPath)
					return nil
				}
			}

			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := store.WriteGraph(g); err != nil {
				return fmt.Errorf("export to %s: %w", dbPath, err)
			}
			if fp.Path != "" {
				if err := store.RecordSource(fp); err != nil {
					return err
				}
			}

			logger.Info("exported feature graph",
				zap.String("db", dbPath),
				zap.Int("features", g.Len()),
				zap.Int("edges", len(g.Edges())))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d features and %d edges to %s\n", g.Len(), len(g.Edges()), dbPath)
			return nil
		},
	}

	cmd.Flags().String("db", "", "DuckDB database path")
	cmd.Flags().BoolVar(&force, "force", false, "Export even if the annotation is unchanged")
	_ = viper.BindPFlag("export.db", cmd.Flags().Lookup("db"))
	return cmd
}
