package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/sequence"
)

func newSeqCmd() *cobra.Command {
	var (
		typ     string
		id      string
		indexed bool
	)

	cmd := &cobra.Command{
		Use:   "seq <annotation>",
		Short: "Extract strand-aware feature sequences as FASTA",
		Long: `Extract the sequence of features from a reference FASTA. Reverse strand
features are reverse complemented. A FASTA with a .fai index next to it is
read through the index; other files are loaded into memory.`,
		Example: `  featgraph seq --fasta GRCh38.fa --type CDS genes.gff3
  featgraph seq --fasta GRCh38.fa --id ENSG00000133703 genes.gff3
  featgraph config set fasta /data/GRCh38.fa && featgraph seq genes.gff3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			closeSeqs, err := attachSequences(g, viper.GetString("fasta"), indexed)
			if err != nil {
				return err
			}
			defer closeSeqs()

			var features []*feature.Feature
			if id != "" {
				uids := g.UniqueIDs(id)
				if len(uids) == 0 {
					return fmt.Errorf("no feature with ID %q", id)
				}
				if features, err = resolve(g, uids); err != nil {
					return err
				}
			} else {
				features = g.FeaturesOfType(typ)
			}

			w, closeFn, err := openOutput(cmd)
			if err != nil {
				return err
			}
			buf := bufio.NewWriter(w)
			for _, f := range features {
				s, err := f.Sequence()
				if errors.Is(err, sequence.ErrUnknownSequence) || errors.Is(err, sequence.ErrOutOfRange) {
					logger.Warn("skipping feature", zap.String("uid", f.UniqueID()), zap.Error(err))
					continue
				}
				if err != nil {
					closeFn()
					return err
				}
				fmt.Fprintf(buf, "%60a\n", fastaRecord(f, s))
			}
			if err := buf.Flush(); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "gene", "Feature type to extract")
	cmd.Flags().StringVar(&id, "id", "", "Extract features with this ID instead of a type")
	cmd.Flags().String("fasta", "", "Reference FASTA (plain, .gz or .fai indexed)")
	cmd.Flags().BoolVar(&indexed, "index", false, "Build a .fai index in memory instead of loading the FASTA")
	_ = viper.BindPFlag("fasta", cmd.Flags().Lookup("fasta"))
	return cmd
}

func fastaRecord(f *feature.Feature, s string) *linear.Seq {
	name := f.ID()
	if name == "" {
		name = f.UniqueID()
	}
	rec := linear.NewSeq(name, alphabet.BytesToLetters([]byte(s)), alphabet.DNAredundant)
	rec.Desc = fmt.Sprintf("%s %s %s", f.Type, f.Interval, f.Strand)
	return rec
}
