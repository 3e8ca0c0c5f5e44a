package graph

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/featgraph/internal/feature"
)

// LineSource is a one-pass stream of annotation lines, such as a
// *gff.Reader or a bufio.Scanner.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// Builder ingests annotation lines into a sealed Graph.
type Builder struct {
	logger  *zap.Logger
	dialect feature.Dialect
}

// NewBuilder creates a builder for GFF3 input.
func NewBuilder() *Builder {
	return &Builder{
		logger:  zap.NewNop(),
		dialect: feature.GFF3,
	}
}

// SetLogger sets the logger for diagnostics and build summaries.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// SetDialect selects the attribute syntax and identity rules.
func (b *Builder) SetDialect(d feature.Dialect) {
	b.dialect = d
}

// Ingest builds a graph from GFF3 lines with default settings.
func Ingest(src LineSource) (*Graph, error) {
	return NewBuilder().Build(src)
}

// Build consumes src and returns the sealed graph. Malformed records and
// unique id collisions abort the build; unresolved parents and cycles are
// recorded as diagnostics.
func (b *Builder) Build(src LineSource) (*Graph, error) {
	g := newGraph()

	lineNum := 0
	for src.Scan() {
		lineNum++
		line := src.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		f, err := feature.Parse(line, lineNum, b.dialect)
		if err != nil {
			return nil, fmt.Errorf("ingest annotation: %w", err)
		}
		if err := g.add(f, b.commonID(f)); err != nil {
			return nil, fmt.Errorf("ingest annotation: %w", err)
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("ingest annotation: %w", err)
	}

	if err := b.resolveParents(g); err != nil {
		return nil, err
	}
	b.checkCycles(g)
	g.seal()

	b.logger.Info("built feature graph",
		zap.Int("lines", lineNum),
		zap.Int("features", g.Len()),
		zap.Int("edges", len(g.edges)),
		zap.Int("diagnostics", len(g.diagnostics)))
	return g, nil
}

// resolveParents links every feature to the features carrying the IDs named
// by its parent references.
func (b *Builder) resolveParents(g *Graph) error {
	for _, uid := range g.order {
		f := g.features[uid]
		for _, pid := range b.parentIDs(f) {
			puids := g.commonToUnique[pid]
			if len(puids) == 0 {
				b.report(g, Diagnostic{
					Kind:     UnresolvedParent,
					UniqueID: uid,
					Line:     f.Line,
					Message:  fmt.Sprintf("parent %q of %s not found", pid, f.Type),
				})
				continue
			}
			for _, puid := range puids {
				if err := g.link(puid, uid); err != nil {
					return fmt.Errorf("resolve parent %q: %w", pid, err)
				}
			}
		}
	}
	return nil
}

func (b *Builder) report(g *Graph, d Diagnostic) {
	g.diagnostics = append(g.diagnostics, d)
	b.logger.Warn("feature graph diagnostic",
		zap.Stringer("kind", d.Kind),
		zap.Int("line", d.Line),
		zap.String("unique_id", d.UniqueID),
		zap.String("message", d.Message))
}

// GTF records carry no ID or Parent; identity comes from gene_id and
// transcript_id.
const (
	gtfGeneID       = "gene_id"
	gtfTranscriptID = "transcript_id"
)

// commonID returns the identity used for parent resolution.
func (b *Builder) commonID(f *feature.Feature) string {
	if b.dialect != feature.GTF {
		return f.ID()
	}
	switch f.Type {
	case "gene":
		return f.Attributes.Value(gtfGeneID)
	case "transcript":
		return f.Attributes.Value(gtfTranscriptID)
	}
	return ""
}

// parentIDs returns the IDs f names as parents. GFF3 Parent values may list
// several IDs separated by commas.
func (b *Builder) parentIDs(f *feature.Feature) []string {
	if b.dialect == feature.GTF {
		return gtfParentIDs(f)
	}
	p, ok := f.ParentID()
	if !ok || p == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(p, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func gtfParentIDs(f *feature.Feature) []string {
	switch f.Type {
	case "gene":
		return nil
	case "transcript":
		if id := f.Attributes.Value(gtfGeneID); id != "" {
			return []string{id}
		}
		return nil
	}
	if id := f.Attributes.Value(gtfTranscriptID); id != "" {
		return []string{id}
	}
	if id := f.Attributes.Value(gtfGeneID); id != "" {
		return []string{id}
	}
	return nil
}
