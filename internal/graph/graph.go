// Package graph assembles annotation features into a parent/child graph.
//
// A Graph is built in two passes over a single annotation stream: every
// record is parsed and bound to its unique id first, then Parent attributes
// are resolved against the complete set of IDs so that forward references
// link correctly. Once built the graph is sealed and read-only; only the
// sequence provider slot may change afterwards.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/interval"
)

var (
	// ErrDuplicateUniqueID is returned when two records derive the same
	// unique id.
	ErrDuplicateUniqueID = errors.New("duplicate unique id")

	// ErrNotFound is returned for lookups of an absent unique id.
	ErrNotFound = errors.New("feature not found")

	// ErrSealed is returned when a sealed graph would be modified.
	ErrSealed = errors.New("graph is sealed")
)

// Edge links a parent feature to one of its children by unique id.
type Edge struct {
	Parent string
	Child  string
}

// Graph holds features keyed by unique id and the parent/child edges
// between them.
type Graph struct {
	features map[string]*feature.Feature
	order    []string

	commonToUnique map[string][]string
	uniqueToCommon map[string]string

	edgeSet  map[Edge]struct{}
	edges    []Edge
	children map[string][]string
	parents  map[string][]string

	seqIDs  map[string]struct{}
	types   map[string]struct{}
	sources map[string]struct{}

	index       map[string]*interval.Index[*feature.Feature]
	diagnostics []Diagnostic
	sealed      bool

	mu       sync.RWMutex
	provider feature.SequenceProvider
}

func newGraph() *Graph {
	return &Graph{
		features:       make(map[string]*feature.Feature),
		commonToUnique: make(map[string][]string),
		uniqueToCommon: make(map[string]string),
		edgeSet:        make(map[Edge]struct{}),
		children:       make(map[string][]string),
		parents:        make(map[string][]string),
		seqIDs:         make(map[string]struct{}),
		types:          make(map[string]struct{}),
		sources:        make(map[string]struct{}),
	}
}

// add binds f to the graph and records it under its unique id. commonID is
// the identity used for parent resolution and may be empty.
func (g *Graph) add(f *feature.Feature, commonID string) error {
	if g.sealed {
		return ErrSealed
	}

	f.Bind(g)
	uid := f.UniqueID()
	if prev, dup := g.features[uid]; dup {
		return fmt.Errorf("%w: %s (lines %d and %d)", ErrDuplicateUniqueID, uid, prev.Line, f.Line)
	}

	g.features[uid] = f
	g.order = append(g.order, uid)
	if commonID != "" {
		g.commonToUnique[commonID] = append(g.commonToUnique[commonID], uid)
		g.uniqueToCommon[uid] = commonID
	}
	g.seqIDs[f.SeqID] = struct{}{}
	g.types[f.Type] = struct{}{}
	g.sources[f.Source] = struct{}{}
	return nil
}

func (g *Graph) link(parent, child string) error {
	if g.sealed {
		return ErrSealed
	}
	e := Edge{Parent: parent, Child: child}
	if _, ok := g.edgeSet[e]; ok {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
	return nil
}

// seal builds the per-sequence overlap indices and freezes the graph.
func (g *Graph) seal() {
	bySeq := make(map[string][]*feature.Feature, len(g.seqIDs))
	for _, uid := range g.order {
		f := g.features[uid]
		bySeq[f.SeqID] = append(bySeq[f.SeqID], f)
	}
	g.index = make(map[string]*interval.Index[*feature.Feature], len(bySeq))
	for seqID, fs := range bySeq {
		g.index[seqID] = interval.BuildIndex(fs, func(f *feature.Feature) interval.Interval {
			return f.Interval
		})
	}
	g.sealed = true
}

// Sealed reports whether the graph has finished building.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// Len returns the number of features.
func (g *Graph) Len() int {
	return len(g.order)
}

// Get returns the feature with the given unique id.
func (g *Graph) Get(uid string) (*feature.Feature, error) {
	f, ok := g.features[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return f, nil
}

// ChildrenOf returns the unique ids of uid's direct children.
func (g *Graph) ChildrenOf(uid string) ([]string, error) {
	if _, ok := g.features[uid]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return slices.Clone(g.children[uid]), nil
}

// ParentsOf returns the unique ids of uid's direct parents.
func (g *Graph) ParentsOf(uid string) ([]string, error) {
	if _, ok := g.features[uid]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	return slices.Clone(g.parents[uid]), nil
}

// UniqueIDs returns every unique id carrying the given file ID, in file
// order. IDs may repeat, e.g. for a CDS split over several lines.
func (g *Graph) UniqueIDs(commonID string) []string {
	return slices.Clone(g.commonToUnique[commonID])
}

// CommonID returns the file ID of the feature with unique id uid.
func (g *Graph) CommonID(uid string) (string, bool) {
	id, ok := g.uniqueToCommon[uid]
	return id, ok
}

// Features returns all features in file order.
func (g *Graph) Features() []*feature.Feature {
	out := make([]*feature.Feature, len(g.order))
	for i, uid := range g.order {
		out[i] = g.features[uid]
	}
	return out
}

// FeaturesOfType returns features of type typ in file order.
func (g *Graph) FeaturesOfType(typ string) []*feature.Feature {
	var out []*feature.Feature
	for _, uid := range g.order {
		if f := g.features[uid]; f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

// Edges returns every parent/child edge in resolution order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Roots returns the features that have no resolved parent.
func (g *Graph) Roots() []*feature.Feature {
	var out []*feature.Feature
	for _, uid := range g.order {
		if len(g.parents[uid]) == 0 {
			out = append(out, g.features[uid])
		}
	}
	return out
}

// SeqIDs returns the distinct sequence ids, sorted.
func (g *Graph) SeqIDs() []string { return sortedKeys(g.seqIDs) }

// Types returns the distinct feature types, sorted.
func (g *Graph) Types() []string { return sortedKeys(g.types) }

// Sources returns the distinct sources, sorted.
func (g *Graph) Sources() []string { return sortedKeys(g.sources) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Overlapping returns the features sharing a position with iv, which must be
// tagged with a sequence id. Results are ordered by start.
func (g *Graph) Overlapping(iv interval.Interval) []*feature.Feature {
	idx, ok := g.index[iv.SeqID()]
	if !ok {
		return nil
	}
	return idx.Overlapping(iv)
}

// AttachSequenceProvider sets the provider used by Feature.Sequence. It is
// the only mutation allowed on a sealed graph.
func (g *Graph) AttachSequenceProvider(p feature.SequenceProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.provider = p
}

// SequenceProvider returns the attached provider, or nil.
func (g *Graph) SequenceProvider() feature.SequenceProvider {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.provider
}
