package graph

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Directed is the parent to child relation as a gonum directed graph.
type Directed struct {
	*simple.DirectedGraph
	nodeFor map[string]gonum.Node
}

// NodeFor returns the gonum node for a unique id.
func (d Directed) NodeFor(uid string) (gonum.Node, bool) {
	n, ok := d.nodeFor[uid]
	return n, ok
}

type node struct {
	id    int64
	uid   string
	label string
	typ   string
}

func (n node) ID() int64     { return n.id }
func (n node) DOTID() string { return strconv.Quote(n.uid) }
func (n node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: strconv.Quote(n.label)},
		{Key: "type", Value: strconv.Quote(n.typ)},
	}
}

// Directed returns the parent to child edges as a gonum graph. Nodes are
// numbered in file order. Self-parent links are omitted since simple
// graphs cannot hold them; they are reported as Cycle diagnostics instead.
func (g *Graph) Directed() Directed {
	d := Directed{
		DirectedGraph: simple.NewDirectedGraph(),
		nodeFor:       make(map[string]gonum.Node, len(g.order)),
	}
	for i, uid := range g.order {
		f := g.features[uid]
		label := f.Type + " " + f.Interval.String()
		if id := f.ID(); id != "" {
			label = id + " " + label
		}
		n := node{id: int64(i), uid: uid, label: label, typ: f.Type}
		d.AddNode(n)
		d.nodeFor[uid] = n
	}
	for _, e := range g.edges {
		if e.Parent == e.Child {
			continue
		}
		d.SetEdge(d.NewEdge(d.nodeFor[e.Parent], d.nodeFor[e.Child]))
	}
	return d
}

// WriteDOT renders the parent to child graph in DOT format.
func (g *Graph) WriteDOT(w io.Writer, name string) error {
	b, err := dot.Marshal(g.Directed(), name, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal dot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// checkCycles records a Cycle diagnostic for each self-parent link and each
// strongly connected group of features.
func (b *Builder) checkCycles(g *Graph) {
	for _, e := range g.edges {
		if e.Parent == e.Child {
			f := g.features[e.Child]
			b.report(g, Diagnostic{
				Kind:     Cycle,
				UniqueID: e.Child,
				Line:     f.Line,
				Message:  "feature is its own parent",
			})
		}
	}

	d := g.Directed()
	_, err := topo.Sort(d)
	if err == nil {
		return
	}
	var unorderable topo.Unorderable
	if !errors.As(err, &unorderable) {
		b.logger.Warn("topological sort failed", zap.Error(err))
		return
	}
	for _, component := range unorderable {
		if len(component) < 2 {
			continue
		}
		uids := make([]string, len(component))
		for i, n := range component {
			uids[i] = n.(node).uid
		}
		sort.Slice(uids, func(i, j int) bool {
			return g.features[uids[i]].Line < g.features[uids[j]].Line
		})
		first := g.features[uids[0]]
		b.report(g, Diagnostic{
			Kind:     Cycle,
			UniqueID: uids[0],
			Line:     first.Line,
			Message:  fmt.Sprintf("%d features form a parent cycle: %s", len(uids), strings.Join(uids, ", ")),
		})
	}
}
