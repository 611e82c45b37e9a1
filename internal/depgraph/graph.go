// Package depgraph provides the class dependency graph built from Puppet manifests.
// It supports cycle detection with path reconstruction and unreferenced class discovery.
package depgraph

import (
	"sort"
	"strings"
)

// ClassName is a namespaced Puppet class identifier, e.g. "profile::web".
type ClassName string

// NamespaceSeparator joins the segments of a ClassName.
const NamespaceSeparator = "::"

// Segments splits the name on the namespace separator.
func (c ClassName) Segments() []string {
	return strings.Split(string(c), NamespaceSeparator)
}

// Kind tags the relationship an edge was extracted from.
// All kinds are treated as "depends-on" for traversal.
type Kind string

// Relationship kinds.
const (
	KindInclude   Kind = "include"
	KindRequire   Kind = "require"
	KindContain   Kind = "contain"
	KindNotify    Kind = "notify"
	KindSubscribe Kind = "subscribe"
)

// Kinds lists every relationship kind in extraction order.
var Kinds = []Kind{KindInclude, KindRequire, KindContain, KindNotify, KindSubscribe}

// Valid reports whether k is one of the known relationship kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Edge is a directed dependency from Source to Target.
type Edge struct {
	Source ClassName
	Target ClassName
	Kind   Kind
}

// Graph is an append-only class dependency graph.
// The edge list keeps duplicates; adjacency keeps distinct targets per source.
type Graph struct {
	nodes     map[ClassName]struct{}
	edges     []Edge
	adjacency map[ClassName][]ClassName // source -> distinct targets, insertion order
	adjSet    map[ClassName]map[ClassName]struct{}
	targets   map[ClassName]struct{} // every node referenced as an edge target
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[ClassName]struct{}),
		adjacency: make(map[ClassName][]ClassName),
		adjSet:    make(map[ClassName]map[ClassName]struct{}),
		targets:   make(map[ClassName]struct{}),
	}
}

// AddClass adds a class node. Adding an existing class is a no-op.
func (g *Graph) AddClass(name ClassName) {
	g.nodes[name] = struct{}{}
}

// AddDependency records an edge, adding both endpoints as nodes.
func (g *Graph) AddDependency(source, target ClassName, kind Kind) {
	g.AddClass(source)
	g.AddClass(target)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Kind: kind})
	g.targets[target] = struct{}{}

	set, ok := g.adjSet[source]
	if !ok {
		set = make(map[ClassName]struct{})
		g.adjSet[source] = set
	}
	if _, seen := set[target]; !seen {
		set[target] = struct{}{}
		g.adjacency[source] = append(g.adjacency[source], target)
	}
}

// AddEdge is AddDependency taking an Edge value.
func (g *Graph) AddEdge(e Edge) {
	g.AddDependency(e.Source, e.Target, e.Kind)
}

// HasNode reports whether name is a node in the graph.
func (g *Graph) HasNode(name ClassName) bool {
	_, ok := g.nodes[name]
	return ok
}

// Nodes returns all class names sorted alphabetically.
func (g *Graph) Nodes() []ClassName {
	nodes := make([]ClassName, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sortNames(nodes)
	return nodes
}

// Edges returns a copy of the edge list in discovery order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Targets returns the distinct targets of source in insertion order.
func (g *Graph) Targets(source ClassName) []ClassName {
	targets := g.adjacency[source]
	out := make([]ClassName, len(targets))
	copy(out, targets)
	return out
}

// Adjacency returns a copy of the source -> distinct targets mapping.
func (g *Graph) Adjacency() map[ClassName][]ClassName {
	adj := make(map[ClassName][]ClassName, len(g.adjacency))
	for source, targets := range g.adjacency {
		adj[source] = append([]ClassName(nil), targets...)
	}
	return adj
}

// NodeCount returns the number of classes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Unreferenced returns the classes that are never the target of an edge,
// sorted alphabetically. The result is advisory: a class may still be used
// from outside the scanned manifests (node definitions, an ENC, Hiera).
func (g *Graph) Unreferenced() []ClassName {
	var unused []ClassName
	for n := range g.nodes {
		if _, referenced := g.targets[n]; !referenced {
			unused = append(unused, n)
		}
	}
	sortNames(unused)
	return unused
}

func sortNames(names []ClassName) {
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
}
