// Package report renders an analysis as a Mermaid diagram, a markdown summary
// or a JSON document. Every renderer is deterministic: the same analysis
// always produces the same bytes.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/depgraph"
)

// Direction is the Mermaid flowchart orientation.
type Direction string

// Supported directions.
const (
	DirectionTD Direction = "TD"
	DirectionLR Direction = "LR"
)

// Valid reports whether d is a supported direction.
func (d Direction) Valid() bool {
	return d == DirectionTD || d == DirectionLR
}

// FallbackArrow is drawn for kinds missing from an ArrowTable.
const FallbackArrow = "-->"

// ArrowTable maps relationship kinds to Mermaid link syntax.
type ArrowTable map[depgraph.Kind]string

// DefaultArrows returns the arrow table for the five relationship kinds.
func DefaultArrows() ArrowTable {
	return ArrowTable{
		depgraph.KindInclude:   "--include-->",
		depgraph.KindRequire:   "==require==>",
		depgraph.KindContain:   "==contain==>",
		depgraph.KindNotify:    "-.notify.->",
		depgraph.KindSubscribe: "-.subscribe.->",
	}
}

// Arrow returns the link for kind, or FallbackArrow.
func (t ArrowTable) Arrow(kind depgraph.Kind) string {
	if a, ok := t[kind]; ok {
		return a
	}
	return FallbackArrow
}

// MermaidOptions configures WriteMermaid. The zero value draws top-down
// with DefaultArrows.
type MermaidOptions struct {
	Direction Direction
	Arrows    ArrowTable
}

// MermaidID converts a class name into a Mermaid node identifier.
func MermaidID(c depgraph.ClassName) string {
	return strings.ReplaceAll(string(c), depgraph.NamespaceSeparator, "_")
}

// WriteMermaid writes one line per edge, in discovery order, below a
// "graph <direction>" header.
func WriteMermaid(w io.Writer, g *depgraph.Graph, opts MermaidOptions) error {
	dir := opts.Direction
	if dir == "" {
		dir = DirectionTD
	}
	if !dir.Valid() {
		return fmt.Errorf("unsupported diagram direction %q", dir)
	}
	arrows := opts.Arrows
	if arrows == nil {
		arrows = DefaultArrows()
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "graph %s\n", dir)
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "    %s %s %s\n", MermaidID(e.Source), arrows.Arrow(e.Kind), MermaidID(e.Target))
	}
	return bw.Flush()
}
