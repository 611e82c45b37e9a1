package report

import (
	"encoding/json"
	"io"

	"github.com/leapstack-labs/puppetlens/internal/analyzer"
	"github.com/leapstack-labs/puppetlens/internal/depgraph"
)

// Document is the machine-readable form of an analysis.
type Document struct {
	Root         string              `json:"root"`
	Files        []string            `json:"files"`
	Classes      []string            `json:"classes"`
	Edges        []EdgeJSON          `json:"edges"`
	Dependencies map[string][]string `json:"dependencies"`
	Cycles       [][]string          `json:"cycles"`
	Unused       []string            `json:"unused"`
	Warnings     []analyzer.Warning  `json:"warnings"`
}

// EdgeJSON is one edge in a Document.
type EdgeJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// NewDocument builds a Document. Slices are never nil so they encode as [].
func NewDocument(a *analyzer.Analysis) Document {
	doc := Document{
		Root:         a.Root,
		Files:        append([]string{}, a.Files...),
		Classes:      names(a.Graph.Nodes()),
		Edges:        []EdgeJSON{},
		Dependencies: make(map[string][]string, len(a.Dependencies)),
		Cycles:       make([][]string, 0, len(a.Cycles)),
		Unused:       names(a.Unused),
		Warnings:     append([]analyzer.Warning{}, a.Warnings...),
	}
	for _, e := range a.Graph.Edges() {
		doc.Edges = append(doc.Edges, EdgeJSON{Source: string(e.Source), Target: string(e.Target), Kind: string(e.Kind)})
	}
	for class, deps := range a.Dependencies {
		doc.Dependencies[string(class)] = names(deps)
	}
	for _, c := range a.Cycles {
		doc.Cycles = append(doc.Cycles, names(c))
	}
	return doc
}

// WriteJSON writes the analysis as an indented JSON document.
func WriteJSON(w io.Writer, a *analyzer.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(a))
}

func names(in []depgraph.ClassName) []string {
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = string(n)
	}
	return out
}
