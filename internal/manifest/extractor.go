package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/leapstack-labs/puppetlens/internal/depgraph"
)

// Extraction is the result of scanning one manifest.
type Extraction struct {
	Path     string
	Class    depgraph.ClassName
	Declared bool
	// Edges in discovery order: relationship calls by kind, then chain arrows.
	Edges []depgraph.Edge
	// Targets holds every referenced class name, sorted and deduplicated.
	Targets []depgraph.ClassName
}

// Empty reports whether the manifest declared no class.
func (x Extraction) Empty() bool {
	return !x.Declared
}

// Extractor scans manifest text with a fixed Syntax.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	syntax *Syntax
}

// NewExtractor creates an extractor. A nil syntax selects DefaultSyntax.
func NewExtractor(syntax *Syntax) *Extractor {
	if syntax == nil {
		syntax = DefaultSyntax()
	}
	return &Extractor{syntax: syntax}
}

// Extract scans content for the first class declaration and its relationships.
//
// Relationship calls (include, Require, Contain, Notify, Subscribe) each yield
// an edge from the declared class to the named class. Chain arrows behave
// differently per direction:
//
//	a -> b   edge a -> b (require)
//	a ~> b   edge a -> b (notify)
//	a <- b   edge b -> declared class (require)
//	a <~ b   edge b -> declared class (subscribe)
//
// Without a class declaration the result is empty.
func (e *Extractor) Extract(content string) Extraction {
	var x Extraction

	m := e.syntax.class.FindStringSubmatch(content)
	if m == nil {
		return x
	}
	x.Class = depgraph.ClassName(m[1])
	x.Declared = true

	targets := make(map[depgraph.ClassName]struct{})

	for _, rel := range e.syntax.relations {
		for _, match := range rel.pattern.FindAllStringSubmatch(content, -1) {
			target := depgraph.ClassName(match[1])
			targets[target] = struct{}{}
			x.Edges = append(x.Edges, depgraph.Edge{Source: x.Class, Target: target, Kind: rel.kind})
		}
	}

	for _, match := range e.syntax.chain.FindAllStringSubmatch(content, -1) {
		left, arrow, right := depgraph.ClassName(match[1]), match[2], depgraph.ClassName(match[3])
		op, ok := e.syntax.operators[arrow]
		if !ok {
			continue
		}
		targets[right] = struct{}{}
		if op.Reverse {
			x.Edges = append(x.Edges, depgraph.Edge{Source: right, Target: x.Class, Kind: op.Kind})
		} else {
			x.Edges = append(x.Edges, depgraph.Edge{Source: left, Target: right, Kind: op.Kind})
		}
	}

	x.Targets = make([]depgraph.ClassName, 0, len(targets))
	for t := range targets {
		x.Targets = append(x.Targets, t)
	}
	sort.Slice(x.Targets, func(i, j int) bool { return x.Targets[i] < x.Targets[j] })

	return x
}

// ExtractFile reads and scans one manifest. Read failures are returned as
// *ReadError so callers can downgrade them to warnings.
func (e *Extractor) ExtractFile(path string) (Extraction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Extraction{Path: path}, &ReadError{Path: path, Err: err}
	}
	x := e.Extract(string(content))
	x.Path = path
	return x, nil
}

// ReadError represents a manifest that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
