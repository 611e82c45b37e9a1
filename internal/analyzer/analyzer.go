// Package analyzer scans a tree of Puppet manifests into a class dependency
// graph and derives the structural findings reported by the CLI.
//
// A run walks the target, extracts each manifest (optionally on a bounded
// worker pool), merges the extractions into one depgraph.Graph in discovery
// order, then runs cycle detection and unreferenced class discovery once on
// the completed graph.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/puppetlens/internal/depgraph"
	"github.com/leapstack-labs/puppetlens/internal/manifest"
)

// DefaultExtension is the manifest file extension.
const DefaultExtension = ".pp"

// ErrTargetNotFound is returned when the analysis target does not exist.
var ErrTargetNotFound = errors.New("target not found")

// Options configures an analysis run. The zero value is usable.
type Options struct {
	// Extension selects manifests during a directory walk. Default ".pp".
	Extension string
	// Exclude holds gitignore-style patterns relative to the target.
	Exclude []string
	// RespectGitignore also applies the target's .gitignore.
	RespectGitignore bool
	// Workers bounds parallel extraction. Values below 2 run sequentially.
	Workers int
	// Syntax overrides the extraction patterns. Nil selects the default.
	Syntax *manifest.Syntax
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	} else if !strings.HasPrefix(o.Extension, ".") {
		o.Extension = "." + o.Extension
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Warning is a non-fatal problem met during a run.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Analysis is the result of one run.
type Analysis struct {
	// Root is the analyzed path as given.
	Root string
	// Files lists the scanned manifests in discovery order.
	Files []string
	Graph *depgraph.Graph
	// Dependencies maps each declared class to its sorted, distinct targets.
	// A class declared in several files gets the union of their targets.
	Dependencies map[depgraph.ClassName][]depgraph.ClassName
	Cycles       []depgraph.Cycle
	// Unused holds classes never referenced by an edge. Advisory only.
	Unused   []depgraph.ClassName
	Warnings []Warning
}

// HasCycles reports whether any circular dependency was found.
func (a *Analysis) HasCycles() bool {
	return len(a.Cycles) > 0
}

// Classes returns the declared classes, sorted.
func (a *Analysis) Classes() []depgraph.ClassName {
	classes := make([]depgraph.ClassName, 0, len(a.Dependencies))
	for c := range a.Dependencies {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// Analyze scans target, which may be a single manifest or a directory.
// A single file is analyzed regardless of its extension.
func Analyze(ctx context.Context, target string, opts Options) (*Analysis, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	files, warnings, err := Discover(target, opts)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Root:         target,
		Files:        files,
		Graph:        depgraph.NewGraph(),
		Dependencies: make(map[depgraph.ClassName][]depgraph.ClassName),
		Warnings:     warnings,
	}
	warn := func(path string, err error) {
		log.Warn("skipping manifest", "path", path, "error", err)
		a.Warnings = append(a.Warnings, Warning{Path: path, Message: err.Error()})
	}

	log.Debug("discovered manifests", "root", target, "count", len(a.Files))

	extractions, err := extractAll(ctx, manifest.NewExtractor(opts.Syntax), a.Files, opts.Workers)
	if err != nil {
		return nil, err
	}

	deps := make(map[depgraph.ClassName]map[depgraph.ClassName]struct{})
	for i, res := range extractions {
		if res.err != nil {
			warn(a.Files[i], res.err)
			continue
		}
		x := res.extraction
		if x.Empty() {
			log.Debug("no class declaration", "path", rel(target, a.Files[i]))
			continue
		}

		a.Graph.AddClass(x.Class)
		for _, e := range x.Edges {
			a.Graph.AddEdge(e)
		}

		set, ok := deps[x.Class]
		if !ok {
			set = make(map[depgraph.ClassName]struct{})
			deps[x.Class] = set
		}
		for _, t := range x.Targets {
			set[t] = struct{}{}
		}
	}

	for class, set := range deps {
		targets := make([]depgraph.ClassName, 0, len(set))
		for t := range set {
			targets = append(targets, t)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		a.Dependencies[class] = targets
	}

	a.Cycles = a.Graph.FindCycles()
	a.Unused = a.Graph.Unreferenced()

	log.Info("analysis complete",
		"files", len(a.Files),
		"classes", a.Graph.NodeCount(),
		"edges", a.Graph.EdgeCount(),
		"cycles", len(a.Cycles),
		"warnings", len(a.Warnings),
	)
	return a, nil
}

// Discover lists the manifests a run over target would scan, in lexical walk
// order. Directory entries that could not be visited are returned as
// warnings. A single file is returned as is.
func Discover(target string, opts Options) ([]string, []Warning, error) {
	opts = opts.withDefaults()

	info, err := stat(target)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil, nil
	}

	m, err := newMatcher(target, opts.Exclude, opts.RespectGitignore)
	if err != nil {
		return nil, nil, err
	}
	var warnings []Warning
	files, err := discover(target, opts.Extension, m, func(path string, err error) {
		opts.Logger.Warn("skipping path", "path", path, "error", err)
		warnings = append(warnings, Warning{Path: path, Message: err.Error()})
	})
	if err != nil {
		return nil, nil, err
	}
	return files, warnings, nil
}

type result struct {
	extraction manifest.Extraction
	err        error
}

// extractAll runs the extractor over files with at most workers in flight.
// Results are indexed by file so the caller can merge in discovery order.
// Read failures are kept per file; only context cancellation aborts the run.
func extractAll(ctx context.Context, ex *manifest.Extractor, files []string, workers int) ([]result, error) {
	results := make([]result, len(files))

	if workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			x, err := ex.ExtractFile(path)
			results[i] = result{extraction: x, err: err}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			x, err := ex.ExtractFile(path)
			results[i] = result{extraction: x, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// rel shortens path for logging; it falls back to path unchanged.
func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
