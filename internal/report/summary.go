package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/leapstack-labs/puppetlens/internal/analyzer"
)

// Summary headings.
const (
	TitleHeading  = "## Puppet Dependency Analysis"
	CyclesHeading = "### ⚠️ CIRCULAR DEPENDENCIES DETECTED"
	UnusedHeading = "### ℹ️ Potentially Unused Classes"
	DepsHeading   = "### Class Dependencies"
)

// CycleSeparator joins the classes of a cycle in human-readable output.
const CycleSeparator = " → "

// WriteSummary writes the markdown summary: totals, circular dependencies
// (only when present), potentially unused classes (only when present) and a
// per-class breakdown of declared classes with at least one dependency.
func WriteSummary(w io.Writer, a *analyzer.Analysis) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n\n", TitleHeading)
	fmt.Fprintf(bw, "### Summary\n")
	fmt.Fprintf(bw, "- **Classes**: %d\n", a.Graph.NodeCount())
	fmt.Fprintf(bw, "- **Dependencies**: %d\n", a.Graph.EdgeCount())

	if len(a.Cycles) > 0 {
		fmt.Fprintf(bw, "\n%s\n", CyclesHeading)
		for i, c := range a.Cycles {
			fmt.Fprintf(bw, "%d. %s\n", i+1, c.Join(CycleSeparator))
		}
	}

	if len(a.Unused) > 0 {
		fmt.Fprintf(bw, "\n%s\n", UnusedHeading)
		for _, c := range a.Unused {
			fmt.Fprintf(bw, "- %s\n", c)
		}
	}

	fmt.Fprintf(bw, "\n%s\n", DepsHeading)
	for _, class := range a.Classes() {
		deps := a.Dependencies[class]
		if len(deps) == 0 {
			continue
		}
		fmt.Fprintf(bw, "\n**%s**:\n", class)
		for _, d := range deps {
			fmt.Fprintf(bw, "  → %s\n", d)
		}
	}

	if len(a.Warnings) > 0 {
		fmt.Fprintf(bw, "\n### Warnings\n")
		for _, warn := range a.Warnings {
			fmt.Fprintf(bw, "- %s\n", warn)
		}
	}

	return bw.Flush()
}
