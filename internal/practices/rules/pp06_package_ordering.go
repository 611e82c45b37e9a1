package practicerules

import (
	"fmt"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP06",
		Name:        "package-ordering",
		Group:       "ordering",
		Description: "Many package resources without explicit ordering",
		Severity:    practices.SeverityInfo,
		Check:       checkPackageOrdering,
		ConfigKeys:  []string{"package_threshold"},

		Rationale: `Puppet applies unrelated resources in manifest order only by default. Files with
many packages often hide install-order assumptions that break once ordering changes.`,

		BadExample: `package { 'a': }
package { 'b': }
package { 'c': }
package { 'd': }`,

		GoodExample: `package { ['a', 'b']: }
-> package { ['c', 'd']: }`,

		Fix: "Use chaining or require/contain relationships.",
	})
}

// checkPackageOrdering flags a file with more package resources than the
// configured threshold, at the first one.
func checkPackageOrdering(f *practices.File, opts practices.Options) []practices.Issue {
	var lines []int
	for i, line := range f.Lines() {
		if m := resourceDecl.FindStringSubmatch(line); m != nil && m[1] == "package" {
			lines = append(lines, i+1)
		}
	}

	if len(lines) <= opts.PackageThreshold {
		return nil
	}
	return []practices.Issue{{
		Line:       lines[0],
		Severity:   practices.SeverityInfo,
		Message:    fmt.Sprintf("Multiple package resources (%d) - consider explicit ordering", len(lines)),
		Suggestion: "Use chaining or require/contain relationships",
	}}
}
