package practicerules

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP05",
		Name:        "legacy-hiera",
		Group:       "hiera",
		Description: "Use automatic parameter lookup instead of hiera()",
		Severity:    practices.SeverityWarning,
		Check:       checkLegacyHiera,

		Rationale: `The hiera() function family is deprecated. Automatic class parameter lookup
keeps data bindings declarative and visible in the class signature.`,

		BadExample: `$port = hiera('nginx::port', 80)`,

		GoodExample: `class nginx (
  Integer $port = 80,
) {}
# hieradata: nginx::port: 8080`,

		Fix: "Move the key into a class parameter, or call lookup() where a parameter does not fit.",
	})
}

var hieraCall = regexp.MustCompile(`hiera\(\s*['"]([^'"]+)['"]\s*,\s*([^)]+)\)`)

// checkLegacyHiera flags hiera('key', default) calls.
func checkLegacyHiera(f *practices.File, _ practices.Options) []practices.Issue {
	var issues []practices.Issue

	for _, m := range hieraCall.FindAllStringSubmatchIndex(f.Content, -1) {
		key := f.Content[m[2]:m[3]]
		issues = append(issues, practices.Issue{
			Line:       f.LineAt(m[0]),
			Severity:   practices.SeverityWarning,
			Message:    "Use automatic parameter lookup instead of hiera() function",
			Suggestion: fmt.Sprintf("Bind '%s' to a class parameter, or use lookup('%s')", key, key),
		})
	}

	return issues
}
