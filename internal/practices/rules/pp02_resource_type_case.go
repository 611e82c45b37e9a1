package practicerules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP02",
		Name:        "resource-type-case",
		Group:       "naming",
		Description: "Resource types must be lowercase",
		Severity:    practices.SeverityWarning,
		Check:       checkResourceTypeCase,

		Rationale: `Resource types are lowercase identifiers. A capitalized first letter turns a
declaration into a resource default; mixed case elsewhere is a typo that fails compilation.`,

		BadExample: `pacKage { 'nginx':
  ensure => installed,
}`,

		GoodExample: `package { 'nginx':
  ensure => installed,
}`,
	})
}

// checkResourceTypeCase flags declarations like "myType {". Capitalized
// types ("File {") are resource defaults and are left alone.
func checkResourceTypeCase(f *practices.File, _ practices.Options) []practices.Issue {
	var issues []practices.Issue

	for i, line := range f.Lines() {
		m := resourceDecl.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		typ := m[1]
		if typ[0] < 'a' || typ[0] > 'z' || identifier.MatchString(typ) {
			continue
		}
		issues = append(issues, practices.Issue{
			Line:       i + 1,
			Severity:   practices.SeverityWarning,
			Message:    fmt.Sprintf("Resource type '%s' should use lowercase", typ),
			Suggestion: fmt.Sprintf("Use: %s", strings.ToLower(typ)),
		})
	}

	return issues
}
