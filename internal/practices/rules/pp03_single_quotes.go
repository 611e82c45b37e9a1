package practicerules

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP03",
		Name:        "single-quotes",
		Group:       "style",
		Description: "Prefer single quotes for static strings",
		Severity:    practices.SeverityInfo,
		Check:       checkSingleQuotes,

		Rationale: `Double quotes signal interpolation. Using them for static text makes readers look
for variables that are not there.`,

		BadExample:  `file { "/etc/motd": ensure => "file" }`,
		GoodExample: `file { '/etc/motd': ensure => 'file' }`,
		Fix:         "Replace with single quotes unless the string contains variables or escapes.",
	})
}

var doubleQuoted = regexp.MustCompile(`"([^$"]*)"`)

// checkSingleQuotes reports each double-quoted string on a line that has no
// variable or escape anywhere.
func checkSingleQuotes(f *practices.File, _ practices.Options) []practices.Issue {
	var issues []practices.Issue

	for i, line := range f.Lines() {
		if strings.ContainsAny(line, `$\`) {
			continue
		}
		for range doubleQuoted.FindAllString(line, -1) {
			issues = append(issues, practices.Issue{
				Line:       i + 1,
				Severity:   practices.SeverityInfo,
				Message:    "Prefer single quotes for static strings",
				Suggestion: "Replace with single quotes unless string contains variables or escapes",
			})
		}
	}

	return issues
}
