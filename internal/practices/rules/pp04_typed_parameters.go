package practicerules

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP04",
		Name:        "typed-parameters",
		Group:       "parameters",
		Description: "Parameters should declare a data type",
		Severity:    practices.SeverityInfo,
		Check:       checkTypedParameters,

		Rationale: `Typed parameters fail fast at compile time with a clear message instead of
misbehaving deep inside a resource.`,

		BadExample: `class ntp (
  $servers = [],
) {}`,

		GoodExample: `class ntp (
  Array[String] $servers = [],
) {}`,

		Fix: "Prefix the parameter with its data type, e.g. 'String $name ='.",
	})
}

// untypedParam matches "$name =" at the start of a line, but not "==", "=>"
// or "=~".
var untypedParam = regexp.MustCompile(`(?m)^\s*(\$\w+)\s*=(?:[^=>~]|$)`)

// checkTypedParameters flags assignments that start a line with a bare
// variable. Without a grammar this also catches plain variable assignments
// in class bodies.
func checkTypedParameters(f *practices.File, _ practices.Options) []practices.Issue {
	var issues []practices.Issue

	for _, m := range untypedParam.FindAllStringSubmatchIndex(f.Content, -1) {
		issues = append(issues, practices.Issue{
			Line:       f.LineAt(m[2]),
			Severity:   practices.SeverityInfo,
			Message:    fmt.Sprintf("Parameter '%s' should have a type specification", f.Content[m[2]:m[3]]),
			Suggestion: "Add type: e.g., 'String $param_name ='",
		})
	}

	return issues
}
