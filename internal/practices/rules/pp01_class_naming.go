package practicerules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func init() {
	practices.Register(practices.RuleDef{
		ID:          "PP01",
		Name:        "class-naming",
		Group:       "naming",
		Description: "Class name segments must be lowercase with underscores",
		Severity:    practices.SeverityWarning,
		Check:       checkClassNaming,

		Rationale: `Puppet resolves class names to module paths on disk. Segments with capitals or
leading digits do not map to valid module directories and break autoloading.`,

		BadExample: `class MyApp::WebServer {
}`,

		GoodExample: `class my_app::web_server {
}`,

		Fix: "Rename the class and its manifest path to snake_case segments.",
	})
}

var classDecl = regexp.MustCompile(`(?m)^class\s+([A-Za-z0-9_][A-Za-z0-9_:]*)\s*(?:\(|\s*\{)`)

// checkClassNaming flags declared classes whose segments are not snake_case.
func checkClassNaming(f *practices.File, _ practices.Options) []practices.Issue {
	var issues []practices.Issue

	for _, m := range classDecl.FindAllStringSubmatchIndex(f.Content, -1) {
		name := f.Content[m[2]:m[3]]
		for _, part := range strings.Split(name, "::") {
			if identifier.MatchString(part) {
				continue
			}
			issues = append(issues, practices.Issue{
				Line:       f.LineAt(m[0]),
				Severity:   practices.SeverityWarning,
				Message:    fmt.Sprintf("Class name '%s' should use lowercase with underscores", name),
				Suggestion: fmt.Sprintf("Rename to: %s", snakeClassName(name)),
			})
			break
		}
	}

	return issues
}
