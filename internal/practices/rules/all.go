// Package practicerules registers the Puppet best-practice rules.
// Import this package to register all rules with the global registry.
package practicerules

import (
	"regexp"
	"strings"
)

// resourceDecl matches a resource declaration or default at the start of a line.
var resourceDecl = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9_]*)\s*\{`)

// identifier is a well-formed class name segment or resource type.
var identifier = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var (
	camelWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	camelLower = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// snakeCase converts a CamelCase segment to snake_case.
func snakeCase(s string) string {
	s = camelWord.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(camelLower.ReplaceAllString(s, "${1}_${2}"))
}

// snakeClassName applies snakeCase to every namespace segment of name.
func snakeClassName(name string) string {
	parts := strings.Split(name, "::")
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, "::")
}
