// Package tracer classifies Puppet error messages against a static table of
// known problems and suggests fixes.
package tracer

import (
	"fmt"
	"regexp"
)

// IssueClass is one known kind of Puppet failure.
type IssueClass struct {
	// Key is the snake_case identifier, e.g. "dependency_cycle".
	Key         string
	Patterns    []*regexp.Regexp
	Cause       string
	Suggestions []string
	Critical    bool
}

// Database is an ordered, immutable list of issue classes. The first class
// with a matching pattern wins.
type Database struct {
	classes []IssueClass
}

// NewDatabase builds a database from classes in match order.
func NewDatabase(classes ...IssueClass) *Database {
	return &Database{classes: append([]IssueClass(nil), classes...)}
}

// Classes returns the issue classes in match order.
func (db *Database) Classes() []IssueClass {
	return append([]IssueClass(nil), db.classes...)
}

// MustClass builds an IssueClass whose patterns match case-insensitively.
// It panics if a pattern does not compile.
func MustClass(key, cause string, critical bool, exprs []string, suggestions ...string) IssueClass {
	ps := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		p, err := regexp.Compile("(?i)" + e)
		if err != nil {
			panic(fmt.Sprintf("tracer: bad pattern for %s: %v", key, err))
		}
		ps[i] = p
	}
	return IssueClass{
		Key:         key,
		Patterns:    ps,
		Cause:       cause,
		Suggestions: suggestions,
		Critical:    critical,
	}
}

var defaultDatabase = NewDatabase(
	MustClass("duplicate_declaration",
		"The same resource is being declared multiple times in the catalog.",
		false,
		[]string{`is already declared`, `cannot reassign`, `Duplicate declaration`},
		"Check if the resource is declared in multiple classes or manifests",
		"Use resource collectors or virtual resources if you need multiple declarations",
		"Add a unique name or title variant using namevar",
		"Review include/require chains that might cause duplicate compilation",
	),
	MustClass("undefined_variable",
		"A variable or parameter is being used but hasn't been defined.",
		false,
		[]string{`undefined variable`, `Unknown variable`, `parameter.*not provided`},
		"Check the variable name for typos",
		"Ensure the parameter is defined in the class signature",
		"Verify the variable is set in Hiera data with correct key",
		"Check variable scope - top-scope vs. class scope",
		"Use $::variable for fully qualified top-scope access",
	),
	MustClass("dependency_cycle",
		"Resources or classes have circular dependencies through require/contain/include.",
		true,
		[]string{`dependency cycle`, `circular dependency`, `found a cycle`},
		"Review the dependency chain shown in the error",
		"Break the cycle by removing one dependency relationship",
		"Use chaining arrows (-> ~>) to make ordering explicit",
		"Consider if all dependencies are necessary - Puppet is declarative",
		"Run 'puppetlens deps' to list every class-level cycle",
	),
	MustClass("file_not_found",
		"Puppet cannot locate a referenced file or template.",
		false,
		[]string{`could not find file`, `No such file or directory`, `template.*not found`},
		"Check the file path is correct relative to module path",
		"Verify the file exists in the module's files/ or templates/ directory",
		"Use the 'puppet:///modules/<module>/<file>' source syntax",
		"Check for case sensitivity issues (Linux is case-sensitive)",
		"Ensure the module is installed and in the modulepath",
	),
	MustClass("syntax_error",
		"Puppet manifest has invalid syntax.",
		true,
		[]string{`syntax error`, `unexpected`, `expected.*got`},
		"Check for missing braces, brackets, or parentheses",
		"Ensure proper comma separation in arrays and parameters",
		"Verify quoted strings are closed",
		"Run puppet-lint to catch syntax issues before applying",
		"Check line number in error for exact location",
	),
	MustClass("hiera_lookup_failure",
		"Hiera lookup failed to find the requested key.",
		false,
		[]string{`key not found`, `Hiera data not found`, `no key.*in data`},
		"Verify the key exists in Hiera data files",
		"Check hiera.yaml hierarchy configuration",
		"Ensure the correct environment/layer is being used",
		"Pass a default value: lookup('key', undef, undef, 'default')",
		"Check YAML syntax in Hiera data files (use yamllint)",
	),
	MustClass("catalog_compilation_failed",
		"General catalog compilation failure - usually a syntax or dependency issue.",
		false,
		[]string{`could not compile catalog`, `catalog compilation failed`, `failed to compile`},
		"Review the full error output for specific cause",
		"Check for syntax errors with puppet parser validate",
		"Run puppet-lint on modified manifests",
		"Test with --noop to see changes without applying",
		"Check for missing dependencies or broken module paths",
	),
	MustClass("package_not_installed",
		"Package manager cannot find the specified package.",
		false,
		[]string{`package.*not installed`, `package provider.*not found`, `could not find package`},
		"Verify package name is correct for the target OS",
		"Check the package repository is configured",
		"Ensure the package provider is correct (apt, yum, etc.)",
		"Use package resource with 'ensure => installed' for idempotency",
		"Test package name with: apt-cache search <package> or yum search <package>",
	),
	MustClass("permission_denied",
		"Puppet or the target resource has insufficient permissions.",
		false,
		[]string{`permission denied`, `could not create.*permission`, `access denied`},
		"Check Puppet agent is running with sufficient privileges (usually root)",
		"Verify file/directory permissions allow Puppet to modify",
		"Review exec resources - user/group might lack permissions",
		"Check SELinux/AppArmor contexts if applicable",
		"Ensure parent directories allow traversal",
	),
)

// DefaultDatabase returns the built-in issue table.
func DefaultDatabase() *Database {
	return defaultDatabase
}
