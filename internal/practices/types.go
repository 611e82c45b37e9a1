// Package practices checks Puppet manifests against style and best-practice
// rules.
//
// Rules are data-driven RuleDef values registered from init() functions in
// the rules subpackage. A Checker runs every enabled rule over each file and
// applies the severity overrides of its Config. Like the dependency
// extractor, rules work on raw text with regular expressions and do not
// parse the Puppet grammar.
package practices

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of an issue.
type Severity int

// Severity levels, most severe first.
const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
)

// Severities lists every level, most severe first.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity. "error" is accepted as an
// alias for critical.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "error":
		return SeverityCritical, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", text)
	}
	*s = sev
	return nil
}

// =============================================================================
// Files and issues
// =============================================================================

// File is one manifest handed to the rules.
type File struct {
	Path    string
	Content string

	lines []string
}

// NewFile creates a File from its path and content.
func NewFile(path, content string) *File {
	return &File{Path: path, Content: content}
}

// Lines returns the content split into lines, without terminators.
func (f *File) Lines() []string {
	if f.lines == nil {
		f.lines = strings.Split(strings.ReplaceAll(f.Content, "\r\n", "\n"), "\n")
	}
	return f.lines
}

// LineAt returns the 1-based line number of a byte offset into Content.
func (f *File) LineAt(offset int) int {
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	return strings.Count(f.Content[:offset], "\n") + 1
}

// Issue is a best-practice violation.
type Issue struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	RuleID     string   `json:"rule"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Location renders "file:line".
func (i Issue) Location() string {
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// Options carries rule tuning values from configuration.
type Options struct {
	// PackageThreshold is the number of package resources in one file above
	// which PP06 suggests explicit ordering.
	PackageThreshold int
}

// DefaultPackageThreshold is the default for Options.PackageThreshold.
const DefaultPackageThreshold = 3

// DefaultOptions returns the default rule options.
func DefaultOptions() Options {
	return Options{PackageThreshold: DefaultPackageThreshold}
}
