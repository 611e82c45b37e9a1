package tracer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity of an analysis.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// MaxMessageLen is the number of characters of the input kept in an Analysis.
const MaxMessageLen = 200

// UnknownType is the Type of an analysis that matched no issue class.
const UnknownType = "Unknown Error"

var unknownSuggestions = []string{
	"Review the full error message for specific details",
	"Search the error message in Puppet documentation",
	"Check Puppet logs for additional context",
	"Run with --debug flag for more detailed output",
}

// relatedFile matches manifest locations such as "at /etc/puppet/site.pp:12".
var relatedFile = regexp.MustCompile(`at ([^\s:]+\.pp:\d+)`)

// Analysis is the diagnosis of one error message.
type Analysis struct {
	Type         string   `json:"type"`
	Key          string   `json:"key,omitempty"`
	Severity     string   `json:"severity"`
	Message      string   `json:"message"`
	Cause        string   `json:"cause"`
	Suggestions  []string `json:"suggestions"`
	RelatedFiles []string `json:"related_files,omitempty"`
}

// Known reports whether the message matched an issue class.
func (a *Analysis) Known() bool {
	return a.Key != ""
}

// Analyze classifies message. It never fails: unmatched messages get an
// "Unknown Error" analysis with generic advice.
func (db *Database) Analyze(message string) *Analysis {
	a := &Analysis{
		Type:        UnknownType,
		Severity:    SeverityInfo,
		Message:     truncate(message, MaxMessageLen),
		Cause:       "This error doesn't match known patterns in the database.",
		Suggestions: unknownSuggestions,
	}

	class, ok := db.match(message)
	if !ok {
		return a
	}

	a.Type = cases.Title(language.English).String(strings.ReplaceAll(class.Key, "_", " "))
	a.Key = class.Key
	a.Severity = SeverityWarning
	if class.Critical {
		a.Severity = SeverityCritical
	}
	a.Cause = class.Cause
	a.Suggestions = class.Suggestions
	a.RelatedFiles = relatedFiles(message)
	return a
}

func (db *Database) match(message string) (IssueClass, bool) {
	for _, class := range db.classes {
		for _, p := range class.Patterns {
			if p.MatchString(message) {
				return class, true
			}
		}
	}
	return IssueClass{}, false
}

// relatedFiles returns distinct "file.pp:line" references in first-seen order.
func relatedFiles(message string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, m := range relatedFile.FindAllStringSubmatch(message, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			files = append(files, m[1])
		}
	}
	return files
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// String renders the analysis as markdown.
func (a *Analysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Error Analysis: %s\n", a.Type)
	fmt.Fprintf(&b, "\n**Severity**: %s\n", strings.ToUpper(a.Severity))
	fmt.Fprintf(&b, "\n### Cause\n%s\n", a.Cause)
	b.WriteString("\n### Suggestions\n")
	for i, s := range a.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	if len(a.RelatedFiles) > 0 {
		b.WriteString("\n### Related Files\n")
		for _, f := range a.RelatedFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}

// logPatterns find error lines in Puppet agent and server logs. They are
// applied in order, so all "Error:" lines come before "err:" lines.
var logPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Error:.*`),
	regexp.MustCompile(`err:.*`),
	regexp.MustCompile(`Failure:.*`),
	regexp.MustCompile(`Warning:.*`),
}

// ExtractErrors pulls error, failure and warning messages from a log.
func ExtractErrors(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	var errs []string
	for _, p := range logPatterns {
		for _, line := range lines {
			if m := p.FindString(line); m != "" {
				errs = append(errs, strings.TrimRight(m, "\r"))
			}
		}
	}
	return errs, nil
}
