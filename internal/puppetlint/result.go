package puppetlint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

// Result is one problem reported by puppet-lint.
type Result struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Kind    string `json:"severity"`
	Check   string `json:"rule_code"`
	Message string `json:"message"`
	Fixable bool   `json:"fixable"`
}

// Severity maps the puppet-lint kind onto the shared severity scale.
func (r Result) Severity() practices.Severity {
	switch r.Kind {
	case "error":
		return practices.SeverityCritical
	case "warning", "warn":
		return practices.SeverityWarning
	default:
		return practices.SeverityInfo
	}
}

// Location renders "file:line:column".
func (r Result) Location() string {
	return fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column)
}

// Parse reads puppet-lint output in LogFormat. Lines that do not have six
// fields with numeric line and column are skipped; messages may contain
// colons.
func Parse(r io.Reader, fixable bool) ([]Result, error) {
	var results []Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 6)
		if len(parts) != 6 {
			continue
		}
		lineNo, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		col, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		results = append(results, Result{
			File:    parts[0],
			Line:    lineNo,
			Column:  col,
			Kind:    strings.ToLower(parts[3]),
			Check:   parts[4],
			Message: strings.TrimSpace(parts[5]),
			Fixable: fixable,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read puppet-lint output: %w", err)
	}
	return results, nil
}

// Group splits results by severity, keeping input order within a group.
func Group(results []Result) map[practices.Severity][]Result {
	groups := make(map[practices.Severity][]Result)
	for _, r := range results {
		sev := r.Severity()
		groups[sev] = append(groups[sev], r)
	}
	return groups
}

// WriteMarkdown writes results grouped as CRITICAL, WARNING and INFO sections.
func WriteMarkdown(w io.Writer, target string, results []Result) error {
	bw := bufio.NewWriter(w)

	if len(results) == 0 {
		fmt.Fprintf(bw, "✅ No lint issues found in %s\n", target)
		return bw.Flush()
	}

	fmt.Fprintf(bw, "## Puppet Lint Analysis: %s\n", target)
	groups := Group(results)
	for _, sev := range practices.Severities {
		rs := groups[sev]
		if len(rs) == 0 {
			continue
		}
		fmt.Fprintf(bw, "\n### %s\n", strings.ToUpper(sev.String()))
		for _, r := range rs {
			fmt.Fprintf(bw, "- **%s**: %s\n  at `%s`\n", r.Check, r.Message, r.Location())
		}
	}
	return bw.Flush()
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
