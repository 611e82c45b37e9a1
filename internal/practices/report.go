package practices

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxInfoPerCategory caps the info issues listed for one category.
const MaxInfoPerCategory = 5

// Report is the result of a best-practice run.
type Report struct {
	Target     string      `json:"target"`
	Issues     []Issue     `json:"issues"`
	StyleGuide *StyleGuide `json:"style_guide,omitempty"`
}

// ByCategory groups issues by category. Categories are returned sorted.
func (r *Report) ByCategory() ([]string, map[string][]Issue) {
	groups := make(map[string][]Issue)
	for _, i := range r.Issues {
		groups[i.Category] = append(groups[i.Category], i)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, groups
}

// WriteMarkdown writes the grouped markdown report. Per category, critical
// and warning issues are always listed; info issues only when the category
// has nothing more severe, capped at MaxInfoPerCategory.
func (r *Report) WriteMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)
	title := cases.Title(language.English)

	if len(r.Issues) == 0 {
		fmt.Fprintf(bw, "✅ No best practice violations found in %s\n", r.Target)
	} else {
		fmt.Fprintf(bw, "## Puppet Best Practices Check: %s\n", r.Target)

		categories, groups := r.ByCategory()
		for _, category := range categories {
			bySev := make(map[Severity][]Issue)
			for _, i := range groups[category] {
				bySev[i.Severity] = append(bySev[i.Severity], i)
			}
			critical, warnings, info := bySev[SeverityCritical], bySev[SeverityWarning], bySev[SeverityInfo]

			if len(critical) > 0 {
				fmt.Fprintf(bw, "\n### %s - CRITICAL\n", strings.ToUpper(category))
				writeIssues(bw, critical, true)
			}
			if len(warnings) > 0 {
				fmt.Fprintf(bw, "\n### %s - WARNING\n", title.String(category))
				writeIssues(bw, warnings, true)
			}
			if len(info) > 0 && len(critical) == 0 && len(warnings) == 0 {
				fmt.Fprintf(bw, "\n### %s - INFO\n", title.String(category))
				if len(info) > MaxInfoPerCategory {
					info = info[:MaxInfoPerCategory]
				}
				writeIssues(bw, info, false)
			}
		}
	}

	if n := r.StyleGuide.RuleCount(); n > 0 {
		fmt.Fprintf(bw, "\n### Style Guide (%d rules)\n", n)
		for _, s := range r.StyleGuide.Sections {
			fmt.Fprintf(bw, "\n**%s**:\n", title.String(s.Name))
			for _, rule := range s.Rules {
				fmt.Fprintf(bw, "- %s\n", rule)
			}
		}
	}

	return bw.Flush()
}

func writeIssues(w io.Writer, issues []Issue, suggestions bool) {
	for _, i := range issues {
		fmt.Fprintf(w, "- **%s** at `%s`\n", i.Message, i.Location())
		if suggestions && i.Suggestion != "" {
			fmt.Fprintf(w, "  💡 %s\n", i.Suggestion)
		}
	}
}

// WriteJSON writes the issues as an indented JSON array.
func (r *Report) WriteJSON(w io.Writer) error {
	issues := r.Issues
	if issues == nil {
		issues = []Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}
