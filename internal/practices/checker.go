package practices

import (
	"log/slog"
	"os"
	"sort"
)

// Checker runs the registered rules over manifests.
type Checker struct {
	config *Config
	rules  []RuleDef
	logger *slog.Logger
}

// NewChecker creates a checker with the enabled rules from the global registry.
// A nil config enables every rule with default options.
func NewChecker(config *Config, logger *slog.Logger) *Checker {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var rules []RuleDef
	for _, rule := range GetAll() {
		if config.IsDisabled(rule.ID) {
			logger.Debug("rule disabled", "rule", rule.ID)
			continue
		}
		rules = append(rules, rule)
	}
	return &Checker{config: config, rules: rules, logger: logger}
}

// Rules returns the enabled rules, sorted by ID.
func (c *Checker) Rules() []RuleDef {
	return append([]RuleDef(nil), c.rules...)
}

// Check runs every enabled rule over f. Issues come back in rule order, then
// in the order each rule found them.
func (c *Checker) Check(f *File) []Issue {
	opts := c.config.Options
	if opts.PackageThreshold <= 0 {
		opts.PackageThreshold = DefaultPackageThreshold
	}

	var issues []Issue
	for _, rule := range c.rules {
		sev := c.config.GetSeverity(rule.ID, rule.Severity)
		for _, issue := range rule.Check(f, opts) {
			issue.RuleID = rule.ID
			issue.Severity = sev
			if issue.Category == "" {
				issue.Category = rule.Group
			}
			if issue.File == "" {
				issue.File = f.Path
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

// CheckFiles reads and checks each path. Unreadable files are logged and
// skipped.
func (c *Checker) CheckFiles(paths []string) []Issue {
	var issues []Issue
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("skipping manifest", "path", path, "error", err)
			continue
		}
		issues = append(issues, c.Check(NewFile(path, string(content)))...)
	}
	c.logger.Info("best practice check complete", "files", len(paths), "issues", len(issues))
	return issues
}

// CountBySeverity tallies issues per severity.
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, i := range issues {
		counts[i.Severity]++
	}
	return counts
}

// SortIssues orders issues by file, line, then rule ID.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})
}
