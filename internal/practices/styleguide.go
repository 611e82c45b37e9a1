package practices

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// GeneralSection holds bullets that appear before the first heading.
const GeneralSection = "general"

// StyleGuide is a team style guide loaded from markdown. Level-two (or
// deeper) headings start a section; "-" bullets are rules of that section.
type StyleGuide struct {
	Sections []StyleSection `json:"sections"`
}

// StyleSection is one heading of a style guide and its rules.
type StyleSection struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

// RuleCount returns the total number of rules across sections.
func (g *StyleGuide) RuleCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, s := range g.Sections {
		n += len(s.Rules)
	}
	return n
}

// ParseStyleGuide reads a markdown style guide. Section names are lowercased.
// Sections without rules are dropped; repeated headings are merged.
func ParseStyleGuide(r io.Reader) (*StyleGuide, error) {
	guide := &StyleGuide{}
	index := make(map[string]int)
	current := GeneralSection

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "##"):
			current = strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
		case strings.HasPrefix(trimmed, "-"):
			rule := strings.TrimSpace(strings.TrimLeft(trimmed, "-"))
			if rule == "" {
				continue
			}
			i, ok := index[current]
			if !ok {
				i = len(guide.Sections)
				index[current] = i
				guide.Sections = append(guide.Sections, StyleSection{Name: current})
			}
			guide.Sections[i].Rules = append(guide.Sections[i].Rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read style guide: %w", err)
	}
	return guide, nil
}

// LoadStyleGuide parses the style guide at path.
func LoadStyleGuide(path string) (*StyleGuide, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open style guide: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseStyleGuide(f)
}
