package output

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	ColorAccent  = lipgloss.Color("#7D56F4")
	ColorClass   = lipgloss.Color("#5FAFD7")
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorInfo    = lipgloss.Color("#3498DB")
	ColorMuted   = lipgloss.Color("#6C7A89")
)

// Styles are the text-mode styles bound to one output.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Header3   lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	ClassName lipgloss.Style
}

// NewStyles builds styles whose color profile follows re's output.
func NewStyles(re *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:   re.NewStyle().Bold(true).Foreground(ColorAccent),
		Header2:   re.NewStyle().Bold(true).Underline(true),
		Header3:   re.NewStyle().Bold(true),
		Bold:      re.NewStyle().Bold(true),
		Muted:     re.NewStyle().Foreground(ColorMuted),
		Success:   re.NewStyle().Foreground(ColorSuccess),
		Warning:   re.NewStyle().Foreground(ColorWarning),
		Error:     re.NewStyle().Bold(true).Foreground(ColorError),
		Info:      re.NewStyle().Foreground(ColorInfo),
		ClassName: re.NewStyle().Foreground(ColorClass),
	}
}

// Header returns the style for a header level.
func (s *Styles) Header(level int) lipgloss.Style {
	switch level {
	case 1:
		return s.Header1
	case 2:
		return s.Header2
	default:
		return s.Header3
	}
}

// Severity returns the style for a severity name.
func (s *Styles) Severity(name string) lipgloss.Style {
	switch strings.ToLower(name) {
	case "critical", "error":
		return s.Error
	case "warning", "warn":
		return s.Warning
	case "info":
		return s.Info
	default:
		return s.Muted
	}
}

var (
	boldSpan = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	codeSpan = regexp.MustCompile("`([^`]+)`")
)

// MarkdownLine styles one line of markdown for a terminal.
func (s *Styles) MarkdownLine(line string) string {
	switch {
	case strings.HasPrefix(line, "### "):
		return s.Header3.Render(strings.TrimPrefix(line, "### "))
	case strings.HasPrefix(line, "## "):
		return s.Header2.Render(strings.TrimPrefix(line, "## "))
	case strings.HasPrefix(line, "# "):
		return s.Header1.Render(strings.TrimPrefix(line, "# "))
	}

	line = boldSpan.ReplaceAllStringFunc(line, func(m string) string {
		return s.Bold.Render(m[2 : len(m)-2])
	})
	return codeSpan.ReplaceAllStringFunc(line, func(m string) string {
		return s.Muted.Render(m[1 : len(m)-1])
	})
}
