package config

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/analyzer"
	"github.com/leapstack-labs/puppetlens/internal/manifest"
	"github.com/leapstack-labs/puppetlens/internal/practices"
	"github.com/leapstack-labs/puppetlens/internal/report"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// NewLogger builds the CLI logger. Verbose forces debug level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// AnalyzerOptions translates the analysis and syntax sections.
func (c *Config) AnalyzerOptions(logger *slog.Logger) (analyzer.Options, error) {
	syntax, err := manifest.DefaultSyntax().With(c.Syntax)
	if err != nil {
		return analyzer.Options{}, err
	}
	return analyzer.Options{
		Extension:        c.Analysis.Extension,
		Exclude:          c.Analysis.Exclude,
		RespectGitignore: c.Analysis.Gitignore,
		Workers:          c.Analysis.Workers,
		Syntax:           syntax,
		Logger:           logger,
	}, nil
}

// MermaidOptions translates the diagram section.
func (c *Config) MermaidOptions() report.MermaidOptions {
	return report.MermaidOptions{
		Direction: report.Direction(c.Diagram.Direction),
		Arrows:    report.DefaultArrows(),
	}
}

// PracticesConfig translates the practices section. Unknown severities are
// ignored; Validate reports them.
func (c *Config) PracticesConfig() *practices.Config {
	pc := practices.NewConfig()
	for _, id := range c.Practices.Disabled {
		pc.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}
	for id, s := range c.Practices.Severity {
		if sev, ok := practices.ParseSeverity(s); ok {
			pc.SetSeverity(strings.ToUpper(id), sev)
		}
	}
	pc.Options.PackageThreshold = c.Practices.PackageThreshold
	return pc
}
