package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/puppetlens/internal/manifest"
	"github.com/leapstack-labs/puppetlens/internal/practices"
	"github.com/leapstack-labs/puppetlens/internal/report"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output: unknown mode %q (want one of %s)",
			c.OutputFormat, strings.Join(OutputModes, ", ")))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("analysis.workers: must not be negative, got %d", c.Analysis.Workers))
	}
	if !strings.HasPrefix(c.Analysis.Extension, ".") {
		errs = append(errs, fmt.Errorf("analysis.extension: %q must start with a dot", c.Analysis.Extension))
	}

	if _, err := manifest.DefaultSyntax().With(c.Syntax); err != nil {
		errs = append(errs, fmt.Errorf("syntax: %w", err))
	}

	if !report.Direction(c.Diagram.Direction).Valid() {
		errs = append(errs, fmt.Errorf("diagram.direction: unknown direction %q (want TD or LR)", c.Diagram.Direction))
	}

	if c.Practices.PackageThreshold < 0 {
		errs = append(errs, fmt.Errorf("practices.package_threshold: must not be negative, got %d",
			c.Practices.PackageThreshold))
	}
	for id, sev := range c.Practices.Severity {
		if _, ok := practices.ParseSeverity(sev); !ok {
			errs = append(errs, fmt.Errorf("practices.severity.%s: unknown severity %q", id, sev))
		}
	}

	return errors.Join(errs...)
}

// ParseLevel converts a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}
