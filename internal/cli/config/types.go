// Package config provides configuration management for the puppetlens CLI.
//
// Configuration is layered with koanf: built-in defaults, then a
// puppetlens.yaml file, then PUPPETLENS_* environment variables, then
// explicitly set command-line flags.
package config

import (
	"github.com/leapstack-labs/puppetlens/internal/manifest"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool               `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat string             `koanf:"output" yaml:"output" json:"output,omitempty"`
	LogLevel     string             `koanf:"log_level" yaml:"log_level" json:"log_level,omitempty"`
	Analysis     AnalysisConfig     `koanf:"analysis" yaml:"analysis" json:"analysis,omitempty"`
	Syntax       manifest.Overrides `koanf:"syntax" yaml:"syntax,omitempty" json:"syntax,omitempty"`
	Diagram      DiagramConfig      `koanf:"diagram" yaml:"diagram" json:"diagram,omitempty"`
	Practices    PracticesConfig    `koanf:"practices" yaml:"practices" json:"practices,omitempty"`
	Lint         LintConfig         `koanf:"lint" yaml:"lint" json:"lint,omitempty"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-" json:"-"`
}

// AnalysisConfig controls manifest discovery and extraction.
type AnalysisConfig struct {
	Extension string   `koanf:"extension" yaml:"extension" json:"extension,omitempty"`
	Exclude   []string `koanf:"exclude" yaml:"exclude" json:"exclude,omitempty"`
	Gitignore bool     `koanf:"gitignore" yaml:"gitignore" json:"gitignore"`
	Workers   int      `koanf:"workers" yaml:"workers" json:"workers"`
}

// DiagramConfig controls Mermaid output.
type DiagramConfig struct {
	Direction string `koanf:"direction" yaml:"direction" json:"direction,omitempty"`
}

// PracticesConfig controls the best-practice checker.
type PracticesConfig struct {
	Disabled         []string          `koanf:"disabled" yaml:"disabled" json:"disabled,omitempty"`
	Severity         map[string]string `koanf:"severity" yaml:"severity,omitempty" json:"severity,omitempty"`
	PackageThreshold int               `koanf:"package_threshold" yaml:"package_threshold" json:"package_threshold"`
	StyleGuide       string            `koanf:"style_guide" yaml:"style_guide,omitempty" json:"style_guide,omitempty"`
}

// LintConfig controls the puppet-lint wrapper.
type LintConfig struct {
	Binary string `koanf:"binary" yaml:"binary" json:"binary,omitempty"`
	Config string `koanf:"config" yaml:"config,omitempty" json:"config,omitempty"`
}

// Default configuration values.
const (
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	DefaultDirection = "TD"
	DefaultWorkers   = 1
	DefaultBinary    = "puppet-lint"
)

// Config file names searched for, in order.
var configFileNames = []string{"puppetlens.yaml", "puppetlens.yml"}

// OutputModes lists the accepted values of the output option.
var OutputModes = []string{"auto", "text", "markdown", "json"}
