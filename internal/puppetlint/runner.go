// Package puppetlint runs the external puppet-lint tool and parses its output
// into structured results.
//
// puppet-lint is invoked with a fixed log format of six colon-separated
// fields (path, line, column, kind, check, message), so parsing does not
// depend on its human-readable output.
package puppetlint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBinary  = "puppet-lint"
	DefaultTimeout = 2 * time.Minute
	RCFile         = ".puppet-lint.rc"
	LogFormat      = "%{path}:%{line}:%{column}:%{kind}:%{check}:%{message}"
)

// ErrNotInstalled is returned when the puppet-lint binary cannot be found.
var ErrNotInstalled = errors.New("puppet-lint not found (install with: gem install puppet-lint)")

// Runner invokes puppet-lint.
type Runner struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary sets the puppet-lint executable name or path.
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithTimeout bounds a single run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for DefaultBinary unless overridden.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOptions controls one invocation.
type RunOptions struct {
	// Fix lets puppet-lint rewrite files in place.
	Fix bool
	// Config is the .puppet-lint.rc to use. Empty means search upward from
	// the target with FindRC.
	Config string
}

// Available reports whether the binary can be found.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Args returns the argument list for a run over target.
func (r *Runner) Args(target string, opts RunOptions) []string {
	var args []string
	if opts.Fix {
		args = append(args, "--fix")
	}
	if opts.Config != "" {
		args = append(args, "--config", opts.Config)
	}
	return append(args, "--relative", "--log-format", LogFormat, target)
}

// Run lints target and returns the parsed results. A non-zero exit status
// from puppet-lint is expected when problems are found and is not an error
// on its own.
func (r *Runner) Run(ctx context.Context, target string, opts RunOptions) ([]Result, error) {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, r.binary)
	}
	if _, err := os.Stat(target); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if opts.Config == "" {
		if rc, ok := FindRC(target); ok {
			opts.Config = rc
		}
	}
	if opts.Config != "" {
		r.logger.Info("using puppet-lint config", "path", opts.Config)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := r.Args(target, opts)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	r.logger.Debug("puppet-lint finished",
		"args", strings.Join(args, " "),
		"duration", time.Since(start),
		"error", runErr,
	)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("puppet-lint interrupted: %w", ctx.Err())
	}

	results, err := Parse(&stdout, opts.Fix)
	if err != nil {
		return nil, err
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		if len(results) == 0 && stderr.Len() > 0 {
			return nil, fmt.Errorf("puppet-lint exited with status %d: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
	default:
		return nil, fmt.Errorf("failed to run puppet-lint: %w", runErr)
	}

	return results, nil
}

// FindRC searches for RCFile in target's directory (or target itself when it
// is a directory) and each parent up to the filesystem root.
func FindRC(target string) (string, bool) {
	dir, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, RCFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
