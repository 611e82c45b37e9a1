package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/tracer"
)

const (
	tracePrompt     = "trace> "
	traceContPrompt = "  ...> "
	separator       = "============================================================"
)

// historyFile returns the REPL history path, or "" when no cache directory
// is available.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "puppetlens")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "trace_history")
}

func runTraceREPL(cmd *cobra.Command, db *tracer.Database) error {
	out := cmd.OutOrStdout()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          tracePrompt,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          out,
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(out, "=== Puppet Error Tracer - Interactive Mode ===")
	_, _ = fmt.Fprintln(out, "Paste error messages, then an empty line to analyze (Ctrl+D to exit)")
	_, _ = fmt.Fprintln(out)

	session := &traceSession{db: db}
	show := func(a *tracer.Analysis) {
		_, _ = fmt.Fprintf(out, "\n%s\n%s%s\n\n", separator, a, separator)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Reset()
			rl.SetPrompt(tracePrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			if a := session.Flush(); a != nil {
				show(a)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if a := session.Feed(line); a != nil {
			show(a)
			rl.SetPrompt(tracePrompt)
			continue
		}
		if len(session.lines) > 0 {
			rl.SetPrompt(traceContPrompt)
		}
	}
}
