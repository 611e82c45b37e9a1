package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/cli/output"
	"github.com/leapstack-labs/puppetlens/internal/tracer"
)

// TraceOptions holds options for the trace command.
type TraceOptions struct {
	File        string
	All         bool
	Interactive bool
	Format      string
	Out         string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand() *cobra.Command {
	opts := &TraceOptions{}
	cmd := &cobra.Command{
		Use:   "trace [message]",
		Short: "Explain a Puppet error and suggest fixes",
		Long: `Classify a Puppet error message against known problems.

The message is matched against a table of common failures (duplicate
declarations, undefined variables, dependency cycles, missing files, syntax
errors, Hiera lookups, catalog compilation, packages and permissions). The
analysis names the likely cause, lists suggestions and extracts manifest
locations mentioned in the message.

With --file, error lines are extracted from a Puppet log and the first one is
analyzed (all of them with --all). With --interactive, paste messages at the
prompt; a blank line analyzes what was pasted.`,
		Example: `  # Analyze one message
  puppetlens trace "Error: Found 1 dependency cycle"

  # Analyze the first error in an agent log
  puppetlens trace --file /var/log/puppetlabs/puppet/agent.log

  # Paste errors interactively
  puppetlens trace -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.Interactive:
				return runTraceREPL(cmd, tracer.DefaultDatabase())
			case opts.File != "":
				return runTraceFile(cmd, opts)
			case len(args) == 1:
				return runTrace(cmd, []string{args[0]}, opts)
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "Read errors from a log file")
	cmd.Flags().BoolVar(&opts.All, "all", false, "With --file, analyze every error instead of the first")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Paste errors at a prompt")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write analysis to file")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

func runTraceFile(cmd *cobra.Command, opts *TraceOptions) error {
	f, err := os.Open(opts.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s", opts.File)
		}
		return fmt.Errorf("failed to open %s: %w", opts.File, err)
	}
	defer func() { _ = f.Close() }()

	messages, err := tracer.ExtractErrors(f)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No errors found in file.")
		return nil
	}
	if !opts.All {
		messages = messages[:1]
	}
	return runTrace(cmd, messages, opts)
}

func runTrace(cmd *cobra.Command, messages []string, opts *TraceOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)

	db := tracer.DefaultDatabase()
	analyses := make([]*tracer.Analysis, len(messages))
	for i, m := range messages {
		analyses[i] = db.Analyze(m)
		cmdCtx.Logger.Debug("classified error", "type", analyses[i].Type, "severity", analyses[i].Severity)
	}

	return emit(cmdCtx.Renderer, opts.Out, traceWriter(analyses))
}

// traceWriter renders analyses as markdown separated by rules, or as JSON.
// A single analysis is encoded as an object, several as an array.
func traceWriter(analyses []*tracer.Analysis) docWriter {
	return func(w io.Writer, mode output.Mode) error {
		if mode == output.ModeJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if len(analyses) == 1 {
				return enc.Encode(analyses[0])
			}
			return enc.Encode(analyses)
		}
		for i, a := range analyses {
			if i > 0 {
				if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, a.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

// traceSession accumulates pasted lines until a blank line or end of input.
type traceSession struct {
	db    *tracer.Database
	lines []string
}

// Feed adds one line. A blank line with pending input returns the analysis
// of everything pasted since the last one.
func (s *traceSession) Feed(line string) *tracer.Analysis {
	if strings.TrimSpace(line) != "" {
		s.lines = append(s.lines, line)
		return nil
	}
	return s.Flush()
}

// Flush analyzes pending input, if any.
func (s *traceSession) Flush() *tracer.Analysis {
	if len(s.lines) == 0 {
		return nil
	}
	msg := strings.Join(s.lines, "\n")
	s.lines = nil
	return s.db.Analyze(msg)
}

// Reset drops pending input.
func (s *traceSession) Reset() {
	s.lines = nil
}
