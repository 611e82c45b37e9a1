package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/analyzer"
	"github.com/leapstack-labs/puppetlens/internal/cli/output"
	"github.com/leapstack-labs/puppetlens/internal/report"
)

// DepsOptions holds options for the deps command.
type DepsOptions struct {
	Mermaid   bool
	Watch     bool
	Out       string
	Format    string
	Direction string
	Debounce  time.Duration
}

// NewDepsCommand creates the deps command.
func NewDepsCommand() *cobra.Command {
	opts := &DepsOptions{}
	cmd := &cobra.Command{
		Use:     "deps [path]",
		Aliases: []string{"analyze"},
		Short:   "Analyze class dependencies",
		Long: `Build the class dependency graph of a Puppet module or manifest tree.

Every manifest below the path is scanned for its class declaration and for
include, Require, Contain, Notify and Subscribe references and chain arrows
(->, ~>, <-, <~). The report lists circular dependencies, classes that are
never referenced and each class's dependencies.

The command exits non-zero when a circular dependency is found.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)
  - JSON: Machine-readable format`,
		Example: `  # Analyze the current directory
  puppetlens deps

  # Analyze a module and draw a Mermaid diagram
  puppetlens deps modules/web --mermaid

  # Left-to-right diagram written to a file
  puppetlens deps modules --mermaid --direction LR --out deps.mmd

  # Re-run whenever a manifest changes
  puppetlens deps modules --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, targetArg(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Mermaid, "mermaid", false, "Output a Mermaid diagram")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the analysis when manifests change")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write output to file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "Diagram direction: TD, LR")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", analyzer.DefaultDebounce, "Quiet period before a watch re-run")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	_ = cmd.RegisterFlagCompletionFunc("direction", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(report.DirectionTD), string(report.DirectionLR)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runDeps(cmd *cobra.Command, target string, opts *DepsOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg

	analyzerOpts, err := cfg.AnalyzerOptions(cmdCtx.Logger)
	if err != nil {
		return err
	}
	mermaid := cfg.MermaidOptions()
	if opts.Direction != "" {
		mermaid.Direction = report.Direction(opts.Direction)
		if !mermaid.Direction.Valid() {
			return fmt.Errorf("unknown direction %q (want TD or LR)", opts.Direction)
		}
	}

	if opts.Watch {
		return watchDeps(cmd.Context(), cmdCtx, target, analyzerOpts, mermaid, opts)
	}

	a, err := analyzer.Analyze(cmd.Context(), target, analyzerOpts)
	if err != nil {
		return err
	}
	if err := emit(cmdCtx.Renderer, opts.Out, depsWriter(a, mermaid, opts.Mermaid)); err != nil {
		return err
	}
	if a.HasCycles() {
		return ErrCyclesFound
	}
	return nil
}

// depsWriter renders an analysis as a diagram, JSON or summary.
func depsWriter(a *analyzer.Analysis, mermaid report.MermaidOptions, diagram bool) docWriter {
	return func(w io.Writer, mode output.Mode) error {
		switch {
		case diagram:
			return report.WriteMermaid(w, a.Graph, mermaid)
		case mode == output.ModeJSON:
			return report.WriteJSON(w, a)
		default:
			return report.WriteSummary(w, a)
		}
	}
}

// watchDeps re-renders the analysis after every relevant change until
// interrupted. Analysis errors are reported and watching continues.
func watchDeps(ctx context.Context, cmdCtx *CommandContext, target string,
	analyzerOpts analyzer.Options, mermaid report.MermaidOptions, opts *DepsOptions,
) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r := cmdCtx.Renderer
	run := 0
	return analyzer.Watch(ctx, target, analyzerOpts, opts.Debounce, func(a *analyzer.Analysis, err error) error {
		run++
		if run > 1 && opts.Out == "" {
			r.Println("")
		}
		if err != nil {
			r.Warning(err.Error())
			return nil
		}
		if err := emit(r, opts.Out, depsWriter(a, mermaid, opts.Mermaid)); err != nil {
			return err
		}
		if a.HasCycles() {
			r.Warning(fmt.Sprintf("%d circular dependencies", len(a.Cycles)))
		}
		return nil
	})
}
