package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/cli/output"
	"github.com/leapstack-labs/puppetlens/internal/puppetlint"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Fix        bool
	LintConfig string
	Format     string
	Out        string
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Run puppet-lint and summarize its findings",
		Long: `Run the external puppet-lint tool and group its findings by severity.

puppet-lint must be installed (gem install puppet-lint). A .puppet-lint.rc
found in the target directory or any parent is passed to it unless
--lint-config names another file.

The command exits non-zero when puppet-lint reports anything.`,
		Example: `  # Lint the current directory
  puppetlens lint

  # Let puppet-lint fix what it can
  puppetlens lint modules/web --fix

  # Machine-readable output
  puppetlens lint modules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, targetArg(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Let puppet-lint fix problems in place")
	cmd.Flags().StringVar(&opts.LintConfig, "lint-config", "", "puppet-lint rc file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write output to file")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

func runLint(cmd *cobra.Command, target string, opts *LintOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	runner := puppetlint.NewRunner(
		puppetlint.WithBinary(cfg.Lint.Binary),
		puppetlint.WithLogger(cmdCtx.Logger),
	)

	rc := cfg.Lint.Config
	if opts.LintConfig != "" {
		rc = opts.LintConfig
	}

	results, err := runner.Run(cmd.Context(), target, puppetlint.RunOptions{Fix: opts.Fix, Config: rc})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeText && opts.Out == "" {
		lintText(r, target, results)
	} else if err := emit(r, opts.Out, lintWriter(target, results)); err != nil {
		return err
	}

	if len(results) > 0 {
		return fmt.Errorf("%d lint %w", len(results), ErrIssuesFound)
	}
	return nil
}

func lintWriter(target string, results []puppetlint.Result) docWriter {
	return func(w io.Writer, mode output.Mode) error {
		if mode == output.ModeJSON {
			return puppetlint.WriteJSON(w, results)
		}
		return puppetlint.WriteMarkdown(w, target, results)
	}
}

// lintText outputs results as a table.
func lintText(r *output.Renderer, target string, results []puppetlint.Result) {
	if len(results) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %s", target))
		return
	}

	styles := r.Styles()
	r.Header(1, "Puppet Lint: "+target)

	rows := make([]table.Row, 0, len(results))
	for _, res := range results {
		sev := res.Severity().String()
		check := res.Check
		if res.Fixable {
			check += " (fixed)"
		}
		rows = append(rows, table.Row{
			res.Location(),
			styles.Severity(sev).Render(sev),
			check,
			res.Message,
		})
	}
	renderTable(r.Writer(), table.Row{"Location", "Severity", "Check", "Message"}, rows, "problems")
}
