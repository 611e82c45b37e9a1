package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/analyzer"
	"github.com/leapstack-labs/puppetlens/internal/cli/output"
	"github.com/leapstack-labs/puppetlens/internal/practices"
	_ "github.com/leapstack-labs/puppetlens/internal/practices/rules" // register practice rules
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	StyleGuide string
	Format     string
	Out        string
	Disable    []string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check manifests against best practices",
		Long: `Check Puppet manifests against built-in best practice rules.

Rules cover class and resource naming, quoting, parameter typing, legacy
hiera() calls and package ordering. Use 'puppetlens rules' to list them.
An optional markdown style guide ("## Section" headings with "- rule"
bullets) is listed alongside the findings.

The command exits non-zero when any issue is found.`,
		Example: `  # Check the current directory
  puppetlens check

  # Check one manifest with a team style guide
  puppetlens check manifests/init.pp --style-guide STYLE.md

  # Skip the quoting rule, output JSON
  puppetlens check modules --disable PP03 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, targetArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.StyleGuide, "style-guide", "", "Markdown style guide to include in the report")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write output to file")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")

	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

func runCheck(cmd *cobra.Command, target string, opts *CheckOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	analyzerOpts, err := cfg.AnalyzerOptions(cmdCtx.Logger)
	if err != nil {
		return err
	}
	files, warnings, err := analyzer.Discover(target, analyzerOpts)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		cmdCtx.Logger.Warn("skipping path", "path", w.Path, "error", w.Message)
	}

	practicesCfg := cfg.PracticesConfig()
	for _, id := range opts.Disable {
		practicesCfg.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}

	rep := &practices.Report{
		Target: target,
		Issues: practices.NewChecker(practicesCfg, cmdCtx.Logger).CheckFiles(files),
	}

	guidePath := cfg.Practices.StyleGuide
	if opts.StyleGuide != "" {
		guidePath = opts.StyleGuide
	}
	if guidePath != "" {
		guide, err := practices.LoadStyleGuide(guidePath)
		if err != nil {
			return err
		}
		rep.StyleGuide = guide
	}

	if r.EffectiveMode() == output.ModeText && opts.Out == "" {
		checkText(r, rep)
	} else if err := emit(r, opts.Out, checkWriter(rep)); err != nil {
		return err
	}

	if len(rep.Issues) > 0 {
		return fmt.Errorf("%d best practice %w", len(rep.Issues), ErrIssuesFound)
	}
	return nil
}

func checkWriter(rep *practices.Report) docWriter {
	return func(w io.Writer, mode output.Mode) error {
		if mode == output.ModeJSON {
			return rep.WriteJSON(w)
		}
		return rep.WriteMarkdown(w)
	}
}

// checkText outputs issues as a table with per-severity totals.
func checkText(r *output.Renderer, rep *practices.Report) {
	styles := r.Styles()

	if len(rep.Issues) == 0 {
		r.Success(fmt.Sprintf("No best practice violations found in %s", rep.Target))
	} else {
		r.Header(1, "Best Practices: "+rep.Target)

		issues := append([]practices.Issue(nil), rep.Issues...)
		practices.SortIssues(issues)
		rows := make([]table.Row, 0, len(issues))
		for _, i := range issues {
			rows = append(rows, table.Row{
				i.Location(),
				styles.Severity(i.Severity.String()).Render(i.Severity.String()),
				i.RuleID,
				i.Message,
				i.Suggestion,
			})
		}
		renderTable(r.Writer(), table.Row{"Location", "Severity", "Rule", "Message", "Suggestion"}, rows, "issues")

		counts := practices.CountBySeverity(rep.Issues)
		parts := make([]string, 0, len(practices.Severities))
		for _, sev := range practices.Severities {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
		r.Println(styles.Muted.Render(strings.Join(parts, ", ")))
	}

	if g := rep.StyleGuide; g.RuleCount() > 0 {
		r.Println("")
		r.Header(2, fmt.Sprintf("Style Guide (%d rules)", g.RuleCount()))
		for _, s := range g.Sections {
			r.Println(styles.Bold.Render(s.Name))
			for _, rule := range s.Rules {
				r.Printf("  - %s\n", rule)
			}
		}
	}
}
