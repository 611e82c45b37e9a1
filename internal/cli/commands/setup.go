package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/puppetlens/internal/cli/config"
	"github.com/leapstack-labs/puppetlens/internal/cli/output"
)

// Sentinel errors that make the process exit non-zero after output has been
// written.
var (
	ErrCyclesFound = errors.New("circular dependencies found")
	ErrIssuesFound = errors.New("issues found")
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		mode = output.Mode(format)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// targetArg returns the first positional argument or ".".
func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// docWriter writes one document in mode. Text mode is never passed; text
// output is produced by styling the markdown document.
type docWriter func(w io.Writer, mode output.Mode) error

// emit writes a document to path, or to the renderer when path is empty.
// Files never receive styled text: text mode is written as markdown.
func emit(r *output.Renderer, path string, write docWriter) error {
	mode := r.EffectiveMode()
	styled := false
	if mode == output.ModeText {
		mode = output.ModeMarkdown
		styled = path == ""
	}

	var buf bytes.Buffer
	if err := write(&buf, mode); err != nil {
		return err
	}

	if path != "" {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // reports are meant to be readable
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.Printf("Analysis written to: %s\n", path)
		return nil
	}
	if styled {
		return r.Markdown(buf.String())
	}
	_, err := r.Writer().Write(buf.Bytes())
	return err
}

// validateFormat rejects unknown --format values.
func validateFormat(format string) error {
	switch output.Mode(format) {
	case "", output.ModeAuto, output.ModeText, output.ModeMarkdown, output.ModeJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want auto, text, markdown or json)", format)
	}
}

// formatCompletion completes --format values.
func formatCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.OutputModes, cobra.ShellCompDirectiveNoFileComp
}
