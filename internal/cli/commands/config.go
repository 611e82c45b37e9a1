package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/puppetlens/internal/cli/output"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, puppetlens.yaml, PUPPETLENS_*
environment variables and flags have been applied.`,
		Example: `  puppetlens config show
  PUPPETLENS_ANALYSIS__WORKERS=4 puppetlens config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			cmdCtx := NewCommandContext(cmd, format)
			cfg := cmdCtx.Cfg
			r := cmdCtx.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if cfg.File != "" {
				r.Printf("# %s\n", cfg.File)
			} else {
				r.Println("# built-in defaults")
			}
			r.Printf("%s", data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: yaml (text/markdown), json")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	return cmd
}
