package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deepwrite/deepwrite/internal/config"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect DeepWrite configuration",
	}

	addConfigShowCmd(cmd, flags)

	root.AddCommand(cmd)
}

// addConfigShowCmd adds the show subcommand to the config command.
func addConfigShowCmd(parent *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective DeepWrite configuration.

Values are merged from built-in defaults, ~/.deepwrite/config.yaml,
.deepwrite.yaml in the working directory, and DEEPWRITE_* environment
variables, in increasing order of precedence. API keys are referenced
by environment variable name and never appear in the output.

Examples:
  deepwrite config show               # Display config as YAML
  deepwrite config show --output json # Display config as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), flags, os.Stdout)
		},
	}
	parent.AddCommand(cmd)
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, flags *GlobalFlags, w io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if flags.Output == OutputJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = w.Write(out)
	return err
}
