package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Validate rig.yaml and write the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.resolveOptions(cmd)
			if err != nil {
				return err
			}
			_, err = c.app.Resolve(cmd.Context(), opts)
			return err
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().BoolP("no-cache", "n", false, "Rewrite the output even if it is up to date")
	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", `Output file, or "-" for stdout (default: rig.resolved.<format> next to rig.yaml)`)
	cmd.Flags().StringP("format", "f", string(domain.FormatYAML), "Output format: yaml or json")
}

func (c *CLI) resolveOptions(cmd *cobra.Command) (app.ResolveOptions, error) {
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	format, err := domain.ParseFormat(formatName)
	if err != nil {
		return app.ResolveOptions{}, err
	}

	return app.ResolveOptions{
		ConfigPath: c.configPath,
		OutputPath: output,
		Format:     format,
		NoCache:    noCache,
	}, nil
}
