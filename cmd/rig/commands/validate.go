package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate one or more configuration files without writing output",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 && c.configPath != "" {
				paths = []string{c.configPath}
			}

			results, err := c.app.Validate(cmd.Context(), paths)

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", r.Path, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(out, "ok   %s (%s)\n", r.Path, r.Fingerprint)
			}

			return err
		},
	}
}
