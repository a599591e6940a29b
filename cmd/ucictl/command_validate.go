package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the engine starts and answers a short search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			eng, err := a.open(ctx)
			if err != nil {
				return err
			}
			if err := eng.Validate(ctx); err != nil {
				_ = eng.Close()
				return fmt.Errorf("validate %s: %w", eng.Path(), err)
			}
			if err := eng.Close(); err != nil {
				return fmt.Errorf("close %s: %w", eng.Path(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s (%s)\n", eng.Name(), eng.Path())
			return nil
		},
	}
}
