package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmora/uci/filter"
)

func newSendCmd(a *app) *cobra.Command {
	var echo bool
	cmd := &cobra.Command{
		Use:   "send <command> [args...]",
		Short: "Send one raw command and print the acknowledging line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			eng, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			lineCtx, stopLines := context.WithCancel(ctx)
			defer stopLines()
			lines := filter.Lines(lineCtx, eng, 0)

			reply, err := eng.Send(ctx, strings.Join(args, " "))
			stopLines()
			if echo {
				for l := range lines {
					fmt.Fprintln(out, l.Raw)
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, reply)
			return nil
		},
	}
	cmd.Flags().BoolVar(&echo, "echo", false, "print every engine line seen while the command ran")
	return cmd
}
