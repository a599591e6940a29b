package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the engine's identity and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			eng, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:   %s\n", eng.Name())
			fmt.Fprintf(out, "author: %s\n", eng.Author())
			fmt.Fprintf(out, "path:   %s\n", eng.Path())
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OPTION\tTYPE\tDEFAULT\tVALUE")
			opts := eng.Options()
			for _, name := range opts.Names() {
				decl, _ := opts.Declaration(name)
				value, _ := opts.Get(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, decl.Type, decl.Default, value)
			}
			return tw.Flush()
		},
	}
}
