package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEffectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "List the unit's presets and their recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}

			reg := lib.Registry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EFFECT\tFILE")

			for _, name := range reg.Names() {
				asset, err := reg.Lookup(name)
				if err != nil {
					return err
				}

				fmt.Fprintf(tw, "%s\t%s\n", name, asset)
			}

			return tw.Flush()
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every registered recording exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}

			missing := lib.Verify()
			if len(missing) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "all %d recordings found in %s\n", lib.Registry().Len(), lib.BaseDir())
				return nil
			}

			for _, m := range missing {
				fmt.Fprintf(cmd.OutOrStdout(), "missing %s\n", m)
			}

			return fmt.Errorf("%d recordings missing from %s", len(missing), lib.BaseDir())
		},
	}
}
