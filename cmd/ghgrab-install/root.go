package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	ctx := newCommandContext(a)

	rootCmd := &cobra.Command{
		Use:           "ghgrab-install",
		Short:         "Provision the ghgrab binary for this platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Bootstrap config file (default $GHGRAB_BOOTSTRAP_CONFIG or <user config dir>/ghgrab/bootstrap.lua)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newProvisionCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newPathCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
