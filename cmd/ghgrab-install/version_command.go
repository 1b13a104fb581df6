package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bootstrapper and pinned ghgrab release versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ghgrab-install %s\n", Version)
			fmt.Fprintf(out, "ghgrab release %s\n", binary.Version)
			return nil
		},
	}
}
