package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
)

func newPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path the ghgrab launcher executes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			installDir, err := ctx.app.installDir()
			if err != nil {
				return err
			}
			info, err := ctx.app.detector.Detect(cmd.Context())
			if err != nil {
				return fmt.Errorf("detect platform: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), binary.InstallPath(installDir, info.Target()))
			return nil
		},
	}
}
