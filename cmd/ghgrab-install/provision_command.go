package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
)

func newProvisionCommand(ctx *commandContext) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Download the ghgrab release binary for this platform",
		Long: "Download the pinned ghgrab release for the detected platform and install it\n" +
			"into the libexec directory next to this executable. Running it again replaces\n" +
			"the binary with an identical copy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.session(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync()

			version, err := binary.DefaultReleaseVersion()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if s.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, s.cfg.Timeout)
				defer cancel()
			}

			var progress io.Writer
			stderr := cmd.ErrOrStderr()
			if !noProgress && s.cfg.ProgressEnabled(logging.IsTerminal(stderr)) {
				progress = stderr
			}

			provisioner, err := binary.NewProvisioner(binary.ProvisionerConfig{
				InstallDir: s.installDir,
				BaseURL:    s.cfg.BaseURL(),
				Client:     ctx.app.client,
				Progress:   progress,
				Verify:     s.cfg.VerifyOptions(),
				Logger:     s.logger,
			})
			if err != nil {
				return err
			}

			installed, err := provisioner.Provision(runCtx, s.target, version)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "installed ghgrab %s (%s) to %s\n", version, s.target.Tag(), installed.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the download progress bar")
	return cmd
}
