package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the provisioned binary and where it comes from",
		Args:  cobra.NoArgs,
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

			installed, err := binary.Inspect(s.installDir, s.target)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderFieldTable(statusRows(s, version, installed)))
			return nil
		},
	}
}

func statusRows(s *session, version binary.ReleaseVersion, installed *binary.InstalledBinary) [][2]string {
	platformValue := s.target.String()
	downloadURL := "-"
	if s.target.Supported() {
		if u, err := binary.DownloadURL(s.cfg.BaseURL(), version, s.target); err == nil {
			downloadURL = u
		}
	} else {
		platformValue += " (unsupported)"
	}

	configPath := s.cfg.Path
	if configPath == "" {
		configPath = "(defaults)"
	}

	installedAt := "-"
	if !installed.InstalledAt.IsZero() {
		installedAt = installed.InstalledAt.Local().Format("2006-01-02 15:04:05")
	}

	upToDate := installed.Exists && installed.Version == version.String()

	return [][2]string{
		{"Platform", platformValue},
		{"Release", version.String()},
		{"Download URL", downloadURL},
		{"Binary", installed.Path},
		{"Installed", yesNo(installed.Exists)},
		{"Executable", yesNo(installed.Executable)},
		{"Installed version", orDash(installed.Version)},
		{"Up to date", yesNo(upToDate)},
		{"SHA256", orDash(installed.SHA256)},
		{"Verified", installed.Verified.String()},
		{"Installed at", installedAt},
		{"Config", configPath},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
