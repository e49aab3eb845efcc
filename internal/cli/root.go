package cli

import (
	"github.com/spf13/cobra"

	"github.com/callwatch/callwatch/internal/config"
	"github.com/callwatch/callwatch/internal/version"
)

type Dependencies struct {
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "callwatch",
		Short: "Detect meetings and record them automatically",
		Long: "A daemon that watches processes, window titles, and audio activity " +
			"to detect when you join a call, and starts a recording without being asked.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewStartCmd(deps))
	rootCmd.AddCommand(NewStopCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewReportCmd(deps))

	return rootCmd
}
