package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/callwatch/callwatch/internal/daemon"
)

func NewStopCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidFile := daemon.New(deps.Config.Daemon.PIDFile)
			if err := pidFile.Stop(3 * time.Second); err != nil {
				return err
			}
			fmt.Println("callwatch stopped")
			return nil
		},
	}
}
