package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callwatch/callwatch/internal/daemon"
	"github.com/callwatch/callwatch/internal/database"
)

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and per-source detection stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidFile := daemon.New(deps.Config.Daemon.PIDFile)
			running, pid, err := pidFile.IsRunning()
			if err != nil {
				return err
			}
			if running {
				fmt.Printf("callwatch is running (PID %d)\n", pid)
			} else {
				fmt.Println("callwatch is not running")
			}

			db, err := database.Connect(deps.Config.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			if err := db.Initialize(); err != nil {
				return err
			}
			repo := database.NewRepository(db)

			stats, err := repo.ListSourceStats()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Println("\nNo detection activity recorded yet.")
				return nil
			}

			fmt.Printf("\n%-16s %-8s %10s %8s %10s %8s\n",
				"SOURCE", "ENABLED", "TRIGGERED", "KEPT", "DISCARDED", "STREAK")
			for _, stat := range stats {
				enabled := "yes"
				if !repo.SourceEnabled(stat.SourceKind) {
					enabled = "no"
					if stat.AutoDisabledAt != nil {
						enabled = "auto-off"
					}
				}
				fmt.Printf("%-16s %-8s %10d %8d %10d %8d\n",
					stat.SourceKind, enabled, stat.TriggerCount, stat.KeptCount,
					stat.DiscardCount, stat.ConsecutiveDiscards)
			}
			return nil
		},
	}
}
