package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callwatch/callwatch/internal/database"
	"github.com/callwatch/callwatch/internal/reporter"
)

func NewReportCmd(deps *Dependencies) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report [day|week|month]",
		Short: "Summarize detection outcomes per source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := "day"
			if len(args) == 1 {
				period = args[0]
			}

			db, err := database.Connect(deps.Config.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			if err := db.Initialize(); err != nil {
				return err
			}

			rep := reporter.New(database.NewRepository(db))
			report, err := rep.GenerateReport(period)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := rep.FormatJSON(report)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}
			fmt.Print(rep.FormatText(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
