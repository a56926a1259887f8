package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/queries"
	"github.com/spf13/cobra"
)

var listMedicine string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}

		query := queries.ListSchedulesQuery{}
		if listMedicine != "" {
			query.MedicineID, err = cli.ParseID("medicine", listMedicine)
			if err != nil {
				return err
			}
		}

		schedules, err := app.ListSchedulesHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list schedules: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(schedules) == 0 {
			fmt.Fprintln(out, "No schedules.")
			return nil
		}
		for _, s := range schedules {
			fmt.Fprintf(out, "%s  %s -> %s  %-6s %3d intakes  %s\n",
				s.ID,
				s.StartDate.Format("2006-01-02"),
				cli.FormatDate(s.EndDate),
				s.EndMode,
				s.RequiredCount,
				s.Dose,
			)
			cli.PrintWarnings(out, s.Warnings)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listMedicine, "medicine", "", "only schedules of this medicine")
}
