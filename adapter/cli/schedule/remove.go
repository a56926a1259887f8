package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/commands"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [schedule-id]",
	Short: "Delete a schedule and cancel its reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		scheduleID, err := cli.ParseID("schedule", args[0])
		if err != nil {
			return err
		}

		result, err := app.DeleteScheduleHandler.Handle(cmd.Context(), commands.DeleteScheduleCommand{ScheduleID: scheduleID})
		if err != nil {
			return fmt.Errorf("failed to remove schedule: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed schedule %s (%d reminders cancelled)\n", scheduleID, result.RemindersCancelled)
		return nil
	},
}
