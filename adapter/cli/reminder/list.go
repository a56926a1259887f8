package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked reminders by intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}

		table, err := app.Reminders.Tracked(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read reminders: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, intakeID := range table.IntakeIDs() {
			reminderID, _ := table.Get(intakeID)
			fmt.Fprintf(out, "%s  %s\n", intakeID, reminderID)
		}
		fmt.Fprintf(out, "%d reminders\n", table.Len())
		return nil
	},
}
