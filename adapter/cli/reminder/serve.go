package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Deliver reminders until interrupted",
	Long: `Re-issue the reminders of every stored schedule and print each one as it
comes due. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}

		result, err := app.SyncRemindersHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to restore reminders: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Restored %d reminders for %d schedules", result.Scheduled, result.Schedules)
		if result.Failed > 0 {
			fmt.Fprintf(out, " (%d failed)", result.Failed)
		}
		fmt.Fprintln(out)

		app.Runner.Start()
		fmt.Fprintf(out, "Waiting for %d reminders. Press Ctrl+C to stop.\n", app.Runner.Pending())
		<-cmd.Context().Done()
		return nil
	},
}
