package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [intake-id]",
	Short: "Cancel the reminder of one intake",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		if err := app.Reminders.Cancel(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to cancel reminder: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cancelled reminder of %s\n", args[0])
		return nil
	},
}

var cancelAllCmd = &cobra.Command{
	Use:   "cancel-all",
	Short: "Cancel every tracked reminder",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		if err := app.Reminders.CancelAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to cancel reminders: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled all reminders")
		return nil
	},
}
