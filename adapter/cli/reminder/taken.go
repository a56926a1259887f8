package reminder

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/commands"
	"github.com/spf13/cobra"
)

var takenAt string

var takenCmd = &cobra.Command{
	Use:   "taken [intake-id]",
	Short: "Mark an intake as taken and drop its reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}

		at := app.Now()
		if takenAt != "" {
			at, err = time.ParseInLocation("2006-01-02 15:04", takenAt, app.Location)
			if err != nil {
				return fmt.Errorf("invalid --at, want \"YYYY-MM-DD HH:MM\": %w", err)
			}
		}

		err = app.MarkIntakeTakenHandler.Handle(cmd.Context(), commands.MarkIntakeTakenCommand{
			IntakeID: args[0],
			At:       at,
		})
		if err != nil {
			return fmt.Errorf("failed to mark intake: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as taken\n", args[0])
		return nil
	},
}

func init() {
	takenCmd.Flags().StringVar(&takenAt, "at", "", "time taken (YYYY-MM-DD HH:MM, default now)")
}
