package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/queries"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/spf13/cobra"
)

var (
	intakesFrom    string
	intakesTo      string
	intakesPending bool
)

var intakesCmd = &cobra.Command{
	Use:   "intakes [schedule-id]",
	Short: "List the intake events of a schedule",
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

		query := queries.ListIntakesQuery{ScheduleID: scheduleID, PendingOnly: intakesPending}
		if intakesFrom != "" {
			if query.From, err = domain.ParseDate(intakesFrom); err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
		}
		if intakesTo != "" {
			if query.To, err = domain.ParseDate(intakesTo); err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
		}

		intakes, err := app.ListIntakesHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list intakes: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, in := range intakes {
			status := "pending"
			if in.Taken {
				status = "taken " + in.TakenAt.In(app.Location).Format("2006-01-02 15:04")
			}
			fmt.Fprintf(out, "%s  %s  %s\n", in.At.Format("Mon 2006-01-02 15:04"), in.ID, status)
		}
		fmt.Fprintf(out, "%d intakes\n", len(intakes))
		return nil
	},
}

func init() {
	intakesCmd.Flags().StringVar(&intakesFrom, "from", "", "first day (YYYY-MM-DD)")
	intakesCmd.Flags().StringVar(&intakesTo, "to", "", "last day (YYYY-MM-DD)")
	intakesCmd.Flags().BoolVar(&intakesPending, "pending", false, "hide taken intakes")
}
