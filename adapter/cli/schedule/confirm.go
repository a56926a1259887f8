package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/commands"
	"github.com/spf13/cobra"
)

var (
	confirmFlags    cli.DefinitionFlags
	confirmDose     string
	confirmSchedule string
)

var confirmCmd = &cobra.Command{
	Use:   "confirm [medicine-id]",
	Short: "Save a schedule and schedule its reminders",
	Long: `Resolve a recurrence rule against current stock and expiry, save it and
replace the reminders of the schedule.

Pass --schedule to revise an existing schedule. Definition flags are the
same as for "schedule preview".

Examples:
  dosewise schedule confirm <medicine-id> --dose "2 tablets" --times 08:00,20:00
  dosewise schedule confirm <medicine-id> --schedule <schedule-id> --count 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		medicineID, err := cli.ParseID("medicine", args[0])
		if err != nil {
			return err
		}
		def, err := buildDefinition(cmd.Context(), app, &confirmFlags, medicineID)
		if err != nil {
			return err
		}

		command := commands.ConfirmScheduleCommand{
			MedicineID: medicineID,
			Dose:       confirmDose,
			Definition: def,
		}
		if confirmSchedule != "" {
			id, err := cli.ParseID("schedule", confirmSchedule)
			if err != nil {
				return err
			}
			command.ScheduleID = &id
		}

		result, err := app.ConfirmScheduleHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to confirm schedule: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.Created {
			fmt.Fprintln(out, "Created schedule")
		} else {
			fmt.Fprintln(out, "Revised schedule")
		}
		fmt.Fprintf(out, "  ID: %s\n", result.ScheduleID)
		cli.PrintResolved(out, result.Resolved)
		fmt.Fprintf(out, "  Reminders: %d\n", result.RemindersScheduled)
		return nil
	},
}

func init() {
	confirmFlags.Register(confirmCmd)
	confirmCmd.Flags().StringVar(&confirmDose, "dose", "", "dose description, e.g. \"2 tablets\"")
	confirmCmd.Flags().StringVar(&confirmSchedule, "schedule", "", "schedule ID to revise")
}

