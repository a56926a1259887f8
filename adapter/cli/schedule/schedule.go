package schedule

import (
	"context"
	"time"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Preview, confirm and inspect intake schedules",
	Long: `Resolve a recurrence rule against a medicine's stock and expiry, store it
as a schedule and keep its reminders in step.`,
}

func init() {
	Cmd.AddCommand(previewCmd)
	Cmd.AddCommand(confirmCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(intakesCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(exportCmd)
}

// buildDefinition turns the flags into a definition. A bare end date is
// matched against the expiry and count candidates of the medicine.
func buildDefinition(ctx context.Context, app *cli.App, flags *cli.DefinitionFlags, medicineID uuid.UUID) (domain.ScheduleDefinition, error) {
	def, err := flags.Definition(app.Today())
	if err != nil {
		return def, err
	}
	if !flags.InferMode() {
		return def, nil
	}
	date, err := flags.EndDateValue()
	if err != nil {
		return def, err
	}
	return app.ReconcileEndDate(ctx, medicineID, def, date)
}

func parseRangeEnd(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
