package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/queries"
	"github.com/spf13/cobra"
)

var (
	previewFlags cli.DefinitionFlags
	previewDays  int
	previewUntil string
)

var previewCmd = &cobra.Command{
	Use:   "preview [medicine-id]",
	Short: "Resolve a schedule without saving it",
	Long: `Resolve a recurrence rule and print its intake days.

Days: daily, weekdays, weekends, a list such as mon,wed,fri, or an
interval from the start date: 2d, 1w, 3m, 1y.

End: --count N ends after N intakes, --mode expiry ends on the medicine's
expiry date, --end-date ends on a date. Without any, stock decides. A bare
--end-date equal to the expiry or stock-derived end links to that mode.

Examples:
  dosewise schedule preview <id> --times 08:00,20:00
  dosewise schedule preview <id> --days mon,thu --times 09:00 --mode expiry
  dosewise schedule preview <id> --window 08:00-22:00 --every 4 --count 12
  dosewise schedule preview <id> --end-date 2025-01-01 --until 2024-06-30`,
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
		def, err := buildDefinition(cmd.Context(), app, &previewFlags, medicineID)
		if err != nil {
			return err
		}
		rangeEnd, err := parseRangeEnd(previewUntil)
		if err != nil {
			return fmt.Errorf("invalid --until: %w", err)
		}

		preview, err := app.PreviewScheduleHandler.Handle(cmd.Context(), queries.PreviewScheduleQuery{
			MedicineID: medicineID,
			Definition: def,
			RangeEnd:   rangeEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve schedule: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Schedule for %s from %s\n", preview.Medicine.Name, def.StartDate.Format("2006-01-02"))
		cli.PrintResolved(out, preview.Resolved)
		if preview.ExpiryDate != nil || preview.CountDate != nil {
			fmt.Fprintf(out, "  Candidates: expiry %s, stock %s\n",
				cli.FormatDate(preview.ExpiryDate), cli.FormatDate(preview.CountDate))
		}
		cli.PrintDays(out, preview.Days, previewDays)
		return nil
	},
}

func init() {
	previewFlags.Register(previewCmd)
	previewCmd.Flags().IntVar(&previewDays, "show", 14, "number of days to print (0 for all)")
	previewCmd.Flags().StringVar(&previewUntil, "until", "", "stop listing after this date (YYYY-MM-DD)")
}
