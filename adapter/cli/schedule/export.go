package schedule

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [schedule-id]",
	Short: "Export a schedule as an iCalendar file",
	Long: `Export every intake of a schedule to ICS (iCalendar) format for import into
Google Calendar, Outlook, Apple Calendar, and other calendar apps.

Examples:
  dosewise schedule export <id>                 # Export to stdout
  dosewise schedule export <id> -o intakes.ics  # Export to file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		scheduleID, err := cli.ParseID("schedule", args[0])
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := security.SafeCreate(exportOutput, ".ics", ".ical")
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := app.CalendarExporter.Export(cmd.Context(), scheduleID, w); err != nil {
			return fmt.Errorf("failed to export schedule: %w", err)
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported schedule to %s\n", exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
}
