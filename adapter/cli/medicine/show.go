package medicine

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one medicine or list all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			id, err := cli.ParseID("medicine", args[0])
			if err != nil {
				return err
			}
			m, err := app.Medicines.Snapshot(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n  ID: %s\n", m.Name, m.MedicineID)
			printStock(out, *m)
			return nil
		}

		medicines, err := app.Medicines.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list medicines: %w", err)
		}
		if len(medicines) == 0 {
			fmt.Fprintln(out, "No medicines. Add one with: dosewise medicine set <name>")
			return nil
		}
		for _, m := range medicines {
			fmt.Fprintf(out, "%s  %s\n", m.MedicineID, m.Name)
		}
		return nil
	},
}

func printStock(out io.Writer, m domain.MedicineSnapshot) {
	if m.Stock.IsBounded() {
		unit := m.DoseUnit
		if unit == "" {
			unit = "units"
		}
		fmt.Fprintf(out, "  Stock: %s %s, %s per intake (%d intakes)\n",
			m.Stock.TotalUnits, unit, m.Stock.UnitsPerIntake, m.Stock.MaxIntakes())
	} else {
		fmt.Fprintln(out, "  Stock: untracked")
	}
	fmt.Fprintf(out, "  Expiry: %s\n", cli.FormatDate(m.Expiry))
}
