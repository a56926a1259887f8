package medicine

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	medicineID string
	stock      string
	perIntake  string
	doseUnit   string
	expiry     string
)

var setCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or update a medicine",
	Long: `Create a medicine, or update one when --id is given.

A medicine without --per-intake has untracked stock and never limits a
schedule. Quantities accept decimals, e.g. 0.5 for half a tablet.

Examples:
  dosewise medicine set Ibuprofen --stock 30 --per-intake 2 --unit tablet
  dosewise medicine set Amoxicillin --stock 20 --per-intake 1 --expiry 2025-06-30
  dosewise medicine set "Vitamin D" --id 6f1c... --expiry 2026-01-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.GetApp()
		if err != nil {
			return err
		}

		m := domain.MedicineSnapshot{
			MedicineID: uuid.New(),
			Name:       args[0],
			DoseUnit:   doseUnit,
			Stock:      domain.UntrackedStock(),
		}
		if medicineID != "" {
			id, err := cli.ParseID("medicine", medicineID)
			if err != nil {
				return err
			}
			if existing, err := app.Medicines.Snapshot(cmd.Context(), id); err == nil {
				m = *existing
				m.Name = args[0]
				if doseUnit != "" {
					m.DoseUnit = doseUnit
				}
			} else if !errors.Is(err, domain.ErrMedicineNotFound) {
				return err
			}
			m.MedicineID = id
		}

		if err := applyQuantities(cmd, &m); err != nil {
			return err
		}
		if expiry != "" {
			d, err := domain.ParseDate(expiry)
			if err != nil {
				return fmt.Errorf("invalid --expiry: %w", err)
			}
			m.Expiry = &d
		}

		if err := app.Medicines.Save(cmd.Context(), m); err != nil {
			return fmt.Errorf("failed to save medicine: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved medicine: %s\n", m.Name)
		fmt.Fprintf(out, "  ID: %s\n", m.MedicineID)
		printStock(out, m)
		return nil
	},
}

func applyQuantities(cmd *cobra.Command, m *domain.MedicineSnapshot) error {
	if cmd.Flags().Changed("stock") {
		total, err := decimal.NewFromString(stock)
		if err != nil || total.IsNegative() {
			return fmt.Errorf("invalid --stock %q", stock)
		}
		m.Stock.TotalUnits = total
	}
	if cmd.Flags().Changed("per-intake") {
		per, err := decimal.NewFromString(perIntake)
		if err != nil || per.IsNegative() {
			return fmt.Errorf("invalid --per-intake %q", perIntake)
		}
		m.Stock.UnitsPerIntake = per
	}
	return nil
}

func init() {
	setCmd.Flags().StringVar(&medicineID, "id", "", "medicine ID to update")
	setCmd.Flags().StringVar(&stock, "stock", "0", "remaining units")
	setCmd.Flags().StringVar(&perIntake, "per-intake", "0", "units taken per intake (0 leaves stock untracked)")
	setCmd.Flags().StringVar(&doseUnit, "unit", "", "dose unit, e.g. tablet")
	setCmd.Flags().StringVar(&expiry, "expiry", "", "expiry date (YYYY-MM-DD)")
}
