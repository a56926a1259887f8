package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unbounded is returned by MaxIntakes when stock does not cap a schedule.
const Unbounded = -1

// StockSnapshot is the remaining quantity of a medicine and the quantity
// consumed per intake. A zero UnitsPerIntake marks a dosage form whose
// quantity is not tracked.
type StockSnapshot struct {
	TotalUnits     decimal.Decimal `json:"total_units"`
	UnitsPerIntake decimal.Decimal `json:"units_per_intake"`
}

// NewStockSnapshot builds a snapshot from plain numbers.
func NewStockSnapshot(totalUnits, unitsPerIntake float64) StockSnapshot {
	return StockSnapshot{
		TotalUnits:     decimal.NewFromFloat(totalUnits),
		UnitsPerIntake: decimal.NewFromFloat(unitsPerIntake),
	}
}

// UntrackedStock is a snapshot that never caps a schedule.
func UntrackedStock() StockSnapshot {
	return StockSnapshot{TotalUnits: decimal.Zero, UnitsPerIntake: decimal.Zero}
}

// IsBounded reports whether the snapshot caps the number of intakes.
func (s StockSnapshot) IsBounded() bool {
	return s.UnitsPerIntake.IsPositive()
}

// MaxIntakes returns how many whole intakes the remaining stock affords,
// or Unbounded when stock is not tracked.
func (s StockSnapshot) MaxIntakes() int {
	if !s.IsBounded() {
		return Unbounded
	}
	if !s.TotalUnits.IsPositive() {
		return 0
	}
	quotient, _ := s.TotalUnits.QuoRem(s.UnitsPerIntake, 0)
	if quotient.GreaterThan(decimal.NewFromInt(math.MaxInt)) {
		return math.MaxInt
	}
	return int(quotient.IntPart())
}

// UnitsFor returns the quantity consumed by n intakes.
func (s StockSnapshot) UnitsFor(n int) decimal.Decimal {
	return s.UnitsPerIntake.Mul(decimal.NewFromInt(int64(n)))
}
