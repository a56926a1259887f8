package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MedicineSnapshot is a read-only view of a medicine's stock and expiry.
type MedicineSnapshot struct {
	MedicineID uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	DoseUnit   string        `json:"dose_unit,omitempty"`
	Stock      StockSnapshot `json:"stock"`
	Expiry     *time.Time    `json:"expiry,omitempty"`
}

// StockReader reads medicine snapshots from the medicine store.
type StockReader interface {
	Snapshot(ctx context.Context, medicineID uuid.UUID) (*MedicineSnapshot, error)
}
