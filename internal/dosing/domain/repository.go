package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleRepository defines the interface for schedule persistence.
type ScheduleRepository interface {
	// Save persists a schedule (create or update).
	Save(ctx context.Context, schedule *Schedule) error

	// FindByID finds a schedule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)

	// FindByMedicine finds all schedules of a medicine.
	FindByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*Schedule, error)

	// FindAll lists every schedule.
	FindAll(ctx context.Context) ([]*Schedule, error)

	// Delete removes a schedule.
	Delete(ctx context.Context, id uuid.UUID) error
}

// IntakeLog records which intake events were taken.
type IntakeLog interface {
	// MarkTaken records an intake as taken at the given time.
	MarkTaken(ctx context.Context, intakeID string, at time.Time) error

	// TakenFor returns the taken intakes of a schedule keyed by intake ID.
	TakenFor(ctx context.Context, scheduleID uuid.UUID) (map[string]time.Time, error)

	// Forget drops every entry of a schedule.
	Forget(ctx context.Context, scheduleID uuid.UUID) error
}
