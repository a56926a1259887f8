package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	reminders "github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/google/uuid"
)

var ErrMedicineMismatch = errors.New("schedule belongs to another medicine")

// ReminderScheduler keeps the reminders of a schedule in step with its
// intake events.
type ReminderScheduler interface {
	Reschedule(ctx context.Context, scheduleID uuid.UUID, events []domain.IntakeEvent, rc reminders.ReminderContext) (int, error)
	CancelSchedule(ctx context.Context, scheduleID uuid.UUID) (int, error)
	Cancel(ctx context.Context, intakeID string) error
}

// ReminderSettings are the per-installation parts of a reminder text.
type ReminderSettings struct {
	Language string
	Channel  string
}

// ReminderContextFor builds the reminder context of a medicine.
func ReminderContextFor(m *domain.MedicineSnapshot, settings ReminderSettings) reminders.ReminderContext {
	quantity := 1
	if m.Stock.IsBounded() {
		quantity = int(m.Stock.UnitsPerIntake.Ceil().IntPart())
	}
	return reminders.ReminderContext{
		MedicineName: m.Name,
		Quantity:     quantity,
		Language:     settings.Language,
		Channel:      settings.Channel,
	}
}
