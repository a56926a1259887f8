package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	reminders "github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

// MarkIntakeTakenCommand records that an intake was taken.
type MarkIntakeTakenCommand struct {
	IntakeID string
	// At defaults to now.
	At time.Time
}

// MarkIntakeTakenHandler handles the MarkIntakeTakenCommand.
type MarkIntakeTakenHandler struct {
	scheduleRepo domain.ScheduleRepository
	intakeLog    domain.IntakeLog
	reminders    ReminderScheduler
	now          func() time.Time
	logger       *slog.Logger
}

// NewMarkIntakeTakenHandler creates a new MarkIntakeTakenHandler.
func NewMarkIntakeTakenHandler(
	scheduleRepo domain.ScheduleRepository,
	intakeLog domain.IntakeLog,
	reminders ReminderScheduler,
	logger *slog.Logger,
) *MarkIntakeTakenHandler {
	return &MarkIntakeTakenHandler{
		scheduleRepo: scheduleRepo,
		intakeLog:    intakeLog,
		reminders:    reminders,
		now:          time.Now,
		logger:       observability.OrDefault(logger),
	}
}

// Handle records the intake and drops its pending reminder.
func (h *MarkIntakeTakenHandler) Handle(ctx context.Context, cmd MarkIntakeTakenCommand) error {
	scheduleID, _, _, err := domain.ParseIntakeID(cmd.IntakeID)
	if err != nil {
		return err
	}
	schedule, err := h.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if !hasIntake(schedule, cmd.IntakeID) {
		return fmt.Errorf("%w: %s", domain.ErrIntakeNotFound, cmd.IntakeID)
	}

	at := cmd.At
	if at.IsZero() {
		at = h.now()
	}
	if err := h.intakeLog.MarkTaken(ctx, cmd.IntakeID, at); err != nil {
		return fmt.Errorf("record intake: %w", err)
	}

	if h.reminders != nil {
		if err := h.reminders.Cancel(ctx, cmd.IntakeID); err != nil && !errors.Is(err, reminders.ErrReminderNotFound) {
			h.logger.WarnContext(ctx, "reminder of taken intake not cancelled",
				"intake_id", cmd.IntakeID,
				"error", err,
			)
		}
	}
	return nil
}

func hasIntake(s *domain.Schedule, intakeID string) bool {
	for _, ev := range s.IntakeEvents() {
		if ev.ID == intakeID {
			return true
		}
	}
	return false
}
