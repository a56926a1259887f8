package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

// SyncRemindersResult counts what a sync did.
type SyncRemindersResult struct {
	Schedules int
	Scheduled int
	Failed    int
}

// SyncRemindersHandler re-issues the reminders of every stored schedule.
// It runs when a reminder facility starts without the reminders it issued
// before, such as the in-process cron facility after a restart.
type SyncRemindersHandler struct {
	scheduleRepo domain.ScheduleRepository
	stock        domain.StockReader
	reminders    ReminderScheduler
	settings     ReminderSettings
	logger       *slog.Logger
}

// NewSyncRemindersHandler creates a new SyncRemindersHandler.
func NewSyncRemindersHandler(
	scheduleRepo domain.ScheduleRepository,
	stock domain.StockReader,
	reminders ReminderScheduler,
	settings ReminderSettings,
	logger *slog.Logger,
) *SyncRemindersHandler {
	return &SyncRemindersHandler{
		scheduleRepo: scheduleRepo,
		stock:        stock,
		reminders:    reminders,
		settings:     settings,
		logger:       observability.OrDefault(logger),
	}
}

// Handle reschedules each schedule in turn. A schedule that fails is
// counted and skipped.
func (h *SyncRemindersHandler) Handle(ctx context.Context) (*SyncRemindersResult, error) {
	schedules, err := h.scheduleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncRemindersResult{Schedules: len(schedules)}
	for _, s := range schedules {
		medicine, err := h.stock.Snapshot(ctx, s.MedicineID())
		if err != nil {
			h.logger.WarnContext(ctx, "medicine of schedule not readable, using defaults",
				"schedule_id", s.ID(),
				"error", err,
			)
			medicine = &domain.MedicineSnapshot{MedicineID: s.MedicineID()}
		}

		n, err := h.reminders.Reschedule(ctx, s.ID(), s.IntakeEvents(), ReminderContextFor(medicine, h.settings))
		result.Scheduled += n
		if err != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "reminders of schedule not restored", "schedule_id", s.ID(), "error", err)
		}
	}
	return result, nil
}
