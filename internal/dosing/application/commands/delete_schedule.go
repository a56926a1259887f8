package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	sharedApp "github.com/felixgeelhaar/dosewise/internal/shared/application"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
)

// DeleteScheduleCommand contains the data needed to delete a schedule.
type DeleteScheduleCommand struct {
	ScheduleID uuid.UUID
}

// DeleteScheduleResult contains the result of deleting a schedule.
type DeleteScheduleResult struct {
	RemindersCancelled int
}

// DeleteScheduleHandler handles the DeleteScheduleCommand.
type DeleteScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
	intakeLog    domain.IntakeLog
	reminders    ReminderScheduler
	publisher    eventbus.Publisher
	metrics      observability.Metrics
	logger       *slog.Logger
}

// NewDeleteScheduleHandler creates a new DeleteScheduleHandler.
func NewDeleteScheduleHandler(
	scheduleRepo domain.ScheduleRepository,
	intakeLog domain.IntakeLog,
	reminders ReminderScheduler,
	publisher eventbus.Publisher,
	metrics observability.Metrics,
	logger *slog.Logger,
) *DeleteScheduleHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if publisher == nil {
		publisher = eventbus.NoopPublisher{}
	}
	return &DeleteScheduleHandler{
		scheduleRepo: scheduleRepo,
		intakeLog:    intakeLog,
		reminders:    reminders,
		publisher:    publisher,
		metrics:      metrics,
		logger:       observability.OrDefault(logger),
	}
}

// Handle cancels the schedule's reminders before removing it, so no
// reminder outlives its schedule.
func (h *DeleteScheduleHandler) Handle(ctx context.Context, cmd DeleteScheduleCommand) (*DeleteScheduleResult, error) {
	schedule, err := h.scheduleRepo.FindByID(ctx, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}

	result := &DeleteScheduleResult{}
	if h.reminders != nil {
		n, err := h.reminders.CancelSchedule(ctx, schedule.ID())
		if err != nil {
			return nil, fmt.Errorf("cancel reminders: %w", err)
		}
		result.RemindersCancelled = n
	}

	if err := h.scheduleRepo.Delete(ctx, schedule.ID()); err != nil {
		return nil, fmt.Errorf("delete schedule: %w", err)
	}
	if h.intakeLog != nil {
		if err := h.intakeLog.Forget(ctx, schedule.ID()); err != nil {
			h.logger.WarnContext(ctx, "intake log not cleared", "schedule_id", schedule.ID(), "error", err)
		}
	}

	schedule.MarkDeleted()
	events := sharedApp.ApplyEventMetadata(schedule.PullDomainEvents(), sharedApp.EventMetadataFromContext(ctx, "dosing"))
	if err := eventbus.PublishEvents(ctx, h.publisher, events); err != nil {
		h.logger.WarnContext(ctx, "schedule deleted but events were not published",
			"schedule_id", schedule.ID(),
			"error", err,
		)
	}

	h.metrics.Counter(observability.MetricSchedulesDeleted, 1)
	h.logger.InfoContext(ctx, "schedule deleted",
		"schedule_id", schedule.ID(),
		"reminders_cancelled", result.RemindersCancelled,
	)
	return result, nil
}
