package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	sharedApp "github.com/felixgeelhaar/dosewise/internal/shared/application"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
)

// ConfirmScheduleCommand contains the data needed to confirm a schedule.
// A nil ScheduleID creates a new schedule; otherwise the schedule is revised.
type ConfirmScheduleCommand struct {
	ScheduleID *uuid.UUID
	MedicineID uuid.UUID
	Dose       string
	Definition domain.ScheduleDefinition
	// RangeEnd bounds a count-target resolution by an already chosen end date.
	RangeEnd *time.Time
}

// ConfirmScheduleResult contains the result of confirming a schedule.
type ConfirmScheduleResult struct {
	ScheduleID         uuid.UUID
	Created            bool
	Resolved           *domain.ResolvedSchedule
	RemindersScheduled int
}

// ConfirmScheduleHandler handles the ConfirmScheduleCommand.
type ConfirmScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
	stock        domain.StockReader
	resolver     *domain.EndResolver
	reminders    ReminderScheduler
	publisher    eventbus.Publisher
	settings     ReminderSettings
	metrics      observability.Metrics
	logger       *slog.Logger
}

// NewConfirmScheduleHandler creates a new ConfirmScheduleHandler.
func NewConfirmScheduleHandler(
	scheduleRepo domain.ScheduleRepository,
	stock domain.StockReader,
	resolver *domain.EndResolver,
	reminders ReminderScheduler,
	publisher eventbus.Publisher,
	settings ReminderSettings,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ConfirmScheduleHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if publisher == nil {
		publisher = eventbus.NoopPublisher{}
	}
	return &ConfirmScheduleHandler{
		scheduleRepo: scheduleRepo,
		stock:        stock,
		resolver:     resolver,
		reminders:    reminders,
		publisher:    publisher,
		settings:     settings,
		metrics:      metrics,
		logger:       observability.OrDefault(logger),
	}
}

// Handle resolves the definition against the medicine's current stock and
// expiry, stores the outcome and replaces the schedule's reminders.
func (h *ConfirmScheduleHandler) Handle(ctx context.Context, cmd ConfirmScheduleCommand) (*ConfirmScheduleResult, error) {
	ctx = observability.WithOperation(ctx, "schedule.confirm")
	return observability.TimeOperationResult(h.logger, h.metrics, "schedule.confirm", func() (*ConfirmScheduleResult, error) {
		return h.handle(ctx, cmd)
	})
}

func (h *ConfirmScheduleHandler) handle(ctx context.Context, cmd ConfirmScheduleCommand) (*ConfirmScheduleResult, error) {
	var existing *domain.Schedule
	medicineID := cmd.MedicineID
	if cmd.ScheduleID != nil {
		s, err := h.scheduleRepo.FindByID(ctx, *cmd.ScheduleID)
		if err != nil {
			return nil, err
		}
		if medicineID == uuid.Nil {
			medicineID = s.MedicineID()
		} else if medicineID != s.MedicineID() {
			return nil, ErrMedicineMismatch
		}
		existing = s
	}

	medicine, err := h.stock.Snapshot(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("read medicine %s: %w", medicineID, err)
	}

	resolved, err := h.resolver.Resolve(domain.ResolveRequest{
		Definition: cmd.Definition,
		Stock:      medicine.Stock,
		Expiry:     medicine.Expiry,
		RangeEnd:   cmd.RangeEnd,
	})
	if err != nil {
		return nil, err
	}

	schedule := existing
	if schedule == nil {
		schedule, err = domain.NewSchedule(medicineID, cmd.Dose, cmd.Definition, resolved)
		if err != nil {
			return nil, err
		}
	} else if err := schedule.Revise(cmd.Definition, resolved, cmd.Dose); err != nil {
		return nil, err
	}

	if err := h.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	events := sharedApp.ApplyEventMetadata(schedule.PullDomainEvents(), sharedApp.EventMetadataFromContext(ctx, "dosing"))
	if err := eventbus.PublishEvents(ctx, h.publisher, events); err != nil {
		h.logger.WarnContext(ctx, "schedule saved but events were not published",
			"schedule_id", schedule.ID(),
			"error", err,
		)
	}

	result := &ConfirmScheduleResult{
		ScheduleID: schedule.ID(),
		Created:    existing == nil,
		Resolved:   resolved,
	}

	if h.reminders != nil {
		rc := ReminderContextFor(medicine, h.settings)
		n, err := h.reminders.Reschedule(ctx, schedule.ID(), schedule.IntakeEvents(), rc)
		if err != nil {
			h.logger.WarnContext(ctx, "reminders not fully rescheduled",
				"schedule_id", schedule.ID(),
				"error", err,
			)
		}
		result.RemindersScheduled = n
	}

	h.metrics.Counter(observability.MetricSchedulesConfirmed, 1,
		observability.T("end_mode", string(resolved.ActiveEndMode)))
	h.logger.InfoContext(ctx, "schedule confirmed",
		"schedule_id", schedule.ID(),
		"medicine_id", medicineID,
		"required_count", resolved.RequiredCount,
		"end_mode", resolved.ActiveEndMode,
		"warnings", len(resolved.Warnings),
	)
	return result, nil
}
