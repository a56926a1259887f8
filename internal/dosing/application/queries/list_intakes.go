package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
)

// IntakeDTO is an intake event with its taken state.
type IntakeDTO struct {
	domain.IntakeEvent
	At      time.Time
	Taken   bool
	TakenAt *time.Time
}

// ListIntakesQuery contains the parameters for listing intakes.
type ListIntakesQuery struct {
	ScheduleID uuid.UUID
	// From and To bound the listed days, inclusive. Zero values are open.
	From time.Time
	To   time.Time
	// PendingOnly hides taken intakes.
	PendingOnly bool
}

// ListIntakesHandler handles the ListIntakesQuery.
type ListIntakesHandler struct {
	scheduleRepo domain.ScheduleRepository
	intakeLog    domain.IntakeLog
	location     *time.Location
}

// NewListIntakesHandler creates a new ListIntakesHandler.
func NewListIntakesHandler(scheduleRepo domain.ScheduleRepository, intakeLog domain.IntakeLog, loc *time.Location) *ListIntakesHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ListIntakesHandler{scheduleRepo: scheduleRepo, intakeLog: intakeLog, location: loc}
}

// Handle executes the ListIntakesQuery.
func (h *ListIntakesHandler) Handle(ctx context.Context, query ListIntakesQuery) ([]IntakeDTO, error) {
	schedule, err := h.scheduleRepo.FindByID(ctx, query.ScheduleID)
	if err != nil {
		return nil, err
	}
	taken, err := h.intakeLog.TakenFor(ctx, schedule.ID())
	if err != nil {
		return nil, err
	}

	from, to := domain.Day(query.From), domain.Day(query.To)
	var intakes []IntakeDTO
	for _, ev := range schedule.IntakeEvents() {
		if !query.From.IsZero() && ev.Day.Before(from) {
			continue
		}
		if !query.To.IsZero() && ev.Day.After(to) {
			break
		}
		dto := IntakeDTO{IntakeEvent: ev, At: ev.At(h.location)}
		if at, ok := taken[ev.ID]; ok {
			dto.Taken = true
			dto.TakenAt = &at
		}
		if query.PendingOnly && dto.Taken {
			continue
		}
		intakes = append(intakes, dto)
	}
	return intakes, nil
}
