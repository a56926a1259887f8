package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
)

// ScheduleDTO is a data transfer object for schedules.
type ScheduleDTO struct {
	ID            uuid.UUID
	MedicineID    uuid.UUID
	Dose          string
	StartDate     time.Time
	EndDate       *time.Time
	EndMode       domain.EndMode
	RequiredCount int
	TimesPerDay   int
	Warnings      []domain.Warning
	UpdatedAt     time.Time
}

// ListSchedulesQuery filters by medicine when MedicineID is set.
type ListSchedulesQuery struct {
	MedicineID uuid.UUID
}

// ListSchedulesHandler handles the ListSchedulesQuery.
type ListSchedulesHandler struct {
	scheduleRepo domain.ScheduleRepository
}

// NewListSchedulesHandler creates a new ListSchedulesHandler.
func NewListSchedulesHandler(scheduleRepo domain.ScheduleRepository) *ListSchedulesHandler {
	return &ListSchedulesHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the ListSchedulesQuery.
func (h *ListSchedulesHandler) Handle(ctx context.Context, query ListSchedulesQuery) ([]ScheduleDTO, error) {
	var (
		schedules []*domain.Schedule
		err       error
	)
	if query.MedicineID != uuid.Nil {
		schedules, err = h.scheduleRepo.FindByMedicine(ctx, query.MedicineID)
	} else {
		schedules, err = h.scheduleRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]ScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		r := s.Resolved()
		dtos = append(dtos, ScheduleDTO{
			ID:            s.ID(),
			MedicineID:    s.MedicineID(),
			Dose:          s.Dose(),
			StartDate:     s.Definition().StartDate,
			EndDate:       r.EndDate,
			EndMode:       r.ActiveEndMode,
			RequiredCount: r.RequiredCount,
			TimesPerDay:   r.TimesPerDay(),
			Warnings:      r.Warnings,
			UpdatedAt:     s.UpdatedAt(),
		})
	}
	return dtos, nil
}
