package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Schedule"

const (
	RoutingScheduleConfirmed = "dosing.schedule.confirmed"
	RoutingScheduleRevised   = "dosing.schedule.revised"
	RoutingScheduleDeleted   = "dosing.schedule.deleted"
)

// ScheduleConfirmed is emitted when a definition is first confirmed.
type ScheduleConfirmed struct {
	sharedDomain.BaseEvent
	ScheduleID    uuid.UUID  `json:"schedule_id"`
	MedicineID    uuid.UUID  `json:"medicine_id"`
	EndMode       string     `json:"end_mode"`
	RequiredCount int        `json:"required_count"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// NewScheduleConfirmed creates a ScheduleConfirmed event.
func NewScheduleConfirmed(s *Schedule) *ScheduleConfirmed {
	return &ScheduleConfirmed{
		BaseEvent:     sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingScheduleConfirmed),
		ScheduleID:    s.ID(),
		MedicineID:    s.MedicineID(),
		EndMode:       string(s.Resolved().ActiveEndMode),
		RequiredCount: s.Resolved().RequiredCount,
		EndDate:       copyTime(s.Resolved().EndDate),
	}
}

// ScheduleRevised is emitted when a confirmed schedule is resolved again.
type ScheduleRevised struct {
	sharedDomain.BaseEvent
	ScheduleID       uuid.UUID  `json:"schedule_id"`
	MedicineID       uuid.UUID  `json:"medicine_id"`
	EndMode          string     `json:"end_mode"`
	RequiredCount    int        `json:"required_count"`
	PreviousRequired int        `json:"previous_required"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}

// NewScheduleRevised creates a ScheduleRevised event.
func NewScheduleRevised(s *Schedule, previousRequired int) *ScheduleRevised {
	return &ScheduleRevised{
		BaseEvent:        sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingScheduleRevised),
		ScheduleID:       s.ID(),
		MedicineID:       s.MedicineID(),
		EndMode:          string(s.Resolved().ActiveEndMode),
		RequiredCount:    s.Resolved().RequiredCount,
		PreviousRequired: previousRequired,
		EndDate:          copyTime(s.Resolved().EndDate),
	}
}

// ScheduleDeleted is emitted when a schedule is removed.
type ScheduleDeleted struct {
	sharedDomain.BaseEvent
	ScheduleID uuid.UUID `json:"schedule_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
}

// NewScheduleDeleted creates a ScheduleDeleted event.
func NewScheduleDeleted(s *Schedule) *ScheduleDeleted {
	return &ScheduleDeleted{
		BaseEvent:  sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingScheduleDeleted),
		ScheduleID: s.ID(),
		MedicineID: s.MedicineID(),
	}
}
