package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/google/uuid"
)

var ErrScheduleUnresolved = errors.New("schedule has no resolved intakes")

// Schedule is a confirmed dosing schedule of one medicine.
type Schedule struct {
	sharedDomain.BaseAggregateRoot
	medicineID uuid.UUID
	dose       string
	definition ScheduleDefinition
	resolved   *ResolvedSchedule
}

// NewSchedule confirms a resolved definition.
func NewSchedule(medicineID uuid.UUID, dose string, def ScheduleDefinition, resolved *ResolvedSchedule) (*Schedule, error) {
	if resolved == nil {
		return nil, ErrScheduleUnresolved
	}
	s := &Schedule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		medicineID:        medicineID,
		dose:              strings.TrimSpace(dose),
		definition:        def,
		resolved:          resolved,
	}
	s.AddDomainEvent(NewScheduleConfirmed(s))
	return s, nil
}

// RehydrateSchedule recreates a schedule from persisted state without events.
func RehydrateSchedule(
	id uuid.UUID,
	medicineID uuid.UUID,
	dose string,
	def ScheduleDefinition,
	resolved *ResolvedSchedule,
	createdAt, updatedAt time.Time,
	version int,
) *Schedule {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Schedule{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity, version),
		medicineID:        medicineID,
		dose:              dose,
		definition:        def,
		resolved:          resolved,
	}
}

// Getters
func (s *Schedule) MedicineID() uuid.UUID          { return s.medicineID }
func (s *Schedule) Dose() string                   { return s.dose }
func (s *Schedule) Definition() ScheduleDefinition { return s.definition }
func (s *Schedule) Resolved() *ResolvedSchedule    { return s.resolved }

// Revise replaces the definition with a newly resolved one. Reminders of the
// previous resolution must be cancelled by the caller.
func (s *Schedule) Revise(def ScheduleDefinition, resolved *ResolvedSchedule, dose string) error {
	if resolved == nil {
		return ErrScheduleUnresolved
	}
	previous := s.resolved.RequiredCount
	s.definition = def
	s.resolved = resolved
	if d := strings.TrimSpace(dose); d != "" {
		s.dose = d
	}
	s.Touch()
	s.AddDomainEvent(NewScheduleRevised(s, previous))
	return nil
}

// MarkDeleted records the deletion event.
func (s *Schedule) MarkDeleted() {
	s.AddDomainEvent(NewScheduleDeleted(s))
}

// IntakeEvents projects the schedule onto its intake events.
func (s *Schedule) IntakeEvents() []IntakeEvent {
	return Project(s.ID(), s.resolved, s.dose)
}
