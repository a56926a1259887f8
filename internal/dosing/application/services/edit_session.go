package services

import (
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
)

// EditSession follows one editing flow of a schedule definition. Every edit
// re-resolves the definition and keeps the end mode reconciled with the end
// date shown to the user. It is not safe for concurrent use.
type EditSession struct {
	resolver   *domain.EndResolver
	reconciler *domain.EndModeReconciler
	medicine   domain.MedicineSnapshot

	definition domain.ScheduleDefinition
	// rangeEnd bounds a count-target schedule after a date edit that kept
	// count mode while the reconciler was suppressed.
	rangeEnd *time.Time
	resolved *domain.ResolvedSchedule
	lastErr    error
}

// NewEditSession starts a session from an initial definition.
func NewEditSession(
	resolver *domain.EndResolver,
	medicine domain.MedicineSnapshot,
	initial domain.ScheduleDefinition,
	config domain.ReconcilerConfig,
	now func() time.Time,
) *EditSession {
	s := &EditSession{
		resolver:   resolver,
		reconciler: domain.NewEndModeReconciler(initial.End.Mode, config, now),
		medicine:   medicine,
		definition: initial,
	}
	s.resolve()
	return s
}

func (s *EditSession) Definition() domain.ScheduleDefinition { return s.definition }
func (s *EditSession) Mode() domain.EndMode                  { return s.reconciler.Mode() }
func (s *EditSession) State() domain.ReconcilerState         { return s.reconciler.State() }

// Resolved returns the latest resolution and the error of the last edit, if
// that edit could not be resolved.
func (s *EditSession) Resolved() (*domain.ResolvedSchedule, error) {
	return s.resolved, s.lastErr
}

// EndDate is the end date currently shown.
func (s *EditSession) EndDate() *time.Time {
	if s.resolved != nil && s.resolved.EndDate != nil {
		return s.resolved.EndDate
	}
	if !s.definition.End.Date.IsZero() {
		d := s.definition.End.Date
		return &d
	}
	return nil
}

// SelectMode switches the end mode explicitly. Computed modes push their
// end date; manual keeps the date on screen.
func (s *EditSession) SelectMode(mode domain.EndMode) (*domain.ResolvedSchedule, error) {
	s.rangeEnd = nil
	switch mode {
	case domain.EndModeManual:
		var date time.Time
		if end := s.EndDate(); end != nil {
			date = *end
		}
		s.reconciler.SelectManual()
		s.definition.End = domain.ManualEnd(date)
	case domain.EndModeExpiryLinked:
		s.definition.End = domain.ExpiryLinkedEnd()
		if end := s.EndDate(); end != nil {
			s.definition.End.Date = *end
		}
	case domain.EndModeCountTarget:
		s.definition.End = domain.CountTargetEnd(s.definition.End.Count)
	default:
		return s.resolved, domain.ErrInvalidEndMode
	}
	return s.resolve()
}

// SetCount sets the count target and switches to count mode.
func (s *EditSession) SetCount(count *int) (*domain.ResolvedSchedule, error) {
	s.rangeEnd = nil
	s.definition.End = domain.CountTargetEnd(count)
	return s.resolve()
}

// SetEndDate applies a raw end date edit. The reconciler decides which mode
// the date belongs to; a date matching no computed candidate is manual.
// A date that stays in count mode without echoing the computed end date
// bounds the count to the days up to it.
func (s *EditSession) SetEndDate(date time.Time) (*domain.ResolvedSchedule, error) {
	date = domain.Day(date)
	current := s.EndDate()
	mode, _ := s.reconciler.OnDateChanged(date)
	s.rangeEnd = nil
	switch mode {
	case domain.EndModeExpiryLinked:
		s.definition.End = domain.ExpiryLinkedEnd()
		s.definition.End.Date = date
	case domain.EndModeCountTarget:
		s.definition.End = domain.CountTargetEnd(s.definition.End.Count)
		if current == nil || !current.Equal(date) {
			s.rangeEnd = &date
		}
	default:
		s.definition.End = domain.ManualEnd(date)
	}
	return s.resolve()
}

// Update applies any other edit to the definition, such as start date,
// days or times.
func (s *EditSession) Update(edit func(def *domain.ScheduleDefinition)) (*domain.ResolvedSchedule, error) {
	edit(&s.definition)
	return s.resolve()
}

func (s *EditSession) resolve() (*domain.ResolvedSchedule, error) {
	resolved, err := s.resolver.Resolve(domain.ResolveRequest{
		Definition: s.definition,
		Stock:      s.medicine.Stock,
		Expiry:     s.medicine.Expiry,
		RangeEnd:   s.rangeEnd,
	})
	s.lastErr = err
	expiry, count := s.resolver.Candidates(s.definition, s.medicine.Stock, s.medicine.Expiry)
	s.reconciler.SetCandidates(expiry, count)
	if err != nil {
		return nil, err
	}
	s.resolved = resolved

	if mode := resolved.ActiveEndMode; mode != domain.EndModeManual && resolved.EndDate != nil {
		s.reconciler.PushComputed(mode, *resolved.EndDate)
	} else if s.definition.End.Mode != domain.EndModeManual && resolved.ActiveEndMode == domain.EndModeManual {
		// Expiry-linked without an expiry date fell back to manual.
		s.reconciler.SelectManual()
	}
	return resolved, nil
}
