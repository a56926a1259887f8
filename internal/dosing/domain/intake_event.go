package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IntakeEvent is one concrete dosing occurrence of a schedule.
type IntakeEvent struct {
	ID              string    `json:"id"`
	ScheduleID      uuid.UUID `json:"schedule_id"`
	Day             time.Time `json:"day"`
	Time            TimeOfDay `json:"time"`
	DoseDescription string    `json:"dose_description"`
}

// IntakeID is stable for a (schedule, day, time) triple, so a recomputed
// schedule produces the same identities for unchanged occurrences.
func IntakeID(scheduleID uuid.UUID, day time.Time, t TimeOfDay) string {
	return fmt.Sprintf("%s%s:%02d%02d", IntakePrefix(scheduleID), Day(day).Format("20060102"), t.Hour(), t.Minute())
}

// IntakePrefix is shared by every intake ID of a schedule.
func IntakePrefix(scheduleID uuid.UUID) string {
	return scheduleID.String() + ":"
}

// BelongsTo reports whether an intake ID was issued for the schedule.
func BelongsTo(intakeID string, scheduleID uuid.UUID) bool {
	return strings.HasPrefix(intakeID, IntakePrefix(scheduleID))
}

// ParseIntakeID splits an intake ID into its schedule, day and time.
func ParseIntakeID(intakeID string) (uuid.UUID, time.Time, TimeOfDay, error) {
	parts := strings.Split(intakeID, ":")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return uuid.Nil, time.Time{}, 0, ErrInvalidIntakeID
	}
	scheduleID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, time.Time{}, 0, ErrInvalidIntakeID
	}
	day, err := time.Parse("20060102", parts[1])
	if err != nil {
		return uuid.Nil, time.Time{}, 0, ErrInvalidIntakeID
	}
	t, err := ParseTimeOfDay(parts[2][:2] + ":" + parts[2][2:])
	if err != nil {
		return uuid.Nil, time.Time{}, 0, ErrInvalidIntakeID
	}
	return scheduleID, day, t, nil
}

// At places the event on the wall clock of loc.
func (e IntakeEvent) At(loc *time.Location) time.Time {
	return e.Time.On(e.Day, loc)
}

// Project expands a resolved schedule into its intake events ordered by
// (day, time). On a partially used last day only the remaining count is
// emitted, earliest times first.
func Project(scheduleID uuid.UUID, resolved *ResolvedSchedule, dose string) []IntakeEvent {
	if resolved == nil || len(resolved.Times) == 0 {
		return nil
	}

	times := append([]TimeOfDay(nil), resolved.Times...)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	days := append([]time.Time(nil), resolved.IntakeDays...)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	remaining := resolved.RequiredCount
	events := make([]IntakeEvent, 0, remaining)
	for _, day := range days {
		for _, t := range times {
			if remaining <= 0 {
				return events
			}
			events = append(events, IntakeEvent{
				ID:              IntakeID(scheduleID, day, t),
				ScheduleID:      scheduleID,
				Day:             Day(day),
				Time:            t,
				DoseDescription: dose,
			})
			remaining--
		}
	}
	return events
}

// DayGroup is the set of intake times falling on one day.
type DayGroup struct {
	Day   time.Time
	Times []TimeOfDay
}

// GroupByDay regroups ordered events by day.
func GroupByDay(events []IntakeEvent) []DayGroup {
	var groups []DayGroup
	for _, e := range events {
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(e.Day) {
			groups[n-1].Times = append(groups[n-1].Times, e.Time)
			continue
		}
		groups = append(groups, DayGroup{Day: e.Day, Times: []TimeOfDay{e.Time}})
	}
	return groups
}
