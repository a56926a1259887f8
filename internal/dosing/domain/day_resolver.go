package domain

import (
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = [7]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// ResolveByRange lists the active days of rule from start to end inclusive,
// ascending and without duplicates.
func ResolveByRange(rule DaySelectionRule, start, end time.Time) ([]time.Time, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return []time.Time{}, nil
	}

	switch rule.Kind {
	case DayRuleWeekdays:
		return expandWeekdays(rule.Weekdays, start, end, 0)
	default:
		days := make([]time.Time, 0)
		for d := start; !d.After(end); d = advance(d, rule.Step, rule.Unit) {
			days = append(days, d)
		}
		return days, nil
	}
}

// ResolveByCount lists exactly count active days of rule from start.
func ResolveByCount(rule DaySelectionRule, start time.Time, count int) ([]time.Time, error) {
	days, _, err := resolveByCountWithin(rule, start, count, time.Time{})
	return days, err
}

// resolveByCountWithin stops at horizon when it is set and reports whether
// fewer than count days fit before it.
func resolveByCountWithin(rule DaySelectionRule, start time.Time, count int, horizon time.Time) ([]time.Time, bool, error) {
	if err := rule.Validate(); err != nil {
		return nil, false, err
	}
	if count <= 0 {
		return []time.Time{}, false, nil
	}
	start = Day(start)
	if !horizon.IsZero() {
		horizon = Day(horizon)
	}

	var days []time.Time
	switch rule.Kind {
	case DayRuleWeekdays:
		var err error
		days, err = expandWeekdays(rule.Weekdays, start, horizon, count)
		if err != nil {
			return nil, false, err
		}
	default:
		capacity := count
		if !horizon.IsZero() {
			capacity = min(capacity, calendarDays(start, horizon))
		}
		days = make([]time.Time, 0, min(capacity, maxPrealloc))
		for d := start; len(days) < count; d = advance(d, rule.Step, rule.Unit) {
			if !horizon.IsZero() && d.After(horizon) {
				break
			}
			days = append(days, d)
		}
	}
	return days, len(days) < count, nil
}

func expandWeekdays(set WeekdaySet, start, until time.Time, count int) ([]time.Time, error) {
	byday := make([]rrule.Weekday, 0, 7)
	for _, d := range set.Days() {
		byday = append(byday, rruleWeekdays[d])
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Byweekday: byday,
		Until:     until,
		Count:     count,
	})
	if err != nil {
		return nil, err
	}

	occurrences := r.All()
	days := make([]time.Time, len(occurrences))
	for i, o := range occurrences {
		days[i] = Day(o)
	}
	return days, nil
}

// advance adds n units to d. Months and years move the calendar field, so
// a day-of-month missing from the target month overflows into the next.
func advance(d time.Time, n int, unit IntervalUnit) time.Time {
	switch unit {
	case UnitWeek:
		return d.AddDate(0, 0, 7*n)
	case UnitMonth:
		return d.AddDate(0, n, 0)
	case UnitYear:
		return d.AddDate(n, 0, 0)
	default:
		return d.AddDate(0, 0, n)
	}
}

// maxPrealloc caps the up-front allocation of unbounded count expansions.
const maxPrealloc = 4096

// calendarDays counts the days in [start, end], or 0 when end is before start.
func calendarDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int((Day(end).Unix()-Day(start).Unix())/86400) + 1
}
