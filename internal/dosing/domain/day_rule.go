package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// DayRuleKind selects how active calendar days are chosen.
type DayRuleKind string

const (
	DayRuleWeekdays DayRuleKind = "weekdays"
	DayRuleInterval DayRuleKind = "interval"
)

// IntervalUnit is the unit of an interval step.
type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
	UnitYear  IntervalUnit = "year"
)

// IsValid checks if the unit is known.
func (u IntervalUnit) IsValid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	default:
		return false
	}
}

// WeekdaySet holds one flag per weekday, indexed by time.Weekday.
type WeekdaySet [7]bool

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s[d] = true
		}
	}
	return s
}

// Has reports whether the weekday is selected.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return d >= time.Sunday && d <= time.Saturday && s[d]
}

// IsEmpty reports whether no weekday is selected.
func (s WeekdaySet) IsEmpty() bool {
	return len(s.Days()) == 0
}

// Days lists the selected weekdays, Sunday first.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s[d] {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON encodes the set as a list of weekday numbers (0 = Sunday).
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	nums := make([]int, len(days))
	for i, d := range days {
		nums[i] = int(d)
	}
	return json.Marshal(nums)
}

// UnmarshalJSON decodes a list of weekday numbers.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	sort.Ints(nums)
	days := make([]time.Weekday, 0, len(nums))
	for _, n := range nums {
		days = append(days, time.Weekday(n))
	}
	*s = NewWeekdaySet(days...)
	return nil
}

// DaySelectionRule describes which calendar days carry intakes: either a
// set of weekdays or a fixed step from the start date.
type DaySelectionRule struct {
	Kind     DayRuleKind  `json:"kind"`
	Weekdays WeekdaySet   `json:"weekdays,omitempty"`
	Step     int          `json:"step,omitempty"`
	Unit     IntervalUnit `json:"unit,omitempty"`
}

// WeekdaysRule selects days whose weekday is in the set.
func WeekdaysRule(days ...time.Weekday) DaySelectionRule {
	return DaySelectionRule{Kind: DayRuleWeekdays, Weekdays: NewWeekdaySet(days...)}
}

// EveryDay selects every calendar day.
func EveryDay() DaySelectionRule {
	return IntervalRule(1, UnitDay)
}

// IntervalRule selects the start date and every step units after it.
func IntervalRule(step int, unit IntervalUnit) DaySelectionRule {
	return DaySelectionRule{Kind: DayRuleInterval, Step: step, Unit: unit}
}

// Validate rejects rules the resolver cannot terminate on.
func (r DaySelectionRule) Validate() error {
	switch r.Kind {
	case DayRuleWeekdays:
		if r.Weekdays.IsEmpty() {
			return invalid("days.weekdays", ErrEmptyWeekdays)
		}
	case DayRuleInterval:
		if r.Step <= 0 {
			return invalid("days.step", ErrInvalidStep)
		}
		if !r.Unit.IsValid() {
			return invalid("days.unit", ErrInvalidUnit)
		}
	default:
		return invalid("days.kind", ErrInvalidDayRule)
	}
	return nil
}
