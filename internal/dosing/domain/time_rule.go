package domain

import "math"

// TimeRuleKind selects how intake times within a day are chosen.
type TimeRuleKind string

const (
	TimeRuleExplicit TimeRuleKind = "explicit"
	TimeRuleWindow   TimeRuleKind = "window"
)

// TimeSelectionRule lists intake times explicitly or as a stepped window.
// A window whose end is not after its start wraps past midnight.
type TimeSelectionRule struct {
	Kind      TimeRuleKind `json:"kind"`
	Times     []TimeOfDay  `json:"times,omitempty"`
	Start     TimeOfDay    `json:"start,omitempty"`
	End       TimeOfDay    `json:"end,omitempty"`
	StepHours float64      `json:"step_hours,omitempty"`
}

// ExplicitTimes builds a rule from a fixed list of times.
func ExplicitTimes(times ...TimeOfDay) TimeSelectionRule {
	return TimeSelectionRule{Kind: TimeRuleExplicit, Times: append([]TimeOfDay(nil), times...)}
}

// Window builds a rule stepping from start to end every stepHours.
func Window(start, end TimeOfDay, stepHours float64) TimeSelectionRule {
	return TimeSelectionRule{Kind: TimeRuleWindow, Start: start, End: end, StepHours: stepHours}
}

// Wraps reports whether a window crosses midnight.
func (r TimeSelectionRule) Wraps() bool {
	return r.Kind == TimeRuleWindow && r.End <= r.Start
}

// Validate rejects rules that cannot yield any intake time.
func (r TimeSelectionRule) Validate() error {
	switch r.Kind {
	case TimeRuleExplicit:
		seen := make(map[TimeOfDay]struct{}, len(r.Times))
		for _, t := range r.Times {
			if t < 0 || t >= minutesPerDay {
				return invalid("times.times", ErrInvalidTimeOfDay)
			}
			if _, dup := seen[t]; dup {
				return invalid("times.times", ErrDuplicateTime)
			}
			seen[t] = struct{}{}
		}
		if len(r.Times) == 0 {
			return invalid("times.times", ErrNoTimes)
		}
	case TimeRuleWindow:
		if r.Start < 0 || r.Start >= minutesPerDay || r.End < 0 || r.End >= minutesPerDay {
			return invalid("times.window", ErrInvalidTimeOfDay)
		}
		if r.StepHours <= 0 || math.IsNaN(r.StepHours) || math.IsInf(r.StepHours, 0) {
			return invalid("times.step_hours", ErrInvalidWindowStep)
		}
	default:
		return invalid("times.kind", ErrInvalidTimeRule)
	}
	return nil
}
