package domain

import (
	"math"
	"sort"
)

// windowEpsilon absorbs float drift when a step lands exactly on the end.
const windowEpsilon = 1e-6

// ResolveTimes turns a time rule into its intake times with duplicates
// removed. Explicit lists come back sorted; windows come back in the order
// they are generated, so a wrapping window lists the evening before the
// early-morning times. Invalid windows yield nothing.
func ResolveTimes(rule TimeSelectionRule) []TimeOfDay {
	switch rule.Kind {
	case TimeRuleExplicit:
		return resolveExplicit(rule.Times)
	case TimeRuleWindow:
		return resolveWindow(rule.Start, rule.End, rule.StepHours)
	default:
		return nil
	}
}

func resolveExplicit(times []TimeOfDay) []TimeOfDay {
	out := append([]TimeOfDay(nil), times...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, t := range out {
		if i > 0 && t == out[n-1] {
			continue
		}
		out[n] = t
		n++
	}
	return out[:n]
}

func resolveWindow(start, end TimeOfDay, stepHours float64) []TimeOfDay {
	if stepHours <= 0 || math.IsNaN(stepHours) || math.IsInf(stepHours, 0) {
		return nil
	}

	from := float64(start)
	to := float64(end)
	if end <= start {
		to += minutesPerDay
	}

	// Below one minute every minute is hit anyway once results are floored.
	stepMinutes := math.Max(stepHours*60, 1)

	var out []TimeOfDay
	seen := make(map[TimeOfDay]struct{})
	for i := 0; ; i++ {
		cur := from + float64(i)*stepMinutes
		if cur > to+windowEpsilon {
			break
		}
		minute := int(math.Floor(cur+windowEpsilon)) % minutesPerDay
		t := TimeOfDay(minute)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
