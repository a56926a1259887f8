package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// DefinitionFlags collects the flags that describe a schedule definition.
type DefinitionFlags struct {
	Start   string
	Days    string
	Times   string
	Window  string
	Every   float64
	Mode    string
	EndDate string
	Count   int
}

// Register binds the flags to cmd.
func (f *DefinitionFlags) Register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.Start, "start", "", "first intake day (YYYY-MM-DD, default today)")
	fs.StringVar(&f.Days, "days", "daily", "daily, weekdays, weekends, a weekday list (mon,wed,fri) or an interval (2d, 1w, 3m, 1y)")
	fs.StringVar(&f.Times, "times", "08:00", "comma-separated intake times (HH:MM)")
	fs.StringVar(&f.Window, "window", "", "intake window HH:MM-HH:MM, stepped by --every")
	fs.Float64Var(&f.Every, "every", 0, "window step in hours")
	fs.StringVar(&f.Mode, "mode", "", "end mode: manual, expiry or count")
	fs.StringVar(&f.EndDate, "end-date", "", "end date (YYYY-MM-DD)")
	fs.IntVar(&f.Count, "count", 0, "number of intakes (count mode)")
}

// InferMode reports whether the end mode is left to the end date: only an
// end date was given.
func (f *DefinitionFlags) InferMode() bool {
	return f.Mode == "" && f.Count == 0 && f.EndDate != ""
}

// Definition builds a schedule definition. today is used when no start is
// given.
func (f *DefinitionFlags) Definition(today time.Time) (domain.ScheduleDefinition, error) {
	def := domain.ScheduleDefinition{StartDate: domain.Day(today)}
	if f.Start != "" {
		start, err := domain.ParseDate(f.Start)
		if err != nil {
			return def, fmt.Errorf("invalid --start: %w", err)
		}
		def.StartDate = start
	}

	days, err := ParseDays(f.Days)
	if err != nil {
		return def, err
	}
	def.Days = days

	if f.Window != "" {
		def.Times, err = ParseWindow(f.Window, f.Every)
	} else {
		def.Times, err = ParseTimes(f.Times)
	}
	if err != nil {
		return def, err
	}

	def.End, err = f.endCondition()
	return def, err
}

// EndDateValue parses --end-date.
func (f *DefinitionFlags) EndDateValue() (time.Time, error) {
	d, err := domain.ParseDate(f.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --end-date: %w", err)
	}
	return d, nil
}

func (f *DefinitionFlags) endCondition() (domain.EndCondition, error) {
	var count *int
	if f.Count > 0 {
		count = domain.CountOf(f.Count)
	}

	mode := domain.EndMode(strings.ToLower(f.Mode))
	if mode == "" {
		switch {
		case count != nil:
			mode = domain.EndModeCountTarget
		case f.EndDate != "":
			mode = domain.EndModeManual
		default:
			mode = domain.EndModeCountTarget
		}
	}

	switch mode {
	case domain.EndModeManual:
		if f.EndDate == "" {
			return domain.EndCondition{}, fmt.Errorf("--end-date is required in manual mode")
		}
		d, err := f.EndDateValue()
		if err != nil {
			return domain.EndCondition{}, err
		}
		return domain.ManualEnd(d), nil
	case domain.EndModeExpiryLinked:
		end := domain.ExpiryLinkedEnd()
		if f.EndDate != "" {
			d, err := f.EndDateValue()
			if err != nil {
				return domain.EndCondition{}, err
			}
			end.Date = d
		}
		return end, nil
	case domain.EndModeCountTarget:
		return domain.CountTargetEnd(count), nil
	default:
		return domain.EndCondition{}, fmt.Errorf("unknown --mode %q (manual, expiry, count)", f.Mode)
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

var intervalUnits = map[byte]domain.IntervalUnit{
	'd': domain.UnitDay,
	'w': domain.UnitWeek,
	'm': domain.UnitMonth,
	'y': domain.UnitYear,
}

// ParseDays parses a day selection rule.
func ParseDays(s string) (domain.DaySelectionRule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "daily":
		return domain.EveryDay(), nil
	case "weekdays":
		return domain.WeekdaysRule(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), nil
	case "weekends":
		return domain.WeekdaysRule(time.Saturday, time.Sunday), nil
	}

	if unit, ok := intervalUnits[s[len(s)-1]]; ok {
		if step, err := strconv.Atoi(s[:len(s)-1]); err == nil {
			if step < 1 {
				return domain.DaySelectionRule{}, fmt.Errorf("interval step must be at least 1, got %d", step)
			}
			return domain.IntervalRule(step, unit), nil
		}
	}

	var days []time.Weekday
	for _, name := range strings.Split(s, ",") {
		day, ok := weekdayNames[strings.TrimSpace(name)]
		if !ok {
			return domain.DaySelectionRule{}, fmt.Errorf("unknown day %q", name)
		}
		days = append(days, day)
	}
	return domain.WeekdaysRule(days...), nil
}

// ParseTimes parses a comma-separated list of times of day.
func ParseTimes(s string) (domain.TimeSelectionRule, error) {
	var times []domain.TimeOfDay
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := domain.ParseTimeOfDay(part)
		if err != nil {
			return domain.TimeSelectionRule{}, fmt.Errorf("invalid time %q: %w", part, err)
		}
		times = append(times, t)
	}
	if len(times) == 0 {
		return domain.TimeSelectionRule{}, fmt.Errorf("at least one intake time is required")
	}
	return domain.ExplicitTimes(times...), nil
}

// ParseWindow parses an HH:MM-HH:MM window stepped every hours.
func ParseWindow(s string, every float64) (domain.TimeSelectionRule, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return domain.TimeSelectionRule{}, fmt.Errorf("invalid window %q, want HH:MM-HH:MM", s)
	}
	start, err := domain.ParseTimeOfDay(strings.TrimSpace(from))
	if err != nil {
		return domain.TimeSelectionRule{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := domain.ParseTimeOfDay(strings.TrimSpace(to))
	if err != nil {
		return domain.TimeSelectionRule{}, fmt.Errorf("invalid window end: %w", err)
	}
	if every <= 0 {
		return domain.TimeSelectionRule{}, fmt.Errorf("--every must be positive with --window")
	}
	return domain.Window(start, end, every), nil
}

// ParseID parses a uuid argument.
func ParseID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID %q: %w", kind, s, err)
	}
	return id, nil
}
