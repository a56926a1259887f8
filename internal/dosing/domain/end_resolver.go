package domain

import (
	"fmt"
	"time"
)

// DefaultHorizonYears bounds how far past today a schedule may end.
const DefaultHorizonYears = 100

// WarningCode identifies a non-blocking condition found while resolving.
type WarningCode string

const (
	WarningPastExpiry     WarningCode = "past_expiry"
	WarningCountClamped   WarningCode = "count_clamped"
	WarningExceedsStock   WarningCode = "exceeds_stock"
	WarningNoExpiry       WarningCode = "no_expiry"
	WarningStockExhausted WarningCode = "stock_exhausted"
)

// Warning is surfaced to the caller for display; the schedule is still accepted.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// ScheduleDefinition is the user's recurrence description before resolution.
type ScheduleDefinition struct {
	StartDate time.Time         `json:"start_date"`
	Days      DaySelectionRule  `json:"days"`
	Times     TimeSelectionRule `json:"times"`
	End       EndCondition      `json:"end"`
}

// Validate checks every part of the definition.
func (d ScheduleDefinition) Validate() error {
	if d.StartDate.IsZero() {
		return invalid("start_date", ErrMissingStartDate)
	}
	if err := d.Days.Validate(); err != nil {
		return err
	}
	if err := d.Times.Validate(); err != nil {
		return err
	}
	if len(ResolveTimes(d.Times)) == 0 {
		return invalid("times", ErrNoTimes)
	}
	return d.End.validate()
}

// ResolvedSchedule is the concrete outcome of resolving a definition.
type ResolvedSchedule struct {
	IntakeDays    []time.Time `json:"intake_days"`
	Times         []TimeOfDay `json:"times"`
	RequiredCount int         `json:"required_count"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
	ActiveEndMode EndMode     `json:"active_end_mode"`
	// EndModeCount keeps the user's target even when stock lowered the result.
	EndModeCount *int      `json:"end_mode_count,omitempty"`
	Warnings     []Warning `json:"warnings,omitempty"`
}

// TimesPerDay is the number of intakes on a fully used day.
func (r *ResolvedSchedule) TimesPerDay() int {
	return len(r.Times)
}

// HasWarning reports whether a warning with the code was raised.
func (r *ResolvedSchedule) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func (r *ResolvedSchedule) warn(code WarningCode, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// ResolveRequest carries everything a resolution depends on.
type ResolveRequest struct {
	Definition ScheduleDefinition
	Stock      StockSnapshot
	// Expiry is the medicine's expiry date, if any.
	Expiry *time.Time
	// RangeEnd is an already chosen end date that bounds a count-target
	// recomputation.
	RangeEnd *time.Time
}

// EndResolver combines the day, time and stock projections under the active
// end condition.
type EndResolver struct {
	now          func() time.Time
	horizonYears int
}

// EndResolverOption configures an EndResolver.
type EndResolverOption func(*EndResolver)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) EndResolverOption {
	return func(r *EndResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithHorizonYears sets the sanity horizon.
func WithHorizonYears(years int) EndResolverOption {
	return func(r *EndResolver) {
		if years > 0 {
			r.horizonYears = years
		}
	}
}

// NewEndResolver creates a resolver.
func NewEndResolver(opts ...EndResolverOption) *EndResolver {
	r := &EndResolver{
		now:          time.Now,
		horizonYears: DefaultHorizonYears,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Horizon is the last date a schedule may end on.
func (r *EndResolver) Horizon() time.Time {
	return Day(r.now()).AddDate(r.horizonYears, 0, 0)
}

// Resolve produces a new ResolvedSchedule; the request is not modified.
func (r *EndResolver) Resolve(req ResolveRequest) (*ResolvedSchedule, error) {
	def := req.Definition
	if err := def.Validate(); err != nil {
		return nil, err
	}

	start := Day(def.StartDate)
	times := ResolveTimes(def.Times)
	horizon := r.Horizon()

	switch def.End.Mode {
	case EndModeManual:
		return r.resolveUntil(def.Days, start, Day(def.End.Date), times, EndModeManual, req, horizon)

	case EndModeExpiryLinked:
		if req.Expiry == nil {
			if def.End.Date.IsZero() {
				return nil, invalid("end.expiry", ErrNoExpiryDate)
			}
			res, err := r.resolveUntil(def.Days, start, Day(def.End.Date), times, EndModeManual, req, horizon)
			if err != nil {
				return nil, err
			}
			res.warn(WarningNoExpiry, "medicine has no expiry date, keeping end date %s", Day(def.End.Date).Format(DateLayout))
			return res, nil
		}
		return r.resolveUntil(def.Days, start, Day(*req.Expiry), times, EndModeExpiryLinked, req, horizon)

	default:
		return r.resolveCount(def, start, times, req, horizon)
	}
}

// Candidates returns the end dates the expiry-linked and count-target modes
// would produce for the definition. A mode that cannot resolve yields nil.
// The count candidate keeps the definition's target when it is already in
// count mode.
func (r *EndResolver) Candidates(def ScheduleDefinition, stock StockSnapshot, expiry *time.Time) (expiryDate, countDate *time.Time) {
	if expiry != nil {
		alt := def
		alt.End = ExpiryLinkedEnd()
		if res, err := r.Resolve(ResolveRequest{Definition: alt, Stock: stock, Expiry: expiry}); err == nil {
			expiryDate = res.EndDate
		}
	}

	var target *int
	if def.End.Mode == EndModeCountTarget {
		target = def.End.Count
	}
	if target != nil || stock.IsBounded() {
		alt := def
		alt.End = CountTargetEnd(target)
		if res, err := r.Resolve(ResolveRequest{Definition: alt, Stock: stock, Expiry: expiry}); err == nil {
			countDate = res.EndDate
		}
	}
	return expiryDate, countDate
}

func (r *EndResolver) resolveUntil(
	rule DaySelectionRule,
	start, end time.Time,
	times []TimeOfDay,
	mode EndMode,
	req ResolveRequest,
	horizon time.Time,
) (*ResolvedSchedule, error) {
	if end.Before(start) {
		return nil, invalid("end.date", ErrEndBeforeStart)
	}
	if end.After(horizon) {
		return nil, invalid("end.date", ErrBeyondHorizon)
	}

	days, err := ResolveByRange(rule, start, end)
	if err != nil {
		return nil, err
	}

	res := &ResolvedSchedule{
		IntakeDays:    days,
		Times:         times,
		RequiredCount: len(days) * len(times),
		EndDate:       &end,
		ActiveEndMode: mode,
	}

	// Manual ranges are never capped by stock, only flagged.
	if affordable := req.Stock.MaxIntakes(); affordable != Unbounded && res.RequiredCount > affordable {
		res.warn(WarningExceedsStock, "schedule needs %d intakes, stock covers %d", res.RequiredCount, affordable)
	}
	checkExpiry(res, req.Expiry)
	return res, nil
}

func (r *EndResolver) resolveCount(
	def ScheduleDefinition,
	start time.Time,
	times []TimeOfDay,
	req ResolveRequest,
	horizon time.Time,
) (*ResolvedSchedule, error) {
	perDay := len(times)
	target := def.End.Count
	possible := req.Stock.MaxIntakes()

	var final int
	if possible != Unbounded {
		final = possible
		if target != nil && *target < possible {
			final = *target
		}
	} else {
		if target == nil {
			return nil, invalid("end.count", ErrCountRequired)
		}
		final = *target
	}

	var rangeDays []time.Time
	if req.RangeEnd != nil {
		end := Day(*req.RangeEnd)
		if end.Before(start) {
			return nil, invalid("end.date", ErrEndBeforeStart)
		}
		if end.After(horizon) {
			return nil, invalid("end.date", ErrBeyondHorizon)
		}
		var err error
		rangeDays, err = ResolveByRange(def.Days, start, end)
		if err != nil {
			return nil, err
		}
		if rangeMax := len(rangeDays) * perDay; final > rangeMax {
			final = rangeMax
		}
	}

	res := &ResolvedSchedule{
		IntakeDays:    []time.Time{},
		Times:         times,
		ActiveEndMode: EndModeCountTarget,
		EndModeCount:  copyInt(target),
	}
	if target != nil && final < *target {
		res.warn(WarningCountClamped, "requested %d intakes, scheduling %d", *target, final)
	}
	if final <= 0 {
		if possible == 0 {
			res.warn(WarningStockExhausted, "no stock left for another intake")
		}
		return res, nil
	}

	daysNeeded := final / perDay
	if final%perDay != 0 {
		daysNeeded++
	}
	// No rule yields more than one intake day per calendar day.
	if rangeDays == nil && daysNeeded > calendarDays(start, horizon) {
		return nil, invalid("end.count", ErrBeyondHorizon)
	}
	var days []time.Time
	if rangeDays != nil {
		days = rangeDays[:daysNeeded]
	} else {
		var truncated bool
		var err error
		days, truncated, err = resolveByCountWithin(def.Days, start, daysNeeded, horizon)
		if err != nil {
			return nil, err
		}
		if truncated {
			return nil, invalid("end.count", ErrBeyondHorizon)
		}
	}

	if len(days) == 0 {
		return nil, invalid("end.count", ErrBeyondHorizon)
	}
	end := days[len(days)-1]
	res.IntakeDays = days
	res.RequiredCount = final
	res.EndDate = &end
	checkExpiry(res, req.Expiry)
	return res, nil
}

func checkExpiry(res *ResolvedSchedule, expiry *time.Time) {
	if expiry == nil || res.EndDate == nil {
		return
	}
	if res.EndDate.After(Day(*expiry)) {
		res.warn(WarningPastExpiry, "schedule ends %s, after expiry on %s",
			res.EndDate.Format(DateLayout), Day(*expiry).Format(DateLayout))
	}
}
