package domain

import "time"

// EndMode tags which end condition terminates a schedule.
type EndMode string

const (
	EndModeManual       EndMode = "manual"
	EndModeExpiryLinked EndMode = "expiry"
	EndModeCountTarget  EndMode = "count"
)

// IsValid checks if the mode is known.
func (m EndMode) IsValid() bool {
	switch m {
	case EndModeManual, EndModeExpiryLinked, EndModeCountTarget:
		return true
	default:
		return false
	}
}

// EndCondition is the single active end condition of a schedule.
//
// Date is the chosen end date in manual mode. In expiry-linked mode it holds
// the last manual date, used when the medicine turns out to have no expiry.
// Count is the user's target in count mode; nil lets stock decide.
type EndCondition struct {
	Mode  EndMode   `json:"mode"`
	Date  time.Time `json:"date,omitempty"`
	Count *int      `json:"count,omitempty"`
}

// ManualEnd ends the schedule on the given date.
func ManualEnd(date time.Time) EndCondition {
	return EndCondition{Mode: EndModeManual, Date: Day(date)}
}

// ExpiryLinkedEnd ends the schedule on the medicine's expiry date.
func ExpiryLinkedEnd() EndCondition {
	return EndCondition{Mode: EndModeExpiryLinked}
}

// CountTargetEnd ends the schedule after a number of intakes. A nil count
// means "as many as stock allows".
func CountTargetEnd(count *int) EndCondition {
	return EndCondition{Mode: EndModeCountTarget, Count: copyInt(count)}
}

// CountOf is a convenience for CountTargetEnd with a literal.
func CountOf(n int) *int {
	return &n
}

func (c EndCondition) validate() error {
	switch c.Mode {
	case EndModeManual:
		if c.Date.IsZero() {
			return invalid("end.date", ErrMissingEndDate)
		}
	case EndModeExpiryLinked:
	case EndModeCountTarget:
		if c.Count != nil && *c.Count <= 0 {
			return invalid("end.count", ErrInvalidCount)
		}
	default:
		return invalid("end.mode", ErrInvalidEndMode)
	}
	return nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
