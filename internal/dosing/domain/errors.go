package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingStartDate  = errors.New("start date is required")
	ErrInvalidDayRule    = errors.New("unknown day selection rule")
	ErrEmptyWeekdays     = errors.New("weekday rule selects no days")
	ErrInvalidStep       = errors.New("interval step must be positive")
	ErrInvalidUnit       = errors.New("unknown interval unit")
	ErrInvalidTimeRule   = errors.New("unknown time selection rule")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrInvalidWindowStep = errors.New("window step must be positive")
	ErrDuplicateTime     = errors.New("time listed more than once")
	ErrNoTimes           = errors.New("time rule yields no times")
	ErrInvalidEndMode    = errors.New("unknown end condition")
	ErrMissingEndDate    = errors.New("end date is required")
	ErrEndBeforeStart    = errors.New("end date is before start date")
	ErrNoExpiryDate      = errors.New("medicine has no expiry date")
	ErrInvalidCount      = errors.New("target count must be positive")
	ErrCountRequired     = errors.New("target count is required when stock is not tracked")
	ErrBeyondHorizon     = errors.New("schedule ends beyond the planning horizon")

	ErrScheduleNotFound = errors.New("schedule not found")
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrIntakeNotFound   = errors.New("intake not found")
	ErrInvalidIntakeID  = errors.New("malformed intake id")
)

// ValidationError reports which field of a schedule definition was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is an input rejection rather than a fault.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
