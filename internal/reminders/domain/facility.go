package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTriggerInPast    = errors.New("reminder trigger is in the past")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrFacilityRejected = errors.New("reminder facility returned no reminder id")
	ErrPermissionDenied = errors.New("reminder permission denied")
)

// Permission is the outcome of a permission request.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Request describes one reminder to deliver.
type Request struct {
	Title     string
	Body      string
	Data      map[string]string
	TriggerAt time.Time
	Channel   string
}

// Facility delivers reminders at a point in time. Implementations reject
// triggers that are not in the future with ErrTriggerInPast.
type Facility interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Schedule(ctx context.Context, req Request) (string, error)
	Cancel(ctx context.Context, reminderID string) error
	CancelAll(ctx context.Context) error
}
