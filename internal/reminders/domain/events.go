package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/google/uuid"
)

// RoutingReminderDue is published when a reminder's trigger time is reached.
const RoutingReminderDue = "reminders.reminder.due"

// Keys of Request.Data.
const (
	DataIntakeID   = "intakeId"
	DataScheduleID = "scheduleId"
)

// ReminderDue carries a reminder that fired.
type ReminderDue struct {
	sharedDomain.BaseEvent
	ReminderID string    `json:"reminder_id"`
	IntakeID   string    `json:"intake_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Channel    string    `json:"channel,omitempty"`
	TriggerAt  time.Time `json:"trigger_at"`
}

// NewReminderDue creates a ReminderDue event for a fired request. The
// aggregate is the schedule named in the request data, if any.
func NewReminderDue(reminderID string, req Request) *ReminderDue {
	scheduleID, err := uuid.Parse(req.Data[DataScheduleID])
	if err != nil {
		scheduleID = uuid.Nil
	}
	return &ReminderDue{
		BaseEvent:  sharedDomain.NewBaseEvent(scheduleID, "Schedule", RoutingReminderDue),
		ReminderID: reminderID,
		IntakeID:   req.Data[DataIntakeID],
		Title:      req.Title,
		Body:       req.Body,
		Channel:    req.Channel,
		TriggerAt:  req.TriggerAt,
	}
}
