package eventbus

import (
	"context"

	"github.com/felixgeelhaar/dosewise/internal/shared/domain"
)

// EventConsumer handles specific event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles.
	// e.g., ["dosing.schedule.confirmed", "reminders.reminder.due"]
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *domain.Envelope) error
}
