package application

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueNotifier_Handle(t *testing.T) {
	var out bytes.Buffer
	notifier := NewDueNotifier(&out, time.UTC)
	due := domain.NewReminderDue("rem-1", domain.Request{
		Title:     "Ibuprofen",
		Body:      "Take 2 units (1 tablet)",
		TriggerAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		Data:      map[string]string{domain.DataScheduleID: uuid.NewString()},
	})
	envelope, err := sharedDomain.NewEnvelope(due)
	require.NoError(t, err)

	require.NoError(t, notifier.Handle(context.Background(), &envelope))

	assert.Equal(t, "2024-01-02 08:00  Ibuprofen: Take 2 units (1 tablet)\n", out.String())
	assert.Equal(t, []string{domain.RoutingReminderDue}, notifier.EventTypes())
}

func TestDueNotifier_RejectsMalformedPayload(t *testing.T) {
	notifier := NewDueNotifier(&bytes.Buffer{}, nil)

	err := notifier.Handle(context.Background(), &sharedDomain.Envelope{Payload: json.RawMessage(`[]`)})

	assert.Error(t, err)
}
