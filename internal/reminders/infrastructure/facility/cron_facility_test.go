package facility_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/internal/reminders/infrastructure/facility"
	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dueCollector struct {
	mu     sync.Mutex
	events []domain.ReminderDue
}

func (c *dueCollector) EventTypes() []string { return []string{domain.RoutingReminderDue} }

func (c *dueCollector) Handle(_ context.Context, event *sharedDomain.Envelope) error {
	var due domain.ReminderDue
	if err := json.Unmarshal(event.Payload, &due); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, due)
	return nil
}

func (c *dueCollector) received() []domain.ReminderDue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ReminderDue(nil), c.events...)
}

func newBus(t *testing.T) (*eventbus.InProcessEventBus, *dueCollector) {
	t.Helper()
	bus := eventbus.NewInProcessEventBus(nil)
	collector := &dueCollector{}
	bus.RegisterConsumer(collector)
	return bus, collector
}

func TestCronFacility_RejectsPastTrigger(t *testing.T) {
	f := facility.NewCronFacility(time.UTC, nil)

	_, err := f.Schedule(context.Background(), domain.Request{TriggerAt: time.Now().Add(-time.Minute)})

	assert.ErrorIs(t, err, domain.ErrTriggerInPast)
	assert.Equal(t, 0, f.Pending())
}

func TestCronFacility_FiresAndPublishes(t *testing.T) {
	bus, collector := newBus(t)
	metrics := observability.NewInMemoryMetrics()
	f := facility.NewCronFacility(time.UTC, bus, facility.WithCronMetrics(metrics))
	f.Start()
	t.Cleanup(func() { _ = f.Stop(context.Background()) })

	scheduleID := uuid.New()
	id, err := f.Schedule(context.Background(), domain.Request{
		Title: "Ibuprofen",
		Body:  "Take 2 units",
		Data: map[string]string{
			domain.DataIntakeID:   scheduleID.String() + ":20240101:0800",
			domain.DataScheduleID: scheduleID.String(),
		},
		TriggerAt: time.Now().Add(150 * time.Millisecond),
		Channel:   "medication",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Pending())

	require.Eventually(t, func() bool { return len(collector.received()) == 1 }, 3*time.Second, 20*time.Millisecond)

	due := collector.received()[0]
	assert.Equal(t, id, due.ReminderID)
	assert.Equal(t, scheduleID.String()+":20240101:0800", due.IntakeID)
	assert.Equal(t, "Ibuprofen", due.Title)
	assert.Equal(t, "medication", due.Channel)
	assert.Eventually(t, func() bool { return f.Pending() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricRemindersFired))

	assert.ErrorIs(t, f.Cancel(context.Background(), id), domain.ErrReminderNotFound)
}

func TestCronFacility_CancelledReminderNeverFires(t *testing.T) {
	bus, collector := newBus(t)
	f := facility.NewCronFacility(time.UTC, bus)
	f.Start()
	t.Cleanup(func() { _ = f.Stop(context.Background()) })

	id, err := f.Schedule(context.Background(), domain.Request{TriggerAt: time.Now().Add(100 * time.Millisecond)})
	require.NoError(t, err)
	require.NoError(t, f.Cancel(context.Background(), id))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, collector.received())
}

func TestCronFacility_CancelAll(t *testing.T) {
	f := facility.NewCronFacility(time.UTC, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.Schedule(ctx, domain.Request{TriggerAt: time.Now().Add(time.Hour)})
		require.NoError(t, err)
	}

	require.NoError(t, f.CancelAll(ctx))
	assert.Equal(t, 0, f.Pending())
}

func TestCronFacility_GrantsPermission(t *testing.T) {
	f := facility.NewCronFacility(nil, nil)

	permission, err := f.RequestPermission(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, permission)
}
