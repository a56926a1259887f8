package facility

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// CronFacility delivers reminders from a cron runner in this process. A
// fired reminder is published as a ReminderDue event.
type CronFacility struct {
	cron      *cron.Cron
	publisher eventbus.Publisher
	metrics   observability.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// CronOption configures a CronFacility.
type CronOption func(*CronFacility)

// WithCronMetrics sets the metrics sink.
func WithCronMetrics(m observability.Metrics) CronOption {
	return func(f *CronFacility) { f.metrics = m }
}

// WithCronLogger sets the logger.
func WithCronLogger(l *slog.Logger) CronOption {
	return func(f *CronFacility) { f.logger = l }
}

// WithCronClock sets the clock used to reject past triggers.
func WithCronClock(now func() time.Time) CronOption {
	return func(f *CronFacility) { f.now = now }
}

// NewCronFacility creates a facility running in the given location.
func NewCronFacility(loc *time.Location, publisher eventbus.Publisher, opts ...CronOption) *CronFacility {
	if loc == nil {
		loc = time.Local
	}
	f := &CronFacility{
		cron:      cron.New(cron.WithLocation(loc)),
		publisher: publisher,
		metrics:   observability.NoopMetrics{},
		now:       time.Now,
		entries:   make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = observability.OrDefault(f.logger)
	if f.publisher == nil {
		f.publisher = eventbus.NoopPublisher{}
	}
	return f
}

// Start runs the cron scheduler in its own goroutine.
func (f *CronFacility) Start() {
	f.cron.Start()
}

// Stop stops the scheduler and waits for running deliveries.
func (f *CronFacility) Stop(ctx context.Context) error {
	done := f.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestPermission always grants: delivery stays inside this process.
func (f *CronFacility) RequestPermission(context.Context) (domain.Permission, error) {
	return domain.PermissionGranted, nil
}

// Schedule registers a one-shot entry firing at req.TriggerAt.
func (f *CronFacility) Schedule(ctx context.Context, req domain.Request) (string, error) {
	if !req.TriggerAt.After(f.now()) {
		return "", domain.ErrTriggerInPast
	}

	id := uuid.NewString()
	f.mu.Lock()
	defer f.mu.Unlock()

	entryID := f.cron.Schedule(oneShot{at: req.TriggerAt}, cron.FuncJob(func() {
		f.fire(id, req)
	}))
	f.entries[id] = entryID

	f.logger.DebugContext(ctx, "reminder scheduled",
		"reminder_id", id,
		"trigger_at", req.TriggerAt,
	)
	return id, nil
}

// Cancel removes a pending reminder.
func (f *CronFacility) Cancel(ctx context.Context, reminderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entryID, ok := f.entries[reminderID]
	if !ok {
		return domain.ErrReminderNotFound
	}
	f.cron.Remove(entryID)
	delete(f.entries, reminderID)
	return nil
}

// CancelAll removes every pending reminder.
func (f *CronFacility) CancelAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, entryID := range f.entries {
		f.cron.Remove(entryID)
		delete(f.entries, id)
	}
	return nil
}

// Pending returns the number of reminders not yet delivered.
func (f *CronFacility) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *CronFacility) fire(id string, req domain.Request) {
	f.mu.Lock()
	entryID, ok := f.entries[id]
	if ok {
		delete(f.entries, id)
		f.cron.Remove(entryID)
	}
	f.mu.Unlock()
	if !ok {
		return
	}

	ctx := observability.WithOperation(context.Background(), "reminder.fire")
	due := domain.NewReminderDue(id, req)
	due.SetMetadata(sharedDomain.EventMetadata{CorrelationID: id, Source: "reminders"})
	err := eventbus.PublishEvents(ctx, f.publisher, []sharedDomain.DomainEvent{due})
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to publish due reminder", "reminder_id", id, "error", err)
		f.metrics.Counter(observability.MetricRemindersFailed, 1, observability.T("stage", "fire"))
		return
	}
	f.metrics.Counter(observability.MetricRemindersFired, 1)
}

// oneShot fires once at a fixed instant.
type oneShot struct {
	at time.Time
}

// Next returns the trigger while it is ahead of t and the zero time after,
// which cron treats as never.
func (s oneShot) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}
