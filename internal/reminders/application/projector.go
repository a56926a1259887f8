package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	dosing "github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
)

// Projector turns intake events into reminders of an external facility and
// tracks the reminder issued for each intake.
type Projector struct {
	facility domain.Facility
	records  *RecordStore
	labeler  domain.Labeler
	metrics  observability.Metrics
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*Projector)

// WithLabeler sets the label source for reminder texts.
func WithLabeler(l domain.Labeler) ProjectorOption {
	return func(p *Projector) { p.labeler = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observability.Metrics) ProjectorOption {
	return func(p *Projector) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ProjectorOption {
	return func(p *Projector) { p.logger = l }
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) ProjectorOption {
	return func(p *Projector) { p.now = now }
}

// WithLocation sets the wall clock intake times are read in.
func WithLocation(loc *time.Location) ProjectorOption {
	return func(p *Projector) { p.location = loc }
}

// NewProjector creates a projector.
func NewProjector(facility domain.Facility, records *RecordStore, opts ...ProjectorOption) *Projector {
	p := &Projector{
		facility: facility,
		records:  records,
		labeler:  keyLabeler{},
		metrics:  observability.NoopMetrics{},
		now:      time.Now,
		location: time.Local,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = observability.OrDefault(p.logger)
	return p
}

// ScheduleAll requests a reminder for every event still in the future and
// returns how many were scheduled. Without permission nothing is scheduled.
// An event whose request fails is skipped. An event that already has a
// reminder gets its old reminder cancelled first.
func (p *Projector) ScheduleAll(ctx context.Context, events []dosing.IntakeEvent, rc domain.ReminderContext) (int, error) {
	permission, err := p.facility.RequestPermission(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "reminder permission request failed", "error", err)
		return 0, nil
	}
	if permission != domain.PermissionGranted {
		p.logger.InfoContext(ctx, "reminder permission not granted", "events", len(events))
		return 0, nil
	}

	now := p.now()
	scheduled := 0
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			p.records.Persist(ctx)
			return scheduled, err
		}

		trigger := ev.At(p.location)
		if !trigger.After(now) {
			p.metrics.Counter(observability.MetricRemindersSkipped, 1)
			continue
		}

		if err := p.cancelTracked(ctx, ev.ID); err != nil {
			return scheduled, err
		}

		reminderID, err := p.facility.Schedule(ctx, p.request(ev, trigger, rc))
		if err == nil && reminderID == "" {
			err = domain.ErrFacilityRejected
		}
		if err != nil {
			p.logger.WarnContext(ctx, "failed to schedule reminder",
				"intake_id", ev.ID,
				"trigger_at", trigger,
				"error", err,
			)
			p.metrics.Counter(observability.MetricRemindersFailed, 1)
			continue
		}

		if err := p.records.Update(ctx, func(t *domain.RecordTable) { t.Put(ev.ID, reminderID) }); err != nil {
			return scheduled, err
		}
		scheduled++
		p.metrics.Counter(observability.MetricRemindersScheduled, 1, observability.T("channel", rc.Channel))
	}

	p.records.Persist(ctx)
	p.reportTracked(ctx)
	return scheduled, nil
}

// Cancel cancels the reminder of one intake, if any.
func (p *Projector) Cancel(ctx context.Context, intakeID string) error {
	if err := p.cancelTracked(ctx, intakeID); err != nil {
		return err
	}
	p.records.Persist(ctx)
	p.reportTracked(ctx)
	return nil
}

// CancelAll cancels every tracked reminder and clears the table.
func (p *Projector) CancelAll(ctx context.Context) error {
	var ids []string
	err := p.records.Update(ctx, func(t *domain.RecordTable) {
		for _, intakeID := range t.IntakeIDs() {
			id, _ := t.Get(intakeID)
			ids = append(ids, id)
		}
		t.Clear()
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		p.cancelReminder(ctx, id)
	}
	p.records.Persist(ctx)
	p.reportTracked(ctx)
	return nil
}

// CancelSchedule cancels every tracked reminder of a schedule and returns
// how many were cancelled.
func (p *Projector) CancelSchedule(ctx context.Context, scheduleID uuid.UUID) (int, error) {
	lock := p.scheduleLock(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	n, err := p.cancelSchedule(ctx, scheduleID)
	if err != nil {
		return n, err
	}
	p.records.Persist(ctx)
	p.reportTracked(ctx)
	return n, nil
}

// Reschedule cancels the reminders of a schedule and schedules events in
// their place. Passes for the same schedule never overlap.
func (p *Projector) Reschedule(ctx context.Context, scheduleID uuid.UUID, events []dosing.IntakeEvent, rc domain.ReminderContext) (int, error) {
	lock := p.scheduleLock(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := p.cancelSchedule(ctx, scheduleID); err != nil {
		return 0, err
	}
	return p.ScheduleAll(ctx, events, rc)
}

// Tracked returns a copy of the record table.
func (p *Projector) Tracked(ctx context.Context) (*domain.RecordTable, error) {
	return p.records.Snapshot(ctx)
}

func (p *Projector) cancelSchedule(ctx context.Context, scheduleID uuid.UUID) (int, error) {
	var ids []string
	err := p.records.Update(ctx, func(t *domain.RecordTable) {
		for _, intakeID := range t.WithPrefix(dosing.IntakePrefix(scheduleID)) {
			id, _ := t.Remove(intakeID)
			ids = append(ids, id)
		}
	})
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		p.cancelReminder(ctx, id)
	}
	return len(ids), nil
}

// cancelTracked drops the record of an intake and cancels its reminder.
func (p *Projector) cancelTracked(ctx context.Context, intakeID string) error {
	var reminderID string
	var found bool
	err := p.records.Update(ctx, func(t *domain.RecordTable) {
		reminderID, found = t.Remove(intakeID)
	})
	if err != nil {
		return err
	}
	if found {
		p.cancelReminder(ctx, reminderID)
	}
	return nil
}

func (p *Projector) cancelReminder(ctx context.Context, reminderID string) {
	err := p.facility.Cancel(ctx, reminderID)
	if err != nil && !errors.Is(err, domain.ErrReminderNotFound) {
		p.logger.WarnContext(ctx, "failed to cancel reminder", "reminder_id", reminderID, "error", err)
		return
	}
	p.metrics.Counter(observability.MetricRemindersCancelled, 1)
}

func (p *Projector) request(ev dosing.IntakeEvent, trigger time.Time, rc domain.ReminderContext) domain.Request {
	title := rc.MedicineName
	if title == "" {
		title = p.labeler.Format(domain.LabelTable, 1, rc.Language, domain.LabelTitle)
	}

	quantity := rc.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	body := p.labeler.Format(domain.LabelTable, quantity, rc.Language, domain.LabelBody)
	if ev.DoseDescription != "" {
		body = fmt.Sprintf("%s (%s)", body, ev.DoseDescription)
	}

	return domain.Request{
		Title: title,
		Body:  body,
		Data: map[string]string{
			domain.DataIntakeID:   ev.ID,
			domain.DataScheduleID: ev.ScheduleID.String(),
		},
		TriggerAt: trigger,
		Channel:   rc.Channel,
	}
}

func (p *Projector) scheduleLock(id uuid.UUID) *sync.Mutex {
	p.locksMu.Lock()
	defer p.locksMu.Unlock()

	lock, ok := p.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[id] = lock
	}
	return lock
}

func (p *Projector) reportTracked(ctx context.Context) {
	_ = p.records.Update(ctx, func(t *domain.RecordTable) {
		p.metrics.Gauge(observability.MetricRemindersTracked, float64(t.Len()))
	})
}

// keyLabeler is used when no Labeler is configured.
type keyLabeler struct{}

func (keyLabeler) Format(_ string, _ int, _ string, key string) string { return key }
