package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/app"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/commands"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/queries"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/services"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	reminderDomain "github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/google/uuid"
)

// ErrNotInitialized is returned by commands run without a wired App.
var ErrNotInitialized = errors.New("dosewise is not initialized; check the storage configuration")

// MedicineStore reads and writes medicine snapshots.
type MedicineStore interface {
	domain.StockReader
	Save(ctx context.Context, m domain.MedicineSnapshot) error
	List(ctx context.Context) ([]domain.MedicineSnapshot, error)
}

// ReminderTracker exposes the reminders issued for intakes.
type ReminderTracker interface {
	Tracked(ctx context.Context) (*reminderDomain.RecordTable, error)
	Cancel(ctx context.Context, intakeID string) error
	CancelAll(ctx context.Context) error
}

// ReminderRunner delivers due reminders while the process runs.
type ReminderRunner interface {
	Start()
	Pending() int
}

// App holds the CLI application dependencies.
type App struct {
	Location  *time.Location
	Medicines MedicineStore
	Reminders ReminderTracker
	Runner    ReminderRunner
	Health    *observability.HealthRegistry

	// Command Handlers
	ConfirmScheduleHandler *commands.ConfirmScheduleHandler
	DeleteScheduleHandler  *commands.DeleteScheduleHandler
	MarkIntakeTakenHandler *commands.MarkIntakeTakenHandler
	SyncRemindersHandler   *commands.SyncRemindersHandler

	// Query Handlers
	PreviewScheduleHandler *queries.PreviewScheduleHandler
	ListSchedulesHandler   *queries.ListSchedulesHandler
	ListIntakesHandler     *queries.ListIntakesHandler

	CalendarExporter *services.CalendarExporter

	newEditSession func(domain.MedicineSnapshot, domain.ScheduleDefinition) *services.EditSession
	now            func() time.Time
}

// NewApp creates a CLI application from a wired container.
func NewApp(c *app.Container) *App {
	return &App{
		Location:               c.Location,
		Medicines:              c.MedicineRepo,
		Reminders:              c.Projector,
		Runner:                 c.CronFacility,
		Health:                 c.Health,
		ConfirmScheduleHandler: c.ConfirmScheduleHandler,
		DeleteScheduleHandler:  c.DeleteScheduleHandler,
		MarkIntakeTakenHandler: c.MarkIntakeTakenHandler,
		SyncRemindersHandler:   c.SyncRemindersHandler,
		PreviewScheduleHandler: c.PreviewScheduleHandler,
		ListSchedulesHandler:   c.ListSchedulesHandler,
		ListIntakesHandler:     c.ListIntakesHandler,
		CalendarExporter:       c.CalendarExporter,
		newEditSession:         c.NewEditSession,
		now:                    time.Now,
	}
}

// SetClock replaces the wall clock used for defaults such as "today".
func (a *App) SetClock(now func() time.Time) {
	a.now = now
}

// Today is the current calendar day in the configured location, as a
// UTC-midnight date.
func (a *App) Today() time.Time {
	now := a.now()
	if a.Location != nil {
		now = now.In(a.Location)
	}
	return domain.Date(now.Year(), now.Month(), now.Day())
}

// Now returns the current wall clock time.
func (a *App) Now() time.Time {
	return a.now()
}

// ReconcileEndDate lets the end-mode reconciler decide which mode a raw end
// date belongs to: a date equal to the expiry or count candidate links the
// schedule to it, any other date ends it manually.
func (a *App) ReconcileEndDate(ctx context.Context, medicineID uuid.UUID, def domain.ScheduleDefinition, date time.Time) (domain.ScheduleDefinition, error) {
	if a.newEditSession == nil {
		return def, nil
	}
	medicine, err := a.Medicines.Snapshot(ctx, medicineID)
	if err != nil {
		return def, fmt.Errorf("read medicine %s: %w", medicineID, err)
	}
	session := a.newEditSession(*medicine, def)
	if _, err := session.SetEndDate(date); err != nil && !domain.IsValidation(err) {
		return def, err
	}
	return session.Definition(), nil
}

// current is the global CLI application instance
var current *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	current = a
}

// GetApp returns the global CLI application instance, or
// ErrNotInitialized.
func GetApp() (*App, error) {
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}
