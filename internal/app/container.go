package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/application/commands"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/queries"
	"github.com/felixgeelhaar/dosewise/internal/dosing/application/services"
	dosingDomain "github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/dosing/infrastructure/persistence"
	reminderApp "github.com/felixgeelhaar/dosewise/internal/reminders/application"
	"github.com/felixgeelhaar/dosewise/internal/reminders/infrastructure/facility"
	"github.com/felixgeelhaar/dosewise/internal/reminders/infrastructure/labels"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/dosewise/pkg/config"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Location *time.Location
	Metrics  *observability.InMemoryMetrics
	Health   *observability.HealthRegistry

	// Storage
	Store        blobstore.Store
	ScheduleRepo *persistence.BlobScheduleRepository
	MedicineRepo *persistence.BlobMedicineRepository
	IntakeLog    *persistence.BlobIntakeLog

	// Events
	InProcessEventBus *eventbus.InProcessEventBus
	RabbitPublisher   *eventbus.RabbitMQPublisher
	EventPublisher    eventbus.Publisher

	// Reminders
	CronFacility    *facility.CronFacility
	ReminderBreaker *facility.BreakerFacility
	Labeler         *labels.TextLabeler
	Projector       *reminderApp.Projector
	DueNotifier     *reminderApp.DueNotifier

	// Scheduling
	Resolver         *dosingDomain.EndResolver
	ReconcilerConfig dosingDomain.ReconcilerConfig

	// Command Handlers
	ConfirmScheduleHandler *commands.ConfirmScheduleHandler
	DeleteScheduleHandler  *commands.DeleteScheduleHandler
	MarkIntakeTakenHandler *commands.MarkIntakeTakenHandler
	SyncRemindersHandler   *commands.SyncRemindersHandler

	// Query Handlers
	PreviewScheduleHandler *queries.PreviewScheduleHandler
	ListSchedulesHandler   *queries.ListSchedulesHandler
	ListIntakesHandler     *queries.ListIntakesHandler

	// Services
	CalendarExporter *services.CalendarExporter
}

// Option customizes a container.
type Option func(*options)

type options struct {
	out io.Writer
	now func() time.Time
}

// WithOutput sets where fired reminders are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithClock replaces the wall clock of the resolver and the reminder
// components.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewContainer opens the configured store and wires every dependency.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	store, err := blobstore.Open(ctx, blobstore.Config{
		Driver:      blobstore.Driver(cfg.StorageDriver),
		SQLitePath:  cfg.SQLitePath,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Namespace:   "dosewise",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	logger = observability.OrDefault(logger)
	logger.Debug("storage opened", "driver", cfg.StorageDriver)

	c, err := NewContainerWithStore(ctx, cfg, store, logger, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithStore wires every dependency on top of an open store.
// The container owns the store and closes it in Close.
func NewContainerWithStore(ctx context.Context, cfg *config.Config, store blobstore.Store, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := options{out: os.Stdout, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		Logger:   observability.OrDefault(logger),
		Location: loc,
		Metrics:  observability.NewInMemoryMetrics(),
		Health:   observability.NewHealthRegistry(),
		Store:    store,
	}

	// Repositories
	factory := NewRepositoryFactory(store)
	c.ScheduleRepo = factory.ScheduleRepository()
	c.MedicineRepo = factory.MedicineRepository()
	c.IntakeLog = factory.IntakeLog()
	c.Health.Register("storage", observability.PingHealthChecker("storage", observability.HealthStatusUnhealthy, store.Ping))

	// Events stay in process; RabbitMQ receives a copy when configured
	c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
	c.EventPublisher = c.InProcessEventBus
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, keeping events in process", "error", err)
		} else {
			c.RabbitPublisher = rabbit
			c.EventPublisher = eventbus.MultiPublisher{c.InProcessEventBus, rabbit}
			c.Health.Register("broker", observability.PingHealthChecker("broker", observability.HealthStatusDegraded, rabbit.Ping))
		}
	}

	c.DueNotifier = reminderApp.NewDueNotifier(o.out, loc)
	c.InProcessEventBus.RegisterConsumer(c.DueNotifier)

	// Reminders
	c.Labeler, err = labels.NewTextLabeler()
	if err != nil {
		return nil, fmt.Errorf("failed to build reminder labels: %w", err)
	}
	c.CronFacility = facility.NewCronFacility(loc, c.EventPublisher,
		facility.WithCronMetrics(c.Metrics),
		facility.WithCronLogger(c.Logger),
		facility.WithCronClock(o.now),
	)
	c.ReminderBreaker = facility.NewBreakerFacility(c.CronFacility, facility.BreakerConfig{
		MaxRequests:      convert.IntToUint32Clamped(cfg.BreakerMaxRequests),
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: convert.IntToUint32Clamped(cfg.BreakerFailureThreshold),
	}, c.Logger, c.Metrics)
	c.Projector = reminderApp.NewProjector(c.ReminderBreaker, factory.ReminderRecords(c.Logger),
		reminderApp.WithLabeler(c.Labeler),
		reminderApp.WithMetrics(c.Metrics),
		reminderApp.WithLogger(c.Logger),
		reminderApp.WithClock(o.now),
		reminderApp.WithLocation(loc),
	)

	// Scheduling
	c.Resolver = dosingDomain.NewEndResolver(
		dosingDomain.WithClock(o.now),
		dosingDomain.WithHorizonYears(cfg.HorizonYears),
	)
	c.ReconcilerConfig = dosingDomain.ReconcilerConfig{
		SettleWindow:       cfg.SettleWindow,
		ManualStickyWindow: cfg.ManualStickyWindow,
	}

	settings := commands.ReminderSettings{
		Language: cfg.ReminderLanguage,
		Channel:  cfg.ReminderChannel,
	}

	// Command Handlers
	c.ConfirmScheduleHandler = commands.NewConfirmScheduleHandler(
		c.ScheduleRepo, c.MedicineRepo, c.Resolver, c.Projector, c.EventPublisher, settings, c.Metrics, c.Logger,
	)
	c.DeleteScheduleHandler = commands.NewDeleteScheduleHandler(
		c.ScheduleRepo, c.IntakeLog, c.Projector, c.EventPublisher, c.Metrics, c.Logger,
	)
	c.MarkIntakeTakenHandler = commands.NewMarkIntakeTakenHandler(c.ScheduleRepo, c.IntakeLog, c.Projector, c.Logger)
	c.SyncRemindersHandler = commands.NewSyncRemindersHandler(c.ScheduleRepo, c.MedicineRepo, c.Projector, settings, c.Logger)

	// Query Handlers
	c.PreviewScheduleHandler = queries.NewPreviewScheduleHandler(c.MedicineRepo, c.Resolver)
	c.ListSchedulesHandler = queries.NewListSchedulesHandler(c.ScheduleRepo)
	c.ListIntakesHandler = queries.NewListIntakesHandler(c.ScheduleRepo, c.IntakeLog, loc)

	c.CalendarExporter = services.NewCalendarExporter(c.ScheduleRepo, c.MedicineRepo, c.IntakeLog, loc)

	c.Logger.DebugContext(ctx, "container ready", "timezone", loc.String(), "rabbitmq", c.RabbitPublisher != nil)
	return c, nil
}

// NewEditSession starts an editing session for a medicine with the
// configured reconciler windows.
func (c *Container) NewEditSession(medicine dosingDomain.MedicineSnapshot, initial dosingDomain.ScheduleDefinition) *services.EditSession {
	return services.NewEditSession(c.Resolver, medicine, initial, c.ReconcilerConfig, nil)
}

// Close releases all resources.
func (c *Container) Close() {
	if c.CronFacility != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.CronFacility.Stop(ctx); err != nil {
			c.Logger.Warn("error stopping reminder scheduler", "error", err)
		}
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("error closing storage", "error", err)
		} else {
			c.Logger.Debug("storage closed")
		}
	}
}
