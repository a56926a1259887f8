package facility

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a facility.
type BreakerConfig struct {
	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the defaults used when nothing is configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerFacility guards a facility with a circuit breaker. While open,
// scheduling fails fast with gobreaker.ErrOpenState.
type BreakerFacility struct {
	next    domain.Facility
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerFacility wraps next.
func NewBreakerFacility(next domain.Facility, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerFacility {
	logger = observability.OrDefault(logger)
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "reminder-facility",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge("dosewise.reminders.breaker_open", boolGauge(to == gobreaker.StateOpen))
		},
		// Caller mistakes say nothing about the facility's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrTriggerInPast) ||
				errors.Is(err, domain.ErrReminderNotFound)
		},
	}

	return &BreakerFacility{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// State reports the breaker state.
func (f *BreakerFacility) State() gobreaker.State {
	return f.breaker.State()
}

func (f *BreakerFacility) RequestPermission(ctx context.Context) (domain.Permission, error) {
	permission, err := f.breaker.Execute(func() (string, error) {
		p, err := f.next.RequestPermission(ctx)
		return string(p), err
	})
	return domain.Permission(permission), err
}

func (f *BreakerFacility) Schedule(ctx context.Context, req domain.Request) (string, error) {
	return f.breaker.Execute(func() (string, error) {
		return f.next.Schedule(ctx, req)
	})
}

func (f *BreakerFacility) Cancel(ctx context.Context, reminderID string) error {
	_, err := f.breaker.Execute(func() (string, error) {
		return "", f.next.Cancel(ctx, reminderID)
	})
	return err
}

func (f *BreakerFacility) CancelAll(ctx context.Context) error {
	_, err := f.breaker.Execute(func() (string, error) {
		return "", f.next.CancelAll(ctx)
	})
	return err
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
