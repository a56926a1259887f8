package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricRemindersScheduled, 2, T("channel", "default"))
		m.Counter(MetricRemindersScheduled, 1, T("channel", "default"))
		m.Counter(MetricRemindersScheduled, 1, T("channel", "alarm"))

		assert.Equal(t, int64(3), m.GetCounter(MetricRemindersScheduled, T("channel", "default")))
		assert.Equal(t, int64(1), m.GetCounter(MetricRemindersScheduled, T("channel", "alarm")))
		assert.Zero(t, m.GetCounter(MetricRemindersScheduled))
	})

	t.Run("Gauge", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Gauge(MetricRemindersTracked, 10)
		m.Gauge(MetricRemindersTracked, 4)
		assert.Equal(t, 4.0, m.GetGauge(MetricRemindersTracked))
	})
}

func TestTimeOperationResult(t *testing.T) {
	m := NewInMemoryMetrics()

	got, err := TimeOperationResult(nil, m, "preview", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = TimeOperationResult(nil, m, "preview", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)

	tag := T("operation", "preview")
	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, m.GetTimings(MetricOperationDuration, tag), 2)
}

func TestHealthRegistry(t *testing.T) {
	r := NewHealthRegistry()
	r.Register("store", PingHealthChecker("store", HealthStatusUnhealthy, func(context.Context) error { return nil }))
	r.Register("broker", PingHealthChecker("broker", HealthStatusDegraded, func(context.Context) error {
		return errors.New("connection refused")
	}))

	results := r.Check(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, "broker", results[0].Name)
	assert.Equal(t, HealthStatusDegraded, results[0].Status)
	assert.Contains(t, results[0].Message, "connection refused")
	assert.Equal(t, HealthStatusHealthy, results[1].Status)
	assert.Equal(t, HealthStatusDegraded, Overall(results))

	assert.Equal(t, HealthStatusHealthy, Overall(nil))
	assert.Equal(t, HealthStatusUnhealthy, Overall([]HealthCheckResult{{Status: HealthStatusUnhealthy}}))
}
