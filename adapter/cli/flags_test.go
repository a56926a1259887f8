package cli

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		input string
		want  domain.DaySelectionRule
	}{
		{"daily", domain.EveryDay()},
		{"", domain.EveryDay()},
		{"2d", domain.IntervalRule(2, domain.UnitDay)},
		{"1w", domain.IntervalRule(1, domain.UnitWeek)},
		{"3m", domain.IntervalRule(3, domain.UnitMonth)},
		{"1y", domain.IntervalRule(1, domain.UnitYear)},
		{"weekends", domain.WeekdaysRule(time.Saturday, time.Sunday)},
		{"Mon, wed,Friday", domain.WeekdaysRule(time.Monday, time.Wednesday, time.Friday)},
		{"sat,wed", domain.WeekdaysRule(time.Saturday, time.Wednesday)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDays(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDays_Invalid(t *testing.T) {
	for _, input := range []string{"someday", "0d", "mon,funday"} {
		_, err := ParseDays(input)
		assert.Error(t, err, input)
	}
}

func TestParseTimesAndWindow(t *testing.T) {
	times, err := ParseTimes("08:00, 20:30")
	require.NoError(t, err)
	assert.Equal(t, domain.ExplicitTimes(domain.At(8, 0), domain.At(20, 30)), times)

	_, err = ParseTimes(" , ")
	assert.Error(t, err)

	window, err := ParseWindow("22:00-06:00", 4)
	require.NoError(t, err)
	assert.True(t, window.Wraps())

	_, err = ParseWindow("08:00-20:00", 0)
	assert.Error(t, err)
	_, err = ParseWindow("08:00", 2)
	assert.Error(t, err)
}

func parseDefinitionFlags(t *testing.T, args ...string) *DefinitionFlags {
	t.Helper()
	var f DefinitionFlags
	cmd := &cobra.Command{Use: "test"}
	f.Register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return &f
}

func TestDefinitionFlags_Definition(t *testing.T) {
	today := domain.Date(2024, 3, 1)

	t.Run("defaults to stock-bound count mode from today", func(t *testing.T) {
		f := parseDefinitionFlags(t)
		def, err := f.Definition(today)
		require.NoError(t, err)

		assert.Equal(t, today, def.StartDate)
		assert.Equal(t, domain.EveryDay(), def.Days)
		assert.Equal(t, domain.ExplicitTimes(domain.At(8, 0)), def.Times)
		assert.Equal(t, domain.CountTargetEnd(nil), def.End)
		assert.False(t, f.InferMode())
	})

	t.Run("count implies count mode", func(t *testing.T) {
		def, err := parseDefinitionFlags(t, "--count", "10").Definition(today)
		require.NoError(t, err)
		assert.Equal(t, domain.CountTargetEnd(domain.CountOf(10)), def.End)
	})

	t.Run("bare end date is manual and left to the reconciler", func(t *testing.T) {
		f := parseDefinitionFlags(t, "--end-date", "2024-03-10", "--start", "2024-03-02")
		def, err := f.Definition(today)
		require.NoError(t, err)
		assert.Equal(t, domain.ManualEnd(domain.Date(2024, 3, 10)), def.End)
		assert.Equal(t, domain.Date(2024, 3, 2), def.StartDate)
		assert.True(t, f.InferMode())
	})

	t.Run("expiry mode keeps the fallback date", func(t *testing.T) {
		def, err := parseDefinitionFlags(t, "--mode", "expiry", "--end-date", "2024-04-01").Definition(today)
		require.NoError(t, err)
		assert.Equal(t, domain.EndModeExpiryLinked, def.End.Mode)
		assert.Equal(t, domain.Date(2024, 4, 1), def.End.Date)
	})

	t.Run("window", func(t *testing.T) {
		def, err := parseDefinitionFlags(t, "--window", "08:00-20:00", "--every", "6").Definition(today)
		require.NoError(t, err)
		assert.Equal(t, domain.Window(domain.At(8, 0), domain.At(20, 0), 6), def.Times)
	})

	t.Run("manual without date", func(t *testing.T) {
		_, err := parseDefinitionFlags(t, "--mode", "manual").Definition(today)
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := parseDefinitionFlags(t, "--mode", "forever").Definition(today)
		assert.Error(t, err)
	})
}
