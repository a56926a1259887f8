package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newSession(t *testing.T, end domain.EndCondition) (*EditSession, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	expiry := domain.Date(2024, 1, 10)
	resolver := domain.NewEndResolver(domain.WithClock(func() time.Time { return domain.Date(2024, 1, 1) }))
	medicine := domain.MedicineSnapshot{
		MedicineID: uuid.New(),
		Name:       "Ibuprofen",
		Stock:      domain.NewStockSnapshot(30, 2),
		Expiry:     &expiry,
	}
	def := domain.ScheduleDefinition{
		StartDate: domain.Date(2024, 1, 1),
		Days:      domain.EveryDay(),
		Times:     domain.ExplicitTimes(domain.At(8, 0), domain.At(20, 0)),
		End:       end,
	}
	return NewEditSession(resolver, medicine, def, domain.DefaultReconcilerConfig(), clock.Now), clock
}

func TestEditSession_ComputedDateEchoKeepsMode(t *testing.T) {
	s, _ := newSession(t, domain.CountTargetEnd(nil))

	res, err := s.Resolved()
	require.NoError(t, err)
	assert.Equal(t, domain.Date(2024, 1, 8), *res.EndDate)
	assert.Equal(t, domain.ReconcilerSuppressed, s.State())

	res, err = s.SetEndDate(domain.Date(2024, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeCountTarget, s.Mode())
	assert.Equal(t, 15, res.RequiredCount)
}

func TestEditSession_SuppressedDateEditBoundsCount(t *testing.T) {
	s, _ := newSession(t, domain.CountTargetEnd(nil))
	require.Equal(t, domain.ReconcilerSuppressed, s.State())

	res, err := s.SetEndDate(domain.Date(2024, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeCountTarget, s.Mode())
	assert.Equal(t, domain.EndModeCountTarget, res.ActiveEndMode)
	assert.Equal(t, 10, res.RequiredCount)
	require.NotNil(t, res.EndDate)
	assert.Equal(t, domain.Date(2024, 1, 5), *res.EndDate)

	res, err = s.SetCount(nil)
	require.NoError(t, err)
	assert.Equal(t, 15, res.RequiredCount)
	assert.Equal(t, domain.Date(2024, 1, 8), *res.EndDate)
}

func TestEditSession_RawEditsFollowCandidates(t *testing.T) {
	s, clock := newSession(t, domain.CountTargetEnd(nil))
	clock.Advance(time.Second)

	res, err := s.SetEndDate(domain.Date(2024, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeManual, s.Mode())
	assert.Equal(t, 10, res.RequiredCount)

	clock.Advance(time.Second)
	res, err = s.SetEndDate(domain.Date(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeExpiryLinked, s.Mode())
	assert.Equal(t, domain.EndModeExpiryLinked, res.ActiveEndMode)
	assert.True(t, res.HasWarning(domain.WarningExceedsStock))

	clock.Advance(time.Second)
	res, err = s.SetEndDate(domain.Date(2024, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeCountTarget, s.Mode())
	assert.Equal(t, 15, res.RequiredCount)
}

func TestEditSession_ManualChoiceIsSticky(t *testing.T) {
	s, clock := newSession(t, domain.ExpiryLinkedEnd())
	clock.Advance(time.Second)

	res, err := s.SelectMode(domain.EndModeManual)
	require.NoError(t, err)
	assert.Equal(t, domain.Date(2024, 1, 10), *res.EndDate, "manual keeps the date on screen")

	clock.Advance(700 * time.Millisecond)
	_, err = s.SetEndDate(domain.Date(2024, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, domain.EndModeManual, s.Mode())
	assert.Equal(t, domain.EndModeManual, s.Definition().End.Mode)
}

func TestEditSession_SetCount(t *testing.T) {
	s, _ := newSession(t, domain.ManualEnd(domain.Date(2024, 1, 3)))

	res, err := s.SetCount(domain.CountOf(4))
	require.NoError(t, err)

	assert.Equal(t, domain.EndModeCountTarget, s.Mode())
	assert.Equal(t, domain.Date(2024, 1, 2), *res.EndDate)
	assert.Equal(t, 4, res.RequiredCount)
}

func TestEditSession_InvalidEditKeepsLastResolution(t *testing.T) {
	s, _ := newSession(t, domain.ManualEnd(domain.Date(2024, 1, 3)))

	_, err := s.Update(func(def *domain.ScheduleDefinition) {
		def.Days = domain.WeekdaysRule()
	})
	require.Error(t, err)

	res, lastErr := s.Resolved()
	assert.ErrorIs(t, lastErr, domain.ErrEmptyWeekdays)
	require.NotNil(t, res)
	assert.Equal(t, 6, res.RequiredCount)

	_, err = s.SelectMode(domain.EndMode("bogus"))
	assert.ErrorIs(t, err, domain.ErrInvalidEndMode)
}
