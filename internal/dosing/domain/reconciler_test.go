package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestEndModeReconciler_PushComputedSuppressesRawChange(t *testing.T) {
	clock := newTestClock()
	r := NewEndModeReconciler(EndModeManual, DefaultReconcilerConfig(), clock.Now)

	r.PushComputed(EndModeExpiryLinked, Date(2024, 2, 1))
	assert.Equal(t, EndModeExpiryLinked, r.Mode())
	assert.Equal(t, ReconcilerSuppressed, r.State())

	// The picker echoes an intermediate value while it animates.
	clock.Advance(100 * time.Millisecond)
	mode, changed := r.OnDateChanged(Date(2024, 1, 20))
	assert.Equal(t, EndModeExpiryLinked, mode)
	assert.False(t, changed)

	clock.Advance(DefaultSettleWindow)
	assert.Equal(t, ReconcilerIdle, r.State())
	mode, changed = r.OnDateChanged(Date(2024, 1, 20))
	assert.Equal(t, EndModeManual, mode)
	assert.True(t, changed)
}

func TestEndModeReconciler_MatchesCandidates(t *testing.T) {
	clock := newTestClock()
	r := NewEndModeReconciler(EndModeManual, DefaultReconcilerConfig(), clock.Now)

	expiry := Date(2024, 2, 1)
	count := Date(2024, 1, 15)
	r.SetCandidates(&expiry, &count)

	mode, changed := r.OnDateChanged(count)
	assert.Equal(t, EndModeCountTarget, mode)
	assert.True(t, changed)

	mode, changed = r.OnDateChanged(expiry.Add(13 * time.Hour))
	assert.Equal(t, EndModeExpiryLinked, mode)
	assert.True(t, changed)

	mode, changed = r.OnDateChanged(expiry)
	assert.Equal(t, EndModeExpiryLinked, mode)
	assert.False(t, changed)

	r.SetCandidates(nil, nil)
	mode, _ = r.OnDateChanged(expiry)
	assert.Equal(t, EndModeManual, mode)
}

func TestEndModeReconciler_ManualIsSticky(t *testing.T) {
	clock := newTestClock()
	r := NewEndModeReconciler(EndModeExpiryLinked, DefaultReconcilerConfig(), clock.Now)

	expiry := Date(2024, 2, 1)
	r.SetCandidates(&expiry, nil)
	r.SelectManual()

	clock.Advance(200 * time.Millisecond)
	mode, changed := r.OnDateChanged(expiry)
	assert.Equal(t, EndModeManual, mode)
	assert.False(t, changed)

	clock.Advance(DefaultManualStickyWindow)
	mode, changed = r.OnDateChanged(expiry)
	assert.Equal(t, EndModeExpiryLinked, mode)
	assert.True(t, changed)
}

func TestNewEndModeReconciler_InvalidInitialMode(t *testing.T) {
	r := NewEndModeReconciler(EndMode("bogus"), DefaultReconcilerConfig(), nil)
	assert.Equal(t, EndModeManual, r.Mode())
	assert.Equal(t, ReconcilerIdle, r.State())
}
