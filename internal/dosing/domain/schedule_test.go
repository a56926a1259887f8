package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveTwiceDaily(t *testing.T, end EndCondition) (ScheduleDefinition, *ResolvedSchedule) {
	t.Helper()
	def := twiceDaily(end)
	res, err := newTestResolver().Resolve(ResolveRequest{Definition: def, Stock: UntrackedStock()})
	require.NoError(t, err)
	return def, res
}

func TestNewSchedule(t *testing.T) {
	medicineID := uuid.New()
	def, res := resolveTwiceDaily(t, ManualEnd(Date(2024, 1, 3)))

	s, err := NewSchedule(medicineID, "  2 drops ", def, res)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, medicineID, s.MedicineID())
	assert.Equal(t, "2 drops", s.Dose())
	assert.Len(t, s.IntakeEvents(), 6)

	events := s.DomainEvents()
	require.Len(t, events, 1)
	confirmed, ok := events[0].(*ScheduleConfirmed)
	require.True(t, ok)
	assert.Equal(t, s.ID(), confirmed.ScheduleID)
	assert.Equal(t, 6, confirmed.RequiredCount)
	assert.Equal(t, RoutingScheduleConfirmed, confirmed.RoutingKey())
}

func TestNewSchedule_Unresolved(t *testing.T) {
	_, err := NewSchedule(uuid.New(), "", ScheduleDefinition{}, nil)
	assert.ErrorIs(t, err, ErrScheduleUnresolved)
}

func TestSchedule_Revise(t *testing.T) {
	def, res := resolveTwiceDaily(t, ManualEnd(Date(2024, 1, 3)))
	s, err := NewSchedule(uuid.New(), "1 tablet", def, res)
	require.NoError(t, err)
	s.PullDomainEvents()

	def2, res2 := resolveTwiceDaily(t, CountTargetEnd(CountOf(9)))
	require.NoError(t, s.Revise(def2, res2, ""))

	assert.Equal(t, "1 tablet", s.Dose())
	assert.Equal(t, EndModeCountTarget, s.Resolved().ActiveEndMode)
	assert.Len(t, s.IntakeEvents(), 9)

	events := s.PullDomainEvents()
	require.Len(t, events, 1)
	revised, ok := events[0].(*ScheduleRevised)
	require.True(t, ok)
	assert.Equal(t, 6, revised.PreviousRequired)
	assert.Equal(t, 9, revised.RequiredCount)
	assert.Empty(t, s.DomainEvents())
}

func TestSchedule_MarkDeleted(t *testing.T) {
	def, res := resolveTwiceDaily(t, ManualEnd(Date(2024, 1, 3)))
	s, err := NewSchedule(uuid.New(), "", def, res)
	require.NoError(t, err)
	s.PullDomainEvents()

	s.MarkDeleted()
	events := s.PullDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, RoutingScheduleDeleted, events[0].RoutingKey())
}

func TestRehydrateSchedule(t *testing.T) {
	id := uuid.New()
	def, res := resolveTwiceDaily(t, ManualEnd(Date(2024, 1, 3)))
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	s := RehydrateSchedule(id, uuid.New(), "1 tablet", def, res, created, created, 3)

	assert.Equal(t, id, s.ID())
	assert.Equal(t, 3, s.Version())
	assert.Empty(t, s.DomainEvents())
	assert.Equal(t, created, s.CreatedAt())
}
