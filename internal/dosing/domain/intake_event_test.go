package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_PartialLastDay(t *testing.T) {
	scheduleID := uuid.New()
	res, err := newTestResolver().Resolve(ResolveRequest{
		Definition: twiceDaily(CountTargetEnd(nil)),
		Stock:      NewStockSnapshot(30, 2),
	})
	require.NoError(t, err)

	events := Project(scheduleID, res, "1 tablet")
	require.Len(t, events, 15)

	last := events[len(events)-1]
	assert.Equal(t, Date(2024, 1, 8), last.Day)
	assert.Equal(t, At(8, 0), last.Time)
	assert.Equal(t, "1 tablet", last.DoseDescription)

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		assert.True(t, prev.Day.Before(cur.Day) || (prev.Day.Equal(cur.Day) && prev.Time < cur.Time))
	}
}

func TestProject_GroupRoundTrip(t *testing.T) {
	res, err := newTestResolver().Resolve(ResolveRequest{
		Definition: ScheduleDefinition{
			StartDate: Date(2024, 1, 1),
			Days:      WeekdaysRule(time.Monday, time.Thursday),
			Times:     Window(At(22, 0), At(2, 0), 4),
			End:       ManualEnd(Date(2024, 1, 31)),
		},
	})
	require.NoError(t, err)

	groups := GroupByDay(Project(uuid.New(), res, ""))
	require.Len(t, groups, len(res.IntakeDays))
	for i, g := range groups {
		assert.Equal(t, res.IntakeDays[i], g.Day)
		assert.Equal(t, []TimeOfDay{At(2, 0), At(22, 0)}, g.Times)
	}
}

func TestProject_Empty(t *testing.T) {
	assert.Nil(t, Project(uuid.New(), nil, ""))
	assert.Empty(t, Project(uuid.New(), &ResolvedSchedule{Times: []TimeOfDay{At(8, 0)}}, ""))
}

func TestIntakeID(t *testing.T) {
	scheduleID := uuid.MustParse("6f1c2b1e-8d4a-4f7e-9b2a-0c3d4e5f6a7b")
	id := IntakeID(scheduleID, Date(2024, 3, 9), At(7, 5))

	assert.Equal(t, "6f1c2b1e-8d4a-4f7e-9b2a-0c3d4e5f6a7b:20240309:0705", id)
	assert.True(t, BelongsTo(id, scheduleID))
	assert.False(t, BelongsTo(id, uuid.New()))
	assert.Equal(t, id, IntakeID(scheduleID, time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC), At(7, 5)))
}

func TestParseIntakeID(t *testing.T) {
	scheduleID := uuid.New()
	id := IntakeID(scheduleID, Date(2024, 12, 31), At(21, 30))

	gotSchedule, day, at, err := ParseIntakeID(id)
	require.NoError(t, err)
	assert.Equal(t, scheduleID, gotSchedule)
	assert.Equal(t, Date(2024, 12, 31), day)
	assert.Equal(t, At(21, 30), at)

	for _, bad := range []string{"", "nope", scheduleID.String() + ":2024:0800", "x:20240101:0800", scheduleID.String() + ":20240101:2500"} {
		_, _, _, err := ParseIntakeID(bad)
		assert.ErrorIs(t, err, ErrInvalidIntakeID, bad)
	}
}
