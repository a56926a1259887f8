package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_DropsClock(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	d := Day(time.Date(2024, 3, 31, 23, 30, 0, 0, loc))

	assert.Equal(t, Date(2024, 3, 31), d)
	assert.Equal(t, time.UTC, d.Location())
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", At(8, 0), false},
		{"23:59", At(23, 59), false},
		{" 7:05 ", At(7, 5), false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"12", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	type wrapper struct {
		At TimeOfDay `json:"at"`
	}

	data, err := json.Marshal(wrapper{At: At(20, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"20:15"}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, At(20, 15), out.At)
}

func TestTimeOfDay_On(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	got := At(22, 0).On(Date(2024, 1, 1), loc)

	assert.Equal(t, time.Date(2024, 1, 1, 22, 0, 0, 0, loc), got)
}

func TestAt_Wraps(t *testing.T) {
	assert.Equal(t, At(1, 0), At(25, 0))
	assert.Equal(t, At(23, 0), At(-1, 0))
}
