package schedule

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	internalApp "github.com/felixgeelhaar/dosewise/internal/app"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

// setupTestApp wires an in-memory application and stores one medicine:
// 8 units at 2 per intake, expiring 2024-01-10.
func setupTestApp(t *testing.T) uuid.UUID {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                  "test",
		Timezone:                "UTC",
		StorageDriver:           "memory",
		HorizonYears:            100,
		ReminderLanguage:        "en",
		BreakerMaxRequests:      1,
		BreakerInterval:         time.Minute,
		BreakerTimeout:          time.Second,
		BreakerFailureThreshold: 5,
	}
	clock := func() time.Time { return testNow }
	container, err := internalApp.NewContainer(context.Background(), cfg, nil,
		internalApp.WithClock(clock),
		internalApp.WithOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	expiry := domain.Date(2024, 1, 10)
	medicine := domain.MedicineSnapshot{
		MedicineID: uuid.New(),
		Name:       "Ibuprofen",
		Stock:      domain.NewStockSnapshot(8, 2),
		Expiry:     &expiry,
	}
	require.NoError(t, container.MedicineRepo.Save(context.Background(), medicine))

	app := cli.NewApp(container)
	app.SetClock(clock)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return medicine.MedicineID
}

// run executes the schedule command group with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, sub := range Cmd.Commands() {
		resetFlags(sub)
	}
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs(args)
	err := Cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

var idPattern = regexp.MustCompile(`ID: ([0-9a-f-]{36})`)

func TestPreview(t *testing.T) {
	medicineID := setupTestApp(t).String()

	out, err := run(t, "preview", medicineID, "--times", "08:00,20:00")
	require.NoError(t, err)

	assert.Contains(t, out, "Schedule for Ibuprofen from 2024-01-01")
	assert.Contains(t, out, "End mode: count")
	assert.Contains(t, out, "Intakes: 4 (2 per day)")
	assert.Contains(t, out, "2024-01-02 Tue  08:00 20:00")
	assert.Contains(t, out, "Candidates: expiry 2024-01-10, stock 2024-01-02")
}

func TestPreview_BareEndDateFollowsCandidates(t *testing.T) {
	medicineID := setupTestApp(t).String()

	tests := []struct {
		endDate string
		mode    domain.EndMode
	}{
		{"2024-01-10", domain.EndModeExpiryLinked},
		{"2024-01-02", domain.EndModeCountTarget},
		{"2024-01-05", domain.EndModeManual},
	}
	for _, tt := range tests {
		t.Run(tt.endDate, func(t *testing.T) {
			out, err := run(t, "preview", medicineID, "--times", "08:00,20:00", "--end-date", tt.endDate)
			require.NoError(t, err)
			assert.Contains(t, out, "End mode: "+string(tt.mode))
		})
	}
}

func TestPreview_InvalidInput(t *testing.T) {
	medicineID := setupTestApp(t).String()

	_, err := run(t, "preview", "not-a-uuid")
	assert.Error(t, err)

	_, err = run(t, "preview", medicineID, "--days", "someday")
	assert.Error(t, err)

	_, err = run(t, "preview", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrMedicineNotFound)
}

func TestScheduleLifecycle(t *testing.T) {
	medicineID := setupTestApp(t).String()

	out, err := run(t, "confirm", medicineID, "--dose", "2 tablets", "--times", "08:00,20:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Created schedule")
	assert.Contains(t, out, "Reminders: 4")
	match := idPattern.FindStringSubmatch(out)
	require.Len(t, match, 2)
	scheduleID := match[1]

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, scheduleID)
	assert.Contains(t, out, "2 tablets")

	out, err = run(t, "intakes", scheduleID, "--from", "2024-01-02")
	require.NoError(t, err)
	assert.Contains(t, out, "2 intakes")
	assert.Contains(t, out, scheduleID+":20240102:0800")

	out, err = run(t, "confirm", medicineID, "--schedule", scheduleID, "--count", "3", "--times", "08:00,20:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Revised schedule")
	assert.Contains(t, out, "Intakes: 3")

	out, err = run(t, "export", scheduleID)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Ibuprofen")

	out, err = run(t, "remove", scheduleID)
	require.NoError(t, err)
	assert.Contains(t, out, "3 reminders cancelled")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No schedules.")
}

func TestCommandsRequireApp(t *testing.T) {
	cli.SetApp(nil)

	_, err := run(t, "list")

	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}
