package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/dosing/infrastructure/persistence"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedSchedule(t *testing.T, store blobstore.Store, end domain.EndCondition) *domain.Schedule {
	t.Helper()
	ctx := context.Background()
	medicine := domain.MedicineSnapshot{MedicineID: uuid.New(), Name: "Metformin", Stock: domain.NewStockSnapshot(100, 1)}
	require.NoError(t, persistence.NewBlobMedicineRepository(store).Save(ctx, medicine))

	def := domain.ScheduleDefinition{
		StartDate: domain.Date(2024, 1, 1),
		Days:      domain.EveryDay(),
		Times:     domain.ExplicitTimes(domain.At(8, 0), domain.At(20, 0)),
		End:       end,
	}
	resolver := domain.NewEndResolver(domain.WithClock(func() time.Time { return domain.Date(2024, 1, 1) }))
	resolved, err := resolver.Resolve(domain.ResolveRequest{Definition: def, Stock: medicine.Stock})
	require.NoError(t, err)
	s, err := domain.NewSchedule(medicine.MedicineID, "500 mg", def, resolved)
	require.NoError(t, err)
	require.NoError(t, persistence.NewBlobScheduleRepository(store).Save(ctx, s))
	return s
}

func TestCalendarExporter_Export(t *testing.T) {
	store := blobstore.NewMemoryStore()
	s := storedSchedule(t, store, domain.ManualEnd(domain.Date(2024, 1, 2)))
	intakes := persistence.NewBlobIntakeLog(store)
	first := domain.IntakeID(s.ID(), domain.Date(2024, 1, 1), domain.At(8, 0))
	require.NoError(t, intakes.MarkTaken(context.Background(), first, time.Now()))

	exporter := NewCalendarExporter(
		persistence.NewBlobScheduleRepository(store),
		persistence.NewBlobMedicineRepository(store),
		intakes,
		time.UTC,
	)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), s.ID(), &buf))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 4)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, first+"@dosewise", uid)

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Metformin", summary)

	start, err := events[1].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), start)

	assert.Empty(t, events[0].Children, "taken intakes carry no alarm")
	require.Len(t, events[1].Children, 1)
	assert.Equal(t, ical.CompAlarm, events[1].Children[0].Name)
}

func TestCalendarExporter_Errors(t *testing.T) {
	store := blobstore.NewMemoryStore()
	repo := persistence.NewBlobScheduleRepository(store)
	exporter := NewCalendarExporter(repo, persistence.NewBlobMedicineRepository(store), nil, nil)

	err := exporter.Export(context.Background(), uuid.New(), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)

	empty := storedSchedule(t, blobstore.NewMemoryStore(), domain.CountTargetEnd(domain.CountOf(1)))
	empty = domain.RehydrateSchedule(empty.ID(), empty.MedicineID(), empty.Dose(), empty.Definition(),
		&domain.ResolvedSchedule{}, empty.CreatedAt(), empty.UpdatedAt(), empty.Version())
	require.NoError(t, repo.Save(context.Background(), empty))

	err = exporter.Export(context.Background(), empty.ID(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}
