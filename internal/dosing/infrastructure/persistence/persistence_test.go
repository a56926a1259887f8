package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedule(t *testing.T, medicineID uuid.UUID) *domain.Schedule {
	t.Helper()
	def := domain.ScheduleDefinition{
		StartDate: domain.Date(2024, 1, 1),
		Days:      domain.WeekdaysRule(time.Monday, time.Friday),
		Times:     domain.Window(domain.At(22, 0), domain.At(2, 0), 4),
		End:       domain.CountTargetEnd(domain.CountOf(6)),
	}
	resolver := domain.NewEndResolver(domain.WithClock(func() time.Time { return domain.Date(2024, 1, 1) }))
	res, err := resolver.Resolve(domain.ResolveRequest{Definition: def, Stock: domain.NewStockSnapshot(10, 1)})
	require.NoError(t, err)

	s, err := domain.NewSchedule(medicineID, "1 tablet", def, res)
	require.NoError(t, err)
	return s
}

func TestBlobScheduleRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobScheduleRepository(blobstore.NewMemoryStore())
	medicineID := uuid.New()
	s := newSchedule(t, medicineID)

	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.MedicineID(), found.MedicineID())
	assert.Equal(t, s.Dose(), found.Dose())
	assert.Equal(t, s.Definition(), found.Definition())
	assert.Equal(t, s.Resolved(), found.Resolved())
	assert.Equal(t, s.IntakeEvents(), found.IntakeEvents())
	assert.Empty(t, found.DomainEvents())
}

func TestBlobScheduleRepository_FindByMedicine(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobScheduleRepository(blobstore.NewMemoryStore())
	medicineID := uuid.New()

	require.NoError(t, repo.Save(ctx, newSchedule(t, medicineID)))
	require.NoError(t, repo.Save(ctx, newSchedule(t, medicineID)))
	require.NoError(t, repo.Save(ctx, newSchedule(t, uuid.New())))

	found, err := repo.FindByMedicine(ctx, medicineID)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBlobScheduleRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobScheduleRepository(blobstore.NewMemoryStore())
	s := newSchedule(t, uuid.New())
	require.NoError(t, repo.Save(ctx, s))

	require.NoError(t, repo.Delete(ctx, s.ID()))
	_, err := repo.FindByID(ctx, s.ID())
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID()), domain.ErrScheduleNotFound)
}

func TestBlobMedicineRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobMedicineRepository(blobstore.NewMemoryStore())

	expiry := time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)
	ibuprofen := domain.MedicineSnapshot{
		MedicineID: uuid.New(),
		Name:       " Ibuprofen ",
		Stock:      domain.NewStockSnapshot(20, 1),
		Expiry:     &expiry,
	}
	aspirin := domain.MedicineSnapshot{MedicineID: uuid.New(), Name: "aspirin", Stock: domain.UntrackedStock()}
	require.NoError(t, repo.Save(ctx, ibuprofen))
	require.NoError(t, repo.Save(ctx, aspirin))

	got, err := repo.Snapshot(ctx, ibuprofen.MedicineID)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", got.Name)
	assert.Equal(t, 20, got.Stock.MaxIntakes())
	assert.Equal(t, domain.Date(2025, 6, 30), *got.Expiry)

	_, err = repo.Snapshot(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrMedicineNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "aspirin", list[0].Name)
}

func TestBlobIntakeLog(t *testing.T) {
	ctx := context.Background()
	log := NewBlobIntakeLog(blobstore.NewMemoryStore())
	scheduleID := uuid.New()
	other := uuid.New()

	first := domain.IntakeID(scheduleID, domain.Date(2024, 1, 1), domain.At(8, 0))
	takenAt := time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC)
	require.NoError(t, log.MarkTaken(ctx, first, takenAt))
	require.NoError(t, log.MarkTaken(ctx, first, takenAt.Add(time.Hour)))
	require.NoError(t, log.MarkTaken(ctx, domain.IntakeID(other, domain.Date(2024, 1, 1), domain.At(8, 0)), takenAt))

	taken, err := log.TakenFor(ctx, scheduleID)
	require.NoError(t, err)
	assert.Equal(t, map[string]time.Time{first: takenAt}, taken)

	require.NoError(t, log.Forget(ctx, scheduleID))
	taken, err = log.TakenFor(ctx, scheduleID)
	require.NoError(t, err)
	assert.Empty(t, taken)

	taken, err = log.TakenFor(ctx, other)
	require.NoError(t, err)
	assert.Len(t, taken, 1)
}

func TestCollection_SurvivesSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/data.db"

	store, err := blobstore.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	s := newSchedule(t, uuid.New())
	require.NoError(t, NewBlobScheduleRepository(store).Save(ctx, s))
	require.NoError(t, store.Close())

	store, err = blobstore.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	found, err := NewBlobScheduleRepository(store).FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.Resolved().RequiredCount, found.Resolved().RequiredCount)
}
