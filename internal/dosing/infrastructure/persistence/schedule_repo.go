package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/google/uuid"
)

type scheduleRow struct {
	ID         uuid.UUID                 `json:"id"`
	MedicineID uuid.UUID                 `json:"medicine_id"`
	Dose       string                    `json:"dose"`
	Definition domain.ScheduleDefinition `json:"definition"`
	Resolved   *domain.ResolvedSchedule  `json:"resolved"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
	Version    int                       `json:"version"`
}

// BlobScheduleRepository implements domain.ScheduleRepository on a blob store.
type BlobScheduleRepository struct {
	rows *collection[scheduleRow]
}

// NewBlobScheduleRepository creates a new schedule repository.
func NewBlobScheduleRepository(store blobstore.Store) *BlobScheduleRepository {
	return &BlobScheduleRepository{rows: newCollection[scheduleRow](store, KeySchedules)}
}

// Save persists a schedule.
func (r *BlobScheduleRepository) Save(ctx context.Context, s *domain.Schedule) error {
	return r.rows.update(ctx, func(items map[string]scheduleRow) error {
		items[s.ID().String()] = scheduleRow{
			ID:         s.ID(),
			MedicineID: s.MedicineID(),
			Dose:       s.Dose(),
			Definition: s.Definition(),
			Resolved:   s.Resolved(),
			CreatedAt:  s.CreatedAt(),
			UpdatedAt:  s.UpdatedAt(),
			Version:    s.Version(),
		}
		return nil
	})
}

// FindByID returns the schedule or domain.ErrScheduleNotFound.
func (r *BlobScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	items, err := r.rows.read(ctx)
	if err != nil {
		return nil, err
	}
	row, ok := items[id.String()]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return row.toDomain(), nil
}

// FindByMedicine returns the schedules of a medicine, oldest first.
func (r *BlobScheduleRepository) FindByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*domain.Schedule, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Schedule
	for _, s := range all {
		if s.MedicineID() == medicineID {
			out = append(out, s)
		}
	}
	return out, nil
}

// FindAll returns every schedule, oldest first.
func (r *BlobScheduleRepository) FindAll(ctx context.Context) ([]*domain.Schedule, error) {
	items, err := r.rows.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Schedule, 0, len(items))
	for _, row := range items {
		out = append(out, row.toDomain())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

// Delete removes a schedule. Missing schedules are reported.
func (r *BlobScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rows.update(ctx, func(items map[string]scheduleRow) error {
		if _, ok := items[id.String()]; !ok {
			return domain.ErrScheduleNotFound
		}
		delete(items, id.String())
		return nil
	})
}

func (row scheduleRow) toDomain() *domain.Schedule {
	return domain.RehydrateSchedule(
		row.ID,
		row.MedicineID,
		row.Dose,
		row.Definition,
		row.Resolved,
		row.CreatedAt,
		row.UpdatedAt,
		row.Version,
	)
}
