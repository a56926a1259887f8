package persistence

import (
	"context"
	"sort"
	"strings"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/google/uuid"
)

// BlobMedicineRepository stores medicine snapshots and serves them as a
// domain.StockReader.
type BlobMedicineRepository struct {
	rows *collection[domain.MedicineSnapshot]
}

// NewBlobMedicineRepository creates a new medicine repository.
func NewBlobMedicineRepository(store blobstore.Store) *BlobMedicineRepository {
	return &BlobMedicineRepository{rows: newCollection[domain.MedicineSnapshot](store, KeyMedicines)}
}

// Save stores a snapshot, replacing the previous one of the same medicine.
func (r *BlobMedicineRepository) Save(ctx context.Context, m domain.MedicineSnapshot) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Expiry != nil {
		d := domain.Day(*m.Expiry)
		m.Expiry = &d
	}
	return r.rows.update(ctx, func(items map[string]domain.MedicineSnapshot) error {
		items[m.MedicineID.String()] = m
		return nil
	})
}

// Snapshot returns the snapshot or domain.ErrMedicineNotFound.
func (r *BlobMedicineRepository) Snapshot(ctx context.Context, medicineID uuid.UUID) (*domain.MedicineSnapshot, error) {
	items, err := r.rows.read(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := items[medicineID.String()]
	if !ok {
		return nil, domain.ErrMedicineNotFound
	}
	return &m, nil
}

// List returns every medicine ordered by name.
func (r *BlobMedicineRepository) List(ctx context.Context) ([]domain.MedicineSnapshot, error) {
	items, err := r.rows.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MedicineSnapshot, 0, len(items))
	for _, m := range items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
