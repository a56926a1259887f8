package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/google/uuid"
)

// BlobIntakeLog implements domain.IntakeLog on a blob store.
type BlobIntakeLog struct {
	rows *collection[time.Time]
}

// NewBlobIntakeLog creates a new intake log.
func NewBlobIntakeLog(store blobstore.Store) *BlobIntakeLog {
	return &BlobIntakeLog{rows: newCollection[time.Time](store, KeyIntakes)}
}

// MarkTaken records the intake. Marking twice keeps the first time.
func (l *BlobIntakeLog) MarkTaken(ctx context.Context, intakeID string, at time.Time) error {
	return l.rows.update(ctx, func(items map[string]time.Time) error {
		if _, ok := items[intakeID]; !ok {
			items[intakeID] = at.UTC()
		}
		return nil
	})
}

// TakenFor returns the taken intakes of a schedule.
func (l *BlobIntakeLog) TakenFor(ctx context.Context, scheduleID uuid.UUID) (map[string]time.Time, error) {
	items, err := l.rows.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time)
	for id, at := range items {
		if domain.BelongsTo(id, scheduleID) {
			out[id] = at
		}
	}
	return out, nil
}

// Forget drops every entry of a schedule.
func (l *BlobIntakeLog) Forget(ctx context.Context, scheduleID uuid.UUID) error {
	return l.rows.update(ctx, func(items map[string]time.Time) error {
		for id := range items {
			if domain.BelongsTo(id, scheduleID) {
				delete(items, id)
			}
		}
		return nil
	})
}
