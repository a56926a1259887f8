package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

// RecordKey is the blob key of the reminder record table.
const RecordKey = "reminders"

// RecordStore holds the reminder record table in memory and writes it back
// to the blob store after each change. Writes are best effort: a failed
// write is logged and the in-memory table stays authoritative.
type RecordStore struct {
	store  blobstore.Store
	logger *slog.Logger

	mu     sync.Mutex
	table  *domain.RecordTable
	loaded bool
	seq    uint64

	writeMu sync.Mutex
	written uint64
}

// NewRecordStore creates a record store backed by store.
func NewRecordStore(store blobstore.Store, logger *slog.Logger) *RecordStore {
	return &RecordStore{
		store:  store,
		logger: observability.OrDefault(logger),
		table:  domain.NewRecordTable(),
	}
}

// Update runs fn on the table under the lock, loading it first if needed.
func (s *RecordStore) Update(ctx context.Context, fn func(t *domain.RecordTable)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	fn(s.table)
	return nil
}

// Snapshot returns a copy of the current table.
func (s *RecordStore) Snapshot(ctx context.Context) (*domain.RecordTable, error) {
	var out *domain.RecordTable
	err := s.Update(ctx, func(t *domain.RecordTable) { out = t.Clone() })
	return out, err
}

// Persist writes the current table to the blob store. Concurrent calls never
// let an older table overwrite a newer one.
func (s *RecordStore) Persist(ctx context.Context) {
	s.mu.Lock()
	data, err := json.Marshal(s.table)
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode reminder records", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq <= s.written {
		return
	}
	if err := s.store.Set(ctx, RecordKey, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist reminder records", "error", err)
		return
	}
	s.written = seq
}

func (s *RecordStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	data, err := s.store.Get(ctx, RecordKey)
	if err != nil {
		return fmt.Errorf("load reminder records: %w", err)
	}
	table := domain.NewRecordTable()
	if len(data) > 0 {
		if err := json.Unmarshal(data, table); err != nil {
			return err
		}
	}
	s.table = table
	s.loaded = true
	return nil
}
