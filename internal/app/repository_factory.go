package app

import (
	"log/slog"

	"github.com/felixgeelhaar/dosewise/internal/dosing/infrastructure/persistence"
	reminderApp "github.com/felixgeelhaar/dosewise/internal/reminders/application"
	"github.com/felixgeelhaar/dosewise/internal/shared/infrastructure/blobstore"
)

// RepositoryFactory creates repositories on top of one blob store. Every
// repository shares the store, so they see the same backend whatever the
// configured driver.
type RepositoryFactory struct {
	store blobstore.Store
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(store blobstore.Store) *RepositoryFactory {
	return &RepositoryFactory{store: store}
}

// ScheduleRepository creates the schedule repository.
func (f *RepositoryFactory) ScheduleRepository() *persistence.BlobScheduleRepository {
	return persistence.NewBlobScheduleRepository(f.store)
}

// MedicineRepository creates the medicine repository.
func (f *RepositoryFactory) MedicineRepository() *persistence.BlobMedicineRepository {
	return persistence.NewBlobMedicineRepository(f.store)
}

// IntakeLog creates the intake log.
func (f *RepositoryFactory) IntakeLog() *persistence.BlobIntakeLog {
	return persistence.NewBlobIntakeLog(f.store)
}

// ReminderRecords creates the reminder record store.
func (f *RepositoryFactory) ReminderRecords(logger *slog.Logger) *reminderApp.RecordStore {
	return reminderApp.NewRecordStore(f.store, logger)
}

// Store returns the underlying store.
func (f *RepositoryFactory) Store() blobstore.Store {
	return f.store
}
