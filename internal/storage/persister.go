package storage

import (
	"bookingtracker/internal/booking"
	"bookingtracker/internal/config"
)

// NewPersister picks the collection backend named by STORE_BACKEND. The
// sqlite backend shares db with import history and reminder metadata.
func NewPersister(cfg config.Config, db *DB) booking.Persister {
	if cfg.StoreBackend == config.BackendFile {
		return NewFileStore(cfg.StoreFile)
	}
	return NewStateStore(db, cfg.StoreKey)
}
