package storage

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"bookingtracker/internal"
)

// FileStore keeps the booking collection as a JSON file. Writes go to a
// temporary file that is renamed over the target, so a crash mid-write loses
// the write but never leaves a partial array behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]internal.Booking, error) {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []internal.Booking{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read %s", s.path)
	}
	return decodeBookings(blob)
}

func (s *FileStore) Save(bookings []internal.Booking) error {
	blob, err := encodeBookings(bookings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return pkgerrors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
