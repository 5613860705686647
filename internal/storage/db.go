package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"bookingtracker/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS state (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS import_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  rowsRead INTEGER NOT NULL,
  added INTEGER NOT NULL,
  dropped INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// GetState returns the raw value stored under key, or nil when absent.
func (d *DB) GetState(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// PutState overwrites the value under key in a single statement, so a failed
// write leaves the previous value intact.
func (d *DB) PutState(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO state (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) InsertImportRun(run internal.ImportRun) error {
	_, err := d.conn.Exec(`INSERT INTO import_runs (traceId, source, rowsRead, added, dropped) VALUES (?, ?, ?, ?, ?)`,
		run.TraceID, run.Source, run.RowsRead, run.Added, run.Dropped)
	return err
}

func (d *DB) ListImportRuns(limit int) ([]internal.ImportRun, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, source, rowsRead, added, dropped, createdAt
FROM import_runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ImportRun
	for rows.Next() {
		var run internal.ImportRun
		if err := rows.Scan(&run.ID, &run.TraceID, &run.Source, &run.RowsRead, &run.Added, &run.Dropped, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// StateStore keeps the booking collection as one JSON array under a single
// state key.
type StateStore struct {
	db  *DB
	key string
}

func NewStateStore(db *DB, key string) *StateStore {
	return &StateStore{db: db, key: key}
}

func (s *StateStore) Load() ([]internal.Booking, error) {
	raw, err := s.db.GetState(s.key)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read state %q", s.key)
	}
	if raw == nil {
		return []internal.Booking{}, nil
	}
	return decodeBookings([]byte(*raw))
}

func (s *StateStore) Save(bookings []internal.Booking) error {
	blob, err := encodeBookings(bookings)
	if err != nil {
		return err
	}
	return pkgerrors.Wrapf(s.db.PutState(s.key, string(blob)), "write state %q", s.key)
}

func encodeBookings(bookings []internal.Booking) ([]byte, error) {
	if bookings == nil {
		bookings = []internal.Booking{}
	}
	blob, err := json.Marshal(bookings)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode bookings")
	}
	return blob, nil
}

func decodeBookings(blob []byte) ([]internal.Booking, error) {
	var out []internal.Booking
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, pkgerrors.Wrap(err, "decode saved bookings")
	}
	if out == nil {
		out = []internal.Booking{}
	}
	return out, nil
}
