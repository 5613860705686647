package booking

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"bookingtracker/internal"
	"bookingtracker/internal/clock"
	"bookingtracker/internal/failure"
	"bookingtracker/internal/logger"
)

// Persister is the storage boundary: the whole collection is loaded once and
// overwritten wholesale after every change. Load returns an empty slice and no
// error when nothing has been stored yet.
type Persister interface {
	Load() ([]internal.Booking, error)
	Save(bookings []internal.Booking) error
}

type Store struct {
	mu        sync.Mutex
	persister Persister
	clock     clock.Clock
	bookings  []internal.Booking
}

// NewStore loads the collection. A corrupt or unreadable collection is logged
// and replaced by an empty one.
func NewStore(p Persister, c clock.Clock) *Store {
	s := &Store{persister: p, clock: c}
	loaded, err := p.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load saved bookings, starting empty")
		loaded = nil
	}
	s.bookings = make([]internal.Booking, 0, len(loaded))
	for _, b := range loaded {
		Recompute(&b)
		s.bookings = append(s.bookings, b)
	}
	return s
}

func (s *Store) Clock() clock.Clock {
	return s.clock
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []internal.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]internal.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) Get(id string) (internal.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return internal.Booking{}, notFound(id)
	}
	return s.bookings[i], nil
}

func (s *Store) Add(d Draft) (internal.Booking, error) {
	if err := d.Validate(); err != nil {
		return internal.Booking{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := New(d, s.clock.Now())
	s.bookings = append(s.bookings, b)
	return b, s.persist()
}

// Update replaces every editable field of an existing booking. ID and
// createdAt are kept.
func (s *Store) Update(id string, d Draft) (internal.Booking, error) {
	if err := d.Validate(); err != nil {
		return internal.Booking{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return internal.Booking{}, notFound(id)
	}
	apply(&s.bookings[i], d, s.clock.Now())
	return s.bookings[i], s.persist()
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
	return s.persist()
}

// MarkPaid settles the balance by setting paidAmount to whatever the advance
// payment does not cover.
func (s *Store) MarkPaid(id string) (internal.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return internal.Booking{}, notFound(id)
	}
	b := &s.bookings[i]
	b.PaidAmount = b.TotalAmount - b.AdvancePayment
	if b.PaidAmount < 0 {
		b.PaidAmount = 0
	}
	b.UpdatedAt = s.clock.Now()
	Recompute(b)
	return *b, s.persist()
}

func (s *Store) ChangeStatus(id string, status internal.BookingStatus) (internal.Booking, error) {
	if !status.Valid() {
		return internal.Booking{}, failure.Validation("unknown status: " + string(status))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return internal.Booking{}, notFound(id)
	}
	b := &s.bookings[i]
	b.Status = status
	b.UpdatedAt = s.clock.Now()
	Recompute(b)
	return *b, s.persist()
}

// Append adds imported records as-is. Existing records are never merged or
// deduplicated.
func (s *Store) Append(records []internal.Booking) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range records {
		Recompute(&b)
		s.bookings = append(s.bookings, b)
	}
	return s.persist()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = s.bookings[:0]
	return s.persist()
}

func (s *Store) indexOf(id string) int {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. The in-memory change stands even when
// the write fails.
func (s *Store) persist() error {
	snapshot := make([]internal.Booking, len(s.bookings))
	copy(snapshot, s.bookings)
	if err := s.persister.Save(snapshot); err != nil {
		err = errors.Wrapf(err, "save %d bookings", len(snapshot))
		logger.ErrorWithStack(err)
		return err
	}
	return nil
}

func notFound(id string) error {
	return failure.NotFound("booking not found: " + id)
}
