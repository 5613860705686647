package booking

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingtracker/internal"
	"bookingtracker/internal/clock"
	"bookingtracker/internal/failure"
)

type memPersister struct {
	saved   []internal.Booking
	saves   int
	loadErr error
	saveErr error
}

func (m *memPersister) Load() ([]internal.Booking, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *memPersister) Save(bookings []internal.Booking) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = bookings
	return nil
}

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *memPersister) {
	t.Helper()
	p := &memPersister{}
	return NewStore(p, clock.Fixed(fixedNow)), p
}

func assertDerived(t *testing.T, b internal.Booking) {
	t.Helper()
	assert.Equal(t, b.TotalAmount-(b.AdvancePayment+b.PaidAmount), b.RemainingBalance)
	assert.Equal(t, b.RemainingBalance <= 0, b.IsPaid)
}

func TestAddAppliesDefaultsAndDerivedFields(t *testing.T) {
	s, p := newTestStore(t)

	b, err := s.Add(Draft{
		CheckInDate:    "2026-10-20",
		ClientAndRoom:  "  Ana Lopez - Deluxe ",
		TotalAmount:    500,
		AdvancePayment: 100,
		PaidAmount:     150,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Ana Lopez - Deluxe", b.ClientAndRoom)
	assert.Equal(t, 1, b.GuestCount)
	assert.Equal(t, internal.StatusConfirmed, b.Status)
	assert.Equal(t, 250.0, b.RemainingBalance)
	assert.False(t, b.IsPaid)
	assert.Equal(t, fixedNow, b.CreatedAt)
	assert.Equal(t, fixedNow, b.UpdatedAt)
	assertDerived(t, b)
	require.Len(t, p.saved, 1)
}

func TestAddValidation(t *testing.T) {
	s, p := newTestStore(t)

	cases := []struct {
		name  string
		draft Draft
		msg   string
	}{
		{name: "missing check-in", draft: Draft{ClientAndRoom: "Guest"}, msg: "check-in date is required"},
		{name: "missing client", draft: Draft{CheckInDate: "2026-10-20", ClientAndRoom: "   "}, msg: "client/room is required"},
		{name: "bad date", draft: Draft{CheckInDate: "20/10/2026", ClientAndRoom: "Guest"}, msg: `check-in date must be a date in YYYY-MM-DD form, got "20/10/2026"`},
		{name: "negative amount", draft: Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: -1}, msg: "total amount must be greater than or equal to 0"},
		{name: "unknown status", draft: Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", Status: "lost"}, msg: "status must be one of confirmed pending cancelled completed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Add(tc.draft)
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, p.saves)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	p := &memPersister{}
	created := fixedNow.Add(-48 * time.Hour)
	s := NewStore(p, clock.Fixed(created))
	b, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: 300})
	require.NoError(t, err)

	s.clock = clock.Fixed(fixedNow)
	d := DraftOf(b)
	d.PaidAmount = 300
	d.Notes = "paid at desk"
	updated, err := s.Update(b.ID, d)
	require.NoError(t, err)

	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, "paid at desk", updated.Notes)
	assertDerived(t, updated)
}

func TestMarkPaid(t *testing.T) {
	s, _ := newTestStore(t)
	b, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: 400, AdvancePayment: 120, PaidAmount: 30})
	require.NoError(t, err)

	paid, err := s.MarkPaid(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 280.0, paid.PaidAmount)
	assert.Equal(t, 0.0, paid.RemainingBalance)
	assert.True(t, paid.IsPaid)
	assertDerived(t, paid)
}

func TestMarkPaidWithAdvanceAboveTotal(t *testing.T) {
	s, _ := newTestStore(t)
	b, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: 100, AdvancePayment: 150})
	require.NoError(t, err)

	paid, err := s.MarkPaid(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, paid.PaidAmount)
	assert.Equal(t, -50.0, paid.RemainingBalance)
	assert.True(t, paid.IsPaid)
}

func TestChangeStatusIsIndependentOfPayment(t *testing.T) {
	s, _ := newTestStore(t)
	b, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: 100})
	require.NoError(t, err)

	cancelled, err := s.ChangeStatus(b.ID, internal.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, internal.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsPaid)

	_, err = s.ChangeStatus(b.ID, "archived")
	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestDeleteAndNotFound(t *testing.T) {
	s, p := newTestStore(t)
	b, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(b.ID))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, p.saved)

	err = s.Delete(b.ID)
	assert.True(t, failure.Is(err, failure.KindNotFound))
	_, err = s.Get("missing")
	assert.True(t, failure.Is(err, failure.KindNotFound))
	_, err = s.MarkPaid("missing")
	assert.True(t, failure.Is(err, failure.KindNotFound))
}

func TestAppendRecomputesAndNeverMerges(t *testing.T) {
	s, p := newTestStore(t)
	rec := internal.Booking{ID: "a", CheckInDate: "2026-10-20", ClientAndRoom: "Guest", TotalAmount: 90, PaidAmount: 100, RemainingBalance: 999}

	require.NoError(t, s.Append([]internal.Booking{rec}))
	require.NoError(t, s.Append([]internal.Booking{rec}))

	list := s.List()
	require.Len(t, list, 2)
	for _, b := range list {
		assertDerived(t, b)
		assert.True(t, b.IsPaid)
	}
	assert.Len(t, p.saved, 2)
}

func TestClearPersistsEmptyCollection(t *testing.T) {
	s, p := newTestStore(t)
	_, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest"})
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, p.saved)
	assert.Empty(t, p.saved)
}

func TestCorruptStorageStartsEmpty(t *testing.T) {
	p := &memPersister{loadErr: errors.New("invalid character 'x' looking for beginning of value")}
	s := NewStore(p, clock.Fixed(fixedNow))
	assert.Equal(t, 0, s.Len())
}

func TestLoadRepairsDriftedDerivedFields(t *testing.T) {
	p := &memPersister{saved: []internal.Booking{{ID: "x", TotalAmount: 50, AdvancePayment: 50, RemainingBalance: 50, IsPaid: false}}}
	s := NewStore(p, clock.Fixed(fixedNow))
	b, err := s.Get("x")
	require.NoError(t, err)
	assert.True(t, b.IsPaid)
	assert.Equal(t, 0.0, b.RemainingBalance)
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	p := &memPersister{saveErr: errors.New("quota exceeded")}
	s := NewStore(p, clock.Fixed(fixedNow))

	_, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, s.Len())
}

func TestUpdateImportedRawCheckInNamesTheValue(t *testing.T) {
	p := &memPersister{saved: []internal.Booking{{ID: "raw", CheckInDate: "next tuesday", ClientAndRoom: "Guest", TotalAmount: 100}}}
	s := NewStore(p, clock.Fixed(fixedNow))

	current, err := s.Get("raw")
	require.NoError(t, err)
	d := DraftOf(current)
	d.Notes = "called ahead"

	_, err = s.Update("raw", d)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindValidation))
	assert.Equal(t, `check-in date must be a date in YYYY-MM-DD form, got "next tuesday"`, err.Error())

	d.CheckInDate = "2026-10-27"
	updated, err := s.Update("raw", d)
	require.NoError(t, err)
	assert.Equal(t, "called ahead", updated.Notes)
}

func TestSaveFailureIsLoggedWithStack(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = log.Output(&buf)
	defer func() { log.Logger = orig }()

	p := &memPersister{saveErr: errors.New("quota exceeded")}
	s := NewStore(p, clock.Fixed(fixedNow))
	_, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "save 1 bookings")
	assert.Contains(t, out, `"level":"error"`)
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add(Draft{CheckInDate: "2026-10-20", ClientAndRoom: "Guest"})
	require.NoError(t, err)

	list := s.List()
	list[0].ClientAndRoom = "changed"
	assert.Equal(t, "Guest", s.List()[0].ClientAndRoom)
}
