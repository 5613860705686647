package pipeline

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"bookingtracker/internal"
	"bookingtracker/internal/booking"
	"bookingtracker/internal/failure"
)

// RunRecorder keeps a history of processed imports. It is optional.
type RunRecorder interface {
	InsertImportRun(run internal.ImportRun) error
}

type ImportService struct {
	store *booking.Store
	runs  RunRecorder
}

func NewImportService(store *booking.Store, runs RunRecorder) *ImportService {
	return &ImportService{store: store, runs: runs}
}

type ImportResult struct {
	TraceID  string
	RowsRead int
	Added    int
	Dropped  int
}

// Import normalizes every row of sheet under mapping and appends the result
// to the store. Nothing is added when the mapping is incomplete or the sheet
// has no rows.
func (s *ImportService) Import(sheet internal.Sheet, mapping internal.ColumnMapping, source string) (ImportResult, error) {
	if err := ValidateMapping(sheet, mapping); err != nil {
		return ImportResult{}, err
	}
	if len(sheet.Rows) == 0 {
		return ImportResult{}, errEmptySheet
	}

	clk := s.store.Clock()
	records, dropped := NormalizeRows(sheet.Rows, mapping, clk.Today(), clk.Now())
	if err := s.store.Append(records); err != nil {
		return ImportResult{}, errors.Wrap(err, "append imported bookings")
	}

	res := ImportResult{
		TraceID:  uuid.NewString(),
		RowsRead: len(sheet.Rows),
		Added:    len(records),
		Dropped:  dropped,
	}
	if s.runs != nil {
		run := internal.ImportRun{TraceID: res.TraceID, Source: source, RowsRead: res.RowsRead, Added: res.Added, Dropped: res.Dropped}
		if err := s.runs.InsertImportRun(run); err != nil {
			log.Warn().Err(err).Str("trace", res.TraceID).Msg("failed to record import run")
		}
	}

	log.Info().
		Str("trace", res.TraceID).
		Str("source", source).
		Int("rows", res.RowsRead).
		Int("added", res.Added).
		Int("dropped", res.Dropped).
		Msg("spreadsheet imported")
	return res, nil
}

// ValidateMapping requires the check-in and client/room assignments and
// rejects columns the sheet does not have.
func ValidateMapping(sheet internal.Sheet, m internal.ColumnMapping) error {
	if m.CheckIn == "" || m.ClientRoom == "" {
		return failure.Validation("please select at least check-in date and client/room columns")
	}
	known := make(map[string]struct{}, len(sheet.Columns))
	for _, c := range sheet.Columns {
		known[c] = struct{}{}
	}
	for _, field := range Fields {
		col := getField(m, field)
		if col == "" {
			continue
		}
		if _, ok := known[col]; !ok {
			return failure.Validation("unknown column for " + string(field) + ": " + col)
		}
	}
	return nil
}
