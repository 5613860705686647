package listener

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"bookingtracker/internal"
	"bookingtracker/internal/booking"
	"bookingtracker/internal/clock"
	"bookingtracker/internal/config"
	"bookingtracker/internal/failure"
	"bookingtracker/internal/pipeline"
	"bookingtracker/internal/view"
)

const (
	MetaLastRun    = "reminder.last_run"
	MetaLastAlerts = "reminder.last_alerts"
	MetaLastExport = "reminder.last_export"
)

type MetadataWriter interface {
	SetMetadata(key, value string) error
}

// Service runs the check-in reminder on a cron schedule. Every cycle reloads
// the collection, so edits made by other processes are picked up.
type Service struct {
	persister booking.Persister
	meta      MetadataWriter
	clock     clock.Clock
	cfg       config.Config
}

type CycleResult struct {
	Today      string
	Alerts     []internal.Booking
	ExportPath string
}

func NewService(p booking.Persister, meta MetadataWriter, c clock.Clock, cfg config.Config) *Service {
	return &Service{persister: p, meta: meta, clock: c, cfg: cfg}
}

// Run performs one cycle immediately, then one per REMINDER_CRON tick until
// ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.clock.Location()), cron.WithSeconds())
	if _, err := c.AddFunc(s.cfg.ReminderCron, s.tick); err != nil {
		return errors.Wrapf(err, "schedule reminder %q", s.cfg.ReminderCron)
	}

	s.tick()
	c.Start()
	log.Info().Str("schedule", s.cfg.ReminderCron).Msg("reminder scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("reminder scheduler stopped")
	return nil
}

func (s *Service) tick() {
	if _, err := s.RunCycle(); err != nil {
		log.Error().Err(err).Msg("reminder cycle failed")
	}
}

func (s *Service) RunCycle() (CycleResult, error) {
	store := booking.NewStore(s.persister, s.clock)
	records := store.List()
	today := s.clock.Today()

	res := CycleResult{Today: today, Alerts: view.UpcomingCheckIns(records, today)}
	for _, b := range res.Alerts {
		log.Info().
			Str("id", b.ID).
			Str("checkIn", b.CheckInDate).
			Str("client", b.ClientAndRoom).
			Float64("remaining", b.RemainingBalance).
			Msg("check-in in one week")
	}

	if s.cfg.ReminderAutoExport {
		path := filepath.Join(s.cfg.OutputDir, "reminder", pipeline.ExportFileName(today))
		err := pipeline.ExportBookingsToXLSX(records, path)
		switch {
		case err == nil:
			res.ExportPath = path
		case failure.Is(err, failure.KindValidation):
			log.Debug().Msg("nothing to back up")
		default:
			return res, errors.Wrap(err, "auto export")
		}
	}

	if err := s.record(res); err != nil {
		return res, err
	}
	log.Info().Str("today", today).Int("bookings", len(records)).Int("alerts", len(res.Alerts)).Msg("reminder cycle done")
	return res, nil
}

func (s *Service) record(res CycleResult) error {
	if s.meta == nil {
		return nil
	}
	ids := make([]string, 0, len(res.Alerts))
	for _, b := range res.Alerts {
		ids = append(ids, b.ID)
	}
	values := map[string]string{
		MetaLastRun:    s.clock.Now().Format(internal.TimestampLayout),
		MetaLastAlerts: strconv.Itoa(len(ids)) + ":" + strings.Join(ids, ","),
	}
	if res.ExportPath != "" {
		values[MetaLastExport] = res.ExportPath
	}
	for k, v := range values {
		if err := s.meta.SetMetadata(k, v); err != nil {
			return errors.Wrapf(err, "set metadata %s", k)
		}
	}
	return nil
}
