package view

import (
	"bookingtracker/internal"
	"bookingtracker/internal/clock"
)

// AlertLeadDays is how far ahead check-in alerts look.
const AlertLeadDays = 7

// UpcomingCheckIns returns the non-cancelled bookings checking in exactly
// AlertLeadDays after today. It is recomputed from scratch on every call.
func UpcomingCheckIns(records []internal.Booking, today string) []internal.Booking {
	target, err := clock.AddDays(today, AlertLeadDays)
	if err != nil {
		return nil
	}
	out := []internal.Booking{}
	for _, b := range records {
		if b.CheckInDate == target && b.Status != internal.StatusCancelled {
			out = append(out, b)
		}
	}
	return out
}
