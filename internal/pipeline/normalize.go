package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookingtracker/internal"
	"bookingtracker/internal/booking"
	"bookingtracker/internal/util"
)

var reRoomToken = regexp.MustCompile(`(?i)Room\s+(\w+)`)

// NormalizeRows turns sheet rows into bookings using the confirmed mapping.
// Rows without a check-in value are dropped and counted, never reported as
// errors. today must be YYYY-MM-DD.
func NormalizeRows(rows []internal.SheetRow, m internal.ColumnMapping, today string, now time.Time) ([]internal.Booking, int) {
	loc := now.Location()
	out := make([]internal.Booking, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		checkIn := util.NormalizeDate(cell(row, m.CheckIn), loc)
		if checkIn == "" {
			dropped++
			continue
		}
		checkOut := util.NormalizeDate(cell(row, m.CheckOut), loc)

		clientAndRoom := strings.TrimSpace(cell(row, m.ClientRoom))
		if clientAndRoom == "" {
			clientAndRoom = fmt.Sprintf("Booking %d", i+1)
		}

		b := internal.Booking{
			ID:             uuid.NewString(),
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			ClientAndRoom:  clientAndRoom,
			TotalAmount:    util.ParseAmount(cell(row, m.TotalAmount)),
			AdvancePayment: util.ParseAmount(cell(row, m.AdvancePayment)),
			PaidAmount:     util.ParseAmount(cell(row, m.PaidAmount)),
			GuestCount:     1,
			RoomType:       ExtractRoomType(clientAndRoom),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		booking.Recompute(&b)
		b.Status = InferStatus(b.CheckInDate, b.CheckOutDate, b.IsPaid, today)
		out = append(out, b)
	}

	return out, dropped
}

// ExtractRoomType guesses the room type from a client/room label: the last
// hyphen-separated segment, else the token after the word "Room". It may
// return "".
func ExtractRoomType(clientAndRoom string) string {
	if strings.Contains(clientAndRoom, "-") {
		parts := strings.Split(clientAndRoom, "-")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	if strings.Contains(clientAndRoom, "Room") {
		if m := reRoomToken.FindStringSubmatch(clientAndRoom); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// InferStatus derives an imported booking's status from its dates and
// payment. The paid rule runs last and overrides the date rules, so a paid
// stay that already checked out comes back as confirmed rather than completed.
func InferStatus(checkIn, checkOut string, isPaid bool, today string) internal.BookingStatus {
	status := internal.StatusConfirmed
	if checkOut != "" && checkOut < today {
		status = internal.StatusCompleted
	} else if checkIn > today {
		status = internal.StatusPending
	}

	if isPaid && checkIn <= today {
		status = internal.StatusConfirmed
	}
	return status
}

func cell(row internal.SheetRow, column string) string {
	if column == "" {
		return ""
	}
	return row[column]
}
