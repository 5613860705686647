package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bookingtracker/internal"
	"bookingtracker/internal/failure"
)

const ExportSheetName = "Bookings"

var ExportHeaders = []string{
	"Check-in Date", "Check-out Date", "Client & Room", "Total Amount", "Advance Payment",
	"Paid Amount", "Remaining Balance", "Status", "Guest Count", "Room Type", "Notes",
	"Created", "Updated",
}

// ExportFileName is the download name for an export made on today.
func ExportFileName(today string) string {
	return "booking_tracker_" + today + ".xlsx"
}

func ExportBookingsToXLSX(bookings []internal.Booking, outputPath string) error {
	if len(bookings) == 0 {
		return failure.Validation("no bookings to export")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := WriteBookingsXLSX(bookings, out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func WriteBookingsXLSX(bookings []internal.Booking, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return err
	}
	sheet := ExportSheetName

	for i, h := range ExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, b := range bookings {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, b.CheckInDate)
		set(2, b.CheckOutDate)
		set(3, b.ClientAndRoom)
		set(4, b.TotalAmount)
		set(5, b.AdvancePayment)
		set(6, b.PaidAmount)
		set(7, b.RemainingBalance)
		set(8, string(b.Status))
		set(9, b.GuestCount)
		set(10, b.RoomType)
		set(11, b.Notes)
		set(12, b.CreatedAt.Format(internal.TimestampLayout))
		set(13, b.UpdatedAt.Format(internal.TimestampLayout))
	}

	_, err := f.WriteTo(w)
	return err
}
