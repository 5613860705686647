package receipt

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/pkg/errors"

	"bookingtracker/internal"
	"bookingtracker/internal/clock"
)

// IssueDateLayout renders the receipt issue date, e.g. "October 17, 2026".
const IssueDateLayout = "January 2, 2006"

// View is the flattened, display-ready form of a booking.
type View struct {
	Number         string
	IssuedOn       string
	ClientAndRoom  string
	CheckIn        string
	CheckOut       string
	Duration       string
	Guests         int
	RoomType       string
	TotalAmount    string
	AdvancePayment string
	PaidAmount     string
	Remaining      string
	PaymentStatus  string
}

func NewView(b internal.Booking, issued time.Time) View {
	nights := 0
	if b.CheckInDate != "" && b.CheckOutDate != "" {
		if d, ok := clock.DaysBetween(b.CheckInDate, b.CheckOutDate); ok {
			nights = d
		}
	}
	unit := "nights"
	if nights == 1 {
		unit = "night"
	}

	number := b.ID
	if len(number) > 8 {
		number = number[:8]
	}

	v := View{
		Number:         number,
		IssuedOn:       issued.Format(IssueDateLayout),
		ClientAndRoom:  b.ClientAndRoom,
		CheckIn:        b.CheckInDate,
		CheckOut:       b.CheckOutDate,
		Duration:       fmt.Sprintf("%d %s", nights, unit),
		Guests:         b.GuestCount,
		RoomType:       b.RoomType,
		TotalAmount:    money(b.TotalAmount),
		AdvancePayment: money(b.AdvancePayment),
		PaidAmount:     money(b.PaidAmount),
		Remaining:      money(b.RemainingBalance),
		PaymentStatus:  "Balance Due",
	}
	if v.CheckOut == "" {
		v.CheckOut = "N/A"
	}
	if v.RoomType == "" {
		v.RoomType = "Standard"
	}
	if b.IsPaid {
		v.PaymentStatus = "Fully Paid"
	}
	return v
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Render writes a standalone printable HTML page for b.
func Render(w io.Writer, b internal.Booking, issued time.Time) error {
	if err := page.Execute(w, NewView(b, issued)); err != nil {
		return errors.Wrap(err, "render receipt")
	}
	return nil
}

var page = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Booking Receipt</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
.receipt { max-width: 800px; margin: 0 auto; padding: 20px; border: 1px solid #ccc; }
.header { text-align: center; margin-bottom: 20px; }
.details { margin-bottom: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 8px; text-align: left; border-bottom: 1px solid #ddd; }
.summary { margin-top: 30px; }
.footer { margin-top: 50px; text-align: center; font-size: 12px; }
.total { font-weight: bold; }
</style>
</head>
<body onload="window.print()">
<div class="receipt">
  <div class="header">
    <h1>Booking Receipt</h1>
    <p id="number">Receipt #: {{.Number}}</p>
    <p id="issued">Date: {{.IssuedOn}}</p>
  </div>
  <div class="details">
    <h2>Booking Details</h2>
    <table>
      <tr><th>Client &amp; Room:</th><td id="client">{{.ClientAndRoom}}</td></tr>
      <tr><th>Check-in Date:</th><td id="check-in">{{.CheckIn}}</td></tr>
      <tr><th>Check-out Date:</th><td id="check-out">{{.CheckOut}}</td></tr>
      <tr><th>Duration:</th><td id="duration">{{.Duration}}</td></tr>
      <tr><th>Number of Guests:</th><td id="guests">{{.Guests}}</td></tr>
      <tr><th>Room Type:</th><td id="room-type">{{.RoomType}}</td></tr>
    </table>
  </div>
  <div class="summary">
    <h2>Payment Summary</h2>
    <table>
      <tr><th>Total Amount:</th><td id="total">{{.TotalAmount}}</td></tr>
      <tr><th>Advance Payment:</th><td id="advance">{{.AdvancePayment}}</td></tr>
      <tr><th>Paid Amount:</th><td id="paid">{{.PaidAmount}}</td></tr>
      <tr class="total"><th>Remaining Balance:</th><td id="remaining">{{.Remaining}}</td></tr>
      <tr><th>Status:</th><td id="payment-status">{{.PaymentStatus}}</td></tr>
    </table>
  </div>
  <div class="footer">
    <p>Thank you for your business!</p>
    <p>For questions or concerns, please contact us.</p>
  </div>
</div>
</body>
</html>
`))
