package internal

import "time"

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

var BookingStatuses = []BookingStatus{StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted}

func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DateLayout is the canonical calendar date form used for check-in and check-out.
const DateLayout = "2006-01-02"

// TimestampLayout is how createdAt/updatedAt are rendered in exports.
const TimestampLayout = "2006-01-02T15:04:05"

type Booking struct {
	ID               string        `json:"id"`
	CheckInDate      string        `json:"checkInDate"`
	CheckOutDate     string        `json:"checkOutDate"`
	ClientAndRoom    string        `json:"clientAndRoom"`
	TotalAmount      float64       `json:"totalAmount"`
	AdvancePayment   float64       `json:"advancePayment"`
	PaidAmount       float64       `json:"paidAmount"`
	RemainingBalance float64       `json:"remainingBalance"`
	IsPaid           bool          `json:"isPaid"`
	Status           BookingStatus `json:"status"`
	GuestCount       int           `json:"guestCount"`
	RoomType         string        `json:"roomType"`
	Notes            string        `json:"notes"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// SheetRow is one data row of an imported sheet keyed by header name.
type SheetRow map[string]string

type Sheet struct {
	Name    string
	Columns []string
	Rows    []SheetRow
}

// ColumnMapping assigns sheet columns to booking fields. Empty means unassigned.
type ColumnMapping struct {
	CheckIn        string
	CheckOut       string
	ClientRoom     string
	TotalAmount    string
	AdvancePayment string
	PaidAmount     string
}

type ImportRun struct {
	ID        int
	TraceID   string
	Source    string
	RowsRead  int
	Added     int
	Dropped   int
	CreatedAt string
}
