package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"bookingtracker/internal"
	"bookingtracker/internal/failure"
)

// Draft is the editable part of a booking, as entered on the add/edit form.
type Draft struct {
	CheckInDate    string                 `label:"check-in date" validate:"required,datetime=2006-01-02"`
	CheckOutDate   string                 `label:"check-out date" validate:"omitempty,datetime=2006-01-02"`
	ClientAndRoom  string                 `label:"client/room" validate:"required"`
	TotalAmount    float64                `label:"total amount" validate:"gte=0"`
	AdvancePayment float64                `label:"advance payment" validate:"gte=0"`
	PaidAmount     float64                `label:"paid amount" validate:"gte=0"`
	GuestCount     int                    `label:"guest count"`
	RoomType       string                 `label:"room type"`
	Status         internal.BookingStatus `label:"status" validate:"omitempty,oneof=confirmed pending cancelled completed"`
	Notes          string                 `label:"notes"`
}

var (
	validate = newValidator()

	messages = map[string]string{
		"required": "{field} is required",
		"datetime": "{field} must be a date in YYYY-MM-DD form, got {value}",
		"gte":      "{field} must be greater than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
	}
)

func newValidator() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// Validate trims text fields, applies defaults and checks required fields.
func (d *Draft) Validate() error {
	d.CheckInDate = strings.TrimSpace(d.CheckInDate)
	d.CheckOutDate = strings.TrimSpace(d.CheckOutDate)
	d.ClientAndRoom = strings.TrimSpace(d.ClientAndRoom)
	d.RoomType = strings.TrimSpace(d.RoomType)
	if d.GuestCount <= 0 {
		d.GuestCount = 1
	}
	if d.Status == "" {
		d.Status = internal.StatusConfirmed
	}

	if err := validate.Struct(d); err != nil {
		return failure.Validation(message(err))
	}
	return nil
}

func message(err error) string {
	var valErrors val.ValidationErrors
	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			msg := messages[valErr.Tag()]
			if msg == "" {
				continue
			}
			msg = strings.ReplaceAll(msg, "{field}", valErr.Field())
			msg = strings.ReplaceAll(msg, "{param}", valErr.Param())
			msg = strings.ReplaceAll(msg, "{value}", fmt.Sprintf("%q", valErr.Value()))
			return msg
		}
		return valErrors.Error()
	}
	return err.Error()
}

// Recompute refreshes remainingBalance and isPaid from the payment fields.
// Every mutator goes through it.
func Recompute(b *internal.Booking) {
	b.RemainingBalance = b.TotalAmount - (b.AdvancePayment + b.PaidAmount)
	b.IsPaid = b.RemainingBalance <= 0
}

// New builds a fresh booking from a validated draft.
func New(d Draft, now time.Time) internal.Booking {
	b := internal.Booking{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	apply(&b, d, now)
	return b
}

func apply(b *internal.Booking, d Draft, now time.Time) {
	b.CheckInDate = d.CheckInDate
	b.CheckOutDate = d.CheckOutDate
	b.ClientAndRoom = d.ClientAndRoom
	b.TotalAmount = d.TotalAmount
	b.AdvancePayment = d.AdvancePayment
	b.PaidAmount = d.PaidAmount
	b.GuestCount = d.GuestCount
	b.RoomType = d.RoomType
	b.Status = d.Status
	b.Notes = d.Notes
	b.UpdatedAt = now
	Recompute(b)
}

// DraftOf returns the editable fields of b, the starting point of an edit.
func DraftOf(b internal.Booking) Draft {
	return Draft{
		CheckInDate:    b.CheckInDate,
		CheckOutDate:   b.CheckOutDate,
		ClientAndRoom:  b.ClientAndRoom,
		TotalAmount:    b.TotalAmount,
		AdvancePayment: b.AdvancePayment,
		PaidAmount:     b.PaidAmount,
		GuestCount:     b.GuestCount,
		RoomType:       b.RoomType,
		Status:         b.Status,
		Notes:          b.Notes,
	}
}
