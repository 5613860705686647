package pipeline

import (
	"testing"

	"bookingtracker/internal"
)

func TestDetectColumns(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
		want    internal.ColumnMapping
	}{
		{
			name:    "typical sheet",
			columns: []string{"Arrival", "Departure", "Guest", "Price", "Deposit", "Received"},
			want:    internal.ColumnMapping{CheckIn: "Arrival", CheckOut: "Departure", ClientRoom: "Guest", TotalAmount: "Price", AdvancePayment: "Deposit", PaidAmount: "Received"},
		},
		{
			name:    "case insensitive",
			columns: []string{"CHECKIN", "CHECKOUT", "CLIENT NAME", "AMOUNT OWED"},
			want:    internal.ColumnMapping{CheckIn: "CHECKIN", CheckOut: "CHECKOUT", ClientRoom: "CLIENT NAME", TotalAmount: "AMOUNT OWED"},
		},
		{
			name:    "first match wins",
			columns: []string{"Booking Date", "Check In"},
			want:    internal.ColumnMapping{CheckIn: "Booking Date"},
		},
		{
			name:    "nothing recognised",
			columns: []string{"A", "B"},
			want:    internal.ColumnMapping{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectColumns(tc.columns); got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

// The export header "Advance Payment" also carries the "payment" keyword and
// comes first, so it is suggested for the paid column too.
func TestDetectColumnsOnExportHeaders(t *testing.T) {
	got := DetectColumns(ExportHeaders)
	if got.CheckIn != "Check-in Date" || got.ClientRoom != "Client & Room" || got.TotalAmount != "Total Amount" {
		t.Fatalf("got %+v", got)
	}
	if got.CheckOut != "" {
		t.Fatalf("check-out=%q", got.CheckOut)
	}
	if got.AdvancePayment != "Advance Payment" || got.PaidAmount != "Advance Payment" {
		t.Fatalf("payments: %+v", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	base := internal.ColumnMapping{CheckIn: "Date", ClientRoom: "Name", PaidAmount: "Payment"}
	got := ApplyOverrides(base, internal.ColumnMapping{ClientRoom: "Guest", PaidAmount: Unassign, CheckOut: "Leaving"})
	want := internal.ColumnMapping{CheckIn: "Date", CheckOut: "Leaving", ClientRoom: "Guest"}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestEveryFieldHasKeywords(t *testing.T) {
	for _, f := range Fields {
		if len(ColumnKeywords[f]) == 0 {
			t.Fatalf("no keywords for %s", f)
		}
	}
}
