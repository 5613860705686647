package pipeline

import (
	"strings"

	"bookingtracker/internal"
)

type Field string

const (
	FieldCheckIn        Field = "checkIn"
	FieldCheckOut       Field = "checkOut"
	FieldClientRoom     Field = "clientRoom"
	FieldTotalAmount    Field = "totalAmount"
	FieldAdvancePayment Field = "advancePayment"
	FieldPaidAmount     Field = "paidAmount"
)

// Fields lists the mappable fields in the order they are offered for assignment.
var Fields = []Field{FieldCheckIn, FieldCheckOut, FieldClientRoom, FieldTotalAmount, FieldAdvancePayment, FieldPaidAmount}

// ColumnKeywords drives auto-detection: the first column whose lowercased name
// contains any keyword of a field is suggested for it.
var ColumnKeywords = map[Field][]string{
	FieldCheckIn:        {"check in", "checkin", "arrival", "date"},
	FieldCheckOut:       {"check out", "checkout", "departure"},
	FieldClientRoom:     {"client", "guest", "room", "name"},
	FieldTotalAmount:    {"total", "owe", "price", "amount"},
	FieldAdvancePayment: {"advance", "deposit", "prepaid"},
	FieldPaidAmount:     {"paid", "payment", "received"},
}

// Unassign in an override clears a detected optional column.
const Unassign = "-"

// DetectColumns suggests a column for every field it can; each suggestion is
// independent, so one column may be suggested for several fields.
func DetectColumns(columns []string) internal.ColumnMapping {
	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, strings.ToLower(c))
	}

	var m internal.ColumnMapping
	for _, field := range Fields {
		if idx := findHeaderIndex(headers, ColumnKeywords[field]); idx >= 0 {
			setField(&m, field, columns[idx])
		}
	}
	return m
}

// ApplyOverrides lays user choices over detected suggestions. Empty override
// values keep the suggestion; Unassign clears it.
func ApplyOverrides(base, overrides internal.ColumnMapping) internal.ColumnMapping {
	out := base
	for _, field := range Fields {
		switch v := getField(overrides, field); v {
		case "":
		case Unassign:
			setField(&out, field, "")
		default:
			setField(&out, field, v)
		}
	}
	return out
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func getField(m internal.ColumnMapping, f Field) string {
	switch f {
	case FieldCheckIn:
		return m.CheckIn
	case FieldCheckOut:
		return m.CheckOut
	case FieldClientRoom:
		return m.ClientRoom
	case FieldTotalAmount:
		return m.TotalAmount
	case FieldAdvancePayment:
		return m.AdvancePayment
	case FieldPaidAmount:
		return m.PaidAmount
	}
	return ""
}

func setField(m *internal.ColumnMapping, f Field, column string) {
	switch f {
	case FieldCheckIn:
		m.CheckIn = column
	case FieldCheckOut:
		m.CheckOut = column
	case FieldClientRoom:
		m.ClientRoom = column
	case FieldTotalAmount:
		m.TotalAmount = column
	case FieldAdvancePayment:
		m.AdvancePayment = column
	case FieldPaidAmount:
		m.PaidAmount = column
	}
}
