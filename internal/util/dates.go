package util

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"bookingtracker/internal"
)

// NormalizeDate converts a raw cell to YYYY-MM-DD. Numbers are spreadsheet
// serials on the 1899-12-30 epoch; other text goes through generic date
// parsing; anything left over is returned trimmed but otherwise untouched.
func NormalizeDate(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if serial, ok := IsNumeric(s); ok {
		if serial < 0 {
			return serialBeforeEpoch(serial).Format(internal.DateLayout)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return s
		}
		return t.Format(internal.DateLayout)
	}

	if loc == nil {
		loc = time.Local
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return s
	}
	return t.Format(internal.DateLayout)
}

// serialBeforeEpoch counts whole days back from 1899-12-30, which excelize
// refuses to do.
func serialBeforeEpoch(serial float64) time.Time {
	return time.Date(1899, 12, 30+int(math.Floor(serial)), 0, 0, 0, 0, time.UTC)
}

// IsCanonicalDate reports whether s is already in YYYY-MM-DD form.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse(internal.DateLayout, s)
	return err == nil
}
