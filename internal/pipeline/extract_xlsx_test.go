package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"bookingtracker/internal/failure"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestReadSheet(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Arrival", "Guest Name", "Total"},
		{45000, "Ana - Deluxe", 300},
		{nil, nil, nil},
		{"2023-04-01", "Ben Room 12", "1,200", "extra"},
	})
	sheet, err := ReadSheet(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet.Columns) != 3 || sheet.Columns[1] != "Guest Name" {
		t.Fatalf("columns=%v", sheet.Columns)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows=%d", len(sheet.Rows))
	}
	if sheet.Rows[0]["Arrival"] != "45000" {
		t.Fatalf("raw serial lost: %q", sheet.Rows[0]["Arrival"])
	}
	if sheet.Rows[1]["Total"] != "1,200" {
		t.Fatalf("total=%q", sheet.Rows[1]["Total"])
	}
}

func TestReadSheetOnlyFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Date")
	_ = f.SetCellValue("Sheet1", "A2", "2023-01-01")
	_, _ = f.NewSheet("Other")
	_ = f.SetCellValue("Other", "A1", "Date")
	_ = f.SetCellValue("Other", "A2", "2024-01-01")
	_ = f.SetCellValue("Other", "A3", "2024-01-02")
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)

	sheet, err := ReadSheet(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if sheet.Name != "Sheet1" || len(sheet.Rows) != 1 {
		t.Fatalf("sheet=%s rows=%d", sheet.Name, len(sheet.Rows))
	}
}

func TestReadSheetErrors(t *testing.T) {
	if _, err := ReadSheet([]byte("definitely not a workbook")); !failure.Is(err, failure.KindFileFormat) {
		t.Fatalf("corrupt: err=%v", err)
	}
	if _, err := ReadSheet(mkXLSX([][]any{{"Date", "Client"}})); !failure.Is(err, failure.KindFileFormat) {
		t.Fatalf("header only: err=%v", err)
	}
	if _, err := ReadSheet(mkXLSX(nil)); !failure.Is(err, failure.KindFileFormat) {
		t.Fatalf("empty: err=%v", err)
	}
}

func TestReadSheetFileRejectsOtherExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	if err := os.WriteFile(path, []byte("Date,Client\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSheetFile(path); !failure.Is(err, failure.KindFileFormat) {
		t.Fatalf("err=%v", err)
	}
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{"Name", "", "Name", " ", "Name_1", "Name"})
	want := []string{"Name", "__EMPTY", "Name_1", "__EMPTY_1", "Name_1_1", "Name_2"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
