package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"bookingtracker/internal"
	"bookingtracker/internal/failure"
	"bookingtracker/internal/util"
)

const emptyHeader = "__EMPTY"

var errEmptySheet = failure.FileFormatFromString("the spreadsheet is empty or has no valid data")

// oleMagic opens every compound document, which is how legacy .xls
// workbooks are stored.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ReadSheet extracts the first sheet of a workbook, either OOXML (.xlsx) or
// legacy BIFF (.xls). The first non-blank row names the columns; every later
// non-blank row becomes a SheetRow. Cells are read raw, so date cells arrive
// as serial numbers.
func ReadSheet(content []byte) (internal.Sheet, error) {
	if bytes.HasPrefix(content, oleMagic) {
		return readXLS(content)
	}
	return readXLSX(content)
}

func readXLSX(content []byte) (internal.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return internal.Sheet{}, failure.FileFormat(errors.Wrap(err, "error processing spreadsheet"))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.Sheet{}, errEmptySheet
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return internal.Sheet{}, failure.FileFormat(errors.Wrap(err, "error processing spreadsheet"))
	}
	return buildSheet(name, rows)
}

// readXLS reads the first sheet of a BIFF workbook. The reader panics on
// some malformed input, so panics come back as file-format errors.
func readXLS(content []byte) (sheet internal.Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet, err = internal.Sheet{}, failure.FileFormat(errors.Errorf("error processing spreadsheet: %v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return internal.Sheet{}, failure.FileFormat(errors.Wrap(err, "error processing spreadsheet"))
	}
	if wb == nil {
		return internal.Sheet{}, failure.FileFormatFromString("error processing spreadsheet: no workbook stream")
	}
	plainFormats(wb)

	ws := wb.GetSheet(0)
	if ws == nil {
		return internal.Sheet{}, errEmptySheet
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	width := 0
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := xlsRow(ws, i)
		if row == nil {
			continue
		}
		n := row.LastCol() + 1
		if n < width {
			n = width
		}
		cells := make([]string, n)
		for c := range cells {
			cells[c] = xlsCell(row, c)
		}
		cells = trimTrailing(cells)
		if width == 0 {
			width = len(cells)
		}
		rows = append(rows, cells)
	}
	return buildSheet(ws.Name, rows)
}

// plainFormats drops number formats so date cells read as serials, the
// same raw form the xlsx path produces.
func plainFormats(wb *xls.WorkBook) {
	for _, xf := range wb.Xfs {
		switch x := xf.(type) {
		case *xls.Xf8:
			x.Format = 0
		case *xls.Xf5:
			x.Format = 0
		}
	}
}

// xlsRow returns nil for rows the sheet does not store.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// xlsCell reads one cell. Formula cells carry no cached value in this reader
// and read as empty.
func xlsCell(row *xls.Row, c int) string {
	v := row.Col(c)
	if v == "FormulaCol" {
		return ""
	}
	return v
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && strings.TrimSpace(cells[n-1]) == "" {
		n--
	}
	return cells[:n]
}

func buildSheet(name string, rows [][]string) (internal.Sheet, error) {
	out := internal.Sheet{Name: name}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if out.Columns == nil {
			out.Columns = headerNames(row)
			continue
		}
		record := internal.SheetRow{}
		for i, col := range out.Columns {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				record[col] = row[i]
			}
		}
		out.Rows = append(out.Rows, record)
	}

	if len(out.Rows) == 0 {
		return internal.Sheet{}, errEmptySheet
	}
	return out, nil
}

// headerNames turns the header row into unique column names. Blank headers
// become __EMPTY, __EMPTY_1, ...; repeats get a _1, _2 suffix.
func headerNames(row []string) []string {
	seen := map[string]int{}
	out := make([]string, 0, len(row))
	for _, cell := range row {
		name := util.NormalizeSpaces(cell)
		if name == "" {
			name = emptyHeader
		}
		base := name
		for {
			n, dup := seen[base]
			seen[base] = n + 1
			if !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
			if _, taken := seen[name]; !taken {
				seen[name] = 1
				break
			}
		}
		out = append(out, name)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
