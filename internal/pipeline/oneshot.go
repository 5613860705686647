package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookingtracker/internal"
	"bookingtracker/internal/failure"
)

// ReadSheetFile reads a .xlsx/.xls workbook from disk.
func ReadSheetFile(path string) (internal.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return internal.Sheet{}, failure.FileFormatFromString(fmt.Sprintf("unsupported file type %q, expected .xlsx or .xls", ext))
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Sheet{}, err
	}
	return ReadSheet(blob)
}
