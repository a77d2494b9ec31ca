// =============================================================================
// Gensoft Converter - XLSX Delivery Parser
// =============================================================================
//
// Reads a vendor delivery workbook ("Dati Imp") into a types.Table. Only the
// first sheet is used: its first row is the header row and every following
// non-empty row is a delivery line.
//
// Cells are read with their raw values so that numbers formatted for display
// (thousand separators, currency symbols) reach the converter unformatted.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

// ErrNoSheets is returned (wrapped in a ReadError) for a workbook without
// any worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// Parse opens the workbook at path and returns its first sheet.
//
// Every failure is reported as a *types.ReadError.
func Parse(path string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.ReadError{Path: path, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	return parseFile(f, path)
}

// ParseReader reads a workbook from r. name is only used in errors and as
// the table's SourceFile.
func ParseReader(r io.Reader, name string) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &types.ReadError{Path: name, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	return parseFile(f, name)
}

func parseFile(f *excelize.File, path string) (*types.Table, error) {
	// GetSheetList follows workbook order, which is what users see as the
	// first tab.
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &types.ReadError{Path: path, Err: ErrNoSheets}
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &types.ReadError{Path: path, Err: fmt.Errorf("failed to read rows of %q: %w", sheetName, err)}
	}

	table := &types.Table{
		SourceFile: path,
		SheetName:  sheetName,
		Headers:    []string{},
		Rows:       [][]string{},
	}

	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = CleanHeaders(rows[0])

	for _, row := range rows[1:] {
		if IsRowEmpty(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// CleanHeaders trims header cells and names blank ones Column_N so every
// column stays addressable.
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// IsRowEmpty reports whether a row contains only blank cells.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
