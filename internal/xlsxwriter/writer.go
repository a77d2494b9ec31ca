// =============================================================================
// Gensoft Converter - XLSX Writer
// =============================================================================
//
// Writes the Gensoft import workbook. The target system expects a fixed
// layout on a single sheet:
//
//   Row 1 : machine column keys ("Склад", ..., "1", "3", "14", ...)
//   Row 2 : human labels for numeric keys, blank under named columns
//   Row 3+: one data row per delivery line
//
// The workbook is saved to a temporary file next to the destination and
// renamed into place, so a failed write never leaves a partial output.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the title of the single output sheet.
const DefaultSheetName = "Gensoft"

// Sheet is the content of one output sheet.
type Sheet struct {
	// Name is the sheet title. Default: DefaultSheetName.
	Name string

	// Header is row 1.
	Header []string

	// Labels is row 2, aligned with Header. Empty strings leave the cell blank.
	Labels []string

	// Rows are the data rows. nil cells are left blank.
	Rows [][]any
}

// Write saves sheet as an XLSX workbook at path.
func Write(path string, sheet Sheet) error {
	f, err := build(sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gensoft-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

// WriteTo encodes sheet as an XLSX workbook into w.
func WriteTo(w io.Writer, sheet Sheet) error {
	f, err := build(sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// build lays out the workbook in memory.
func build(sheet Sheet) (*excelize.File, error) {
	if len(sheet.Labels) > len(sheet.Header) {
		return nil, fmt.Errorf("%d header labels for %d columns", len(sheet.Labels), len(sheet.Header))
	}

	name := sheet.Name
	if name == "" {
		name = DefaultSheetName
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, key := range sheet.Header {
		if err := setCell(f, name, col+1, 1, key); err != nil {
			f.Close()
			return nil, err
		}
	}

	for col, label := range sheet.Labels {
		if label == "" {
			continue
		}
		if err := setCell(f, name, col+1, 2, label); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range sheet.Rows {
		if len(row) > len(sheet.Header) {
			f.Close()
			return nil, fmt.Errorf("data row %d has %d cells for %d columns", i+1, len(row), len(sheet.Header))
		}
		for col, value := range row {
			if value == nil {
				continue
			}
			if err := setCell(f, name, col+1, i+3, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell position (%d, %d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
