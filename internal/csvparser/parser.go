// =============================================================================
// Gensoft Converter - CSV Delivery Parser
// =============================================================================
//
// Some vendors send the delivery sheet as a CSV export instead of a workbook.
// This parser turns such an export into the same types.Table the XLSX parser
// produces, so the converter does not care which format arrived.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, tab, pipe)
//   - UTF-8 byte order mark stripped from the first header
//   - Variable field counts and lazy quotes tolerated
//   - Blank lines skipped
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ballistic-tools/gensoft-converter/internal/config"
	"github.com/ballistic-tools/gensoft-converter/internal/types"
	"github.com/ballistic-tools/gensoft-converter/internal/xlsxparser"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads the CSV file at filePath. Failures are reported as
// *types.ReadError.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.ReadError{Path: filePath, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader reads CSV data from r. name is used as the table's SourceFile.
func ParseReader(r io.Reader, name string, settings config.CSVSettings) (*types.Table, error) {
	reader := bufio.NewReader(r)

	if prefix, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := reader.Discard(len(utf8BOM)); err != nil {
			return nil, &types.ReadError{Path: name, Err: err}
		}
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, &types.ReadError{Path: name, Err: fmt.Errorf("failed to read CSV: %w", err)}
	}

	table := &types.Table{
		SourceFile: name,
		Headers:    []string{},
		Rows:       [][]string{},
	}

	if len(allRows) == 0 {
		return table, nil
	}

	table.Headers = xlsxparser.CleanHeaders(allRows[0])

	for _, row := range allRows[1:] {
		if xlsxparser.IsRowEmpty(row) {
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

// configureReader applies the delimiter setting and relaxes the reader for
// hand-edited exports.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
