package xlsxparser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

// newWorkbook returns a workbook whose first sheet is "Dati Imp" and a second
// sheet that must never be read.
func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", "Dati Imp"))

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "ignored"))

	cells := map[string]any{
		"A1": " Art.num ", "B1": "", "C1": "Dlv.qty", "D1": "Season",
		"A2": "DD1391-100", "B2": "x", "C2": 2, "D2": 233,
		"A4": "   ",
		"A5": " FN-3324 ", "C5": 5,
	}
	for cell, value := range cells {
		require.NoError(t, f.SetCellValue("Dati Imp", cell, value))
	}
	return f
}

func TestParse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dati.xlsx")
	require.NoError(t, newWorkbook(t).SaveAs(path))

	table, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, "Dati Imp", table.SheetName)
	assert.Equal(t, []string{"Art.num", "Column_2", "Dlv.qty", "Season"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"DD1391-100", "x", "2", "233"}, table.Rows[0])
	assert.Equal(t, "FN-3324", table.Cell(1, 0))
	assert.Equal(t, "5", table.Cell(1, table.Index("Dlv.qty")))
	assert.Equal(t, "", table.Cell(1, 3))
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	buf, err := newWorkbook(t).WriteToBuffer()
	require.NoError(t, err)

	table, err := ParseReader(bytes.NewReader(buf.Bytes()), "upload.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "upload.xlsx", table.SourceFile)
	assert.Len(t, table.Rows, 2)
}

func TestParseEmptySheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := Parse(path)
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("plain text"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.xlsx"), corrupt} {
		_, err := Parse(path)
		var rerr *types.ReadError
		require.True(t, errors.As(err, &rerr), "%s: %v", path, err)
		assert.Equal(t, path, rerr.Path)
		assert.Contains(t, err.Error(), path)
	}
}

func TestCleanHeaders(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"Art.num", "Column_2", "Gender", "Column_4"},
		CleanHeaders([]string{"Art.num\t", " ", " Gender", ""}),
	)
}

func TestIsRowEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRowEmpty(nil))
	assert.True(t, IsRowEmpty([]string{"", "  ", "\t"}))
	assert.False(t, IsRowEmpty([]string{"", "0"}))
}
