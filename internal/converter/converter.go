// =============================================================================
// Gensoft Converter - Converter Module
// =============================================================================
//
// Runs one conversion: one delivery file in, one Gensoft workbook out.
//
// CONVERSION PIPELINE:
//   1. Read the first sheet of the input (XLSX or CSV)
//   2. Resolve the canonical columns (abort on any missing column)
//   3. Transform every row
//   4. Write the two-row-header workbook
//
// Nothing is written unless steps 1-3 succeed. A Converter holds no
// per-conversion state, so one instance may serve concurrent conversions of
// independent file pairs.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ballistic-tools/gensoft-converter/internal/config"
	"github.com/ballistic-tools/gensoft-converter/internal/csvparser"
	"github.com/ballistic-tools/gensoft-converter/internal/types"
	"github.com/ballistic-tools/gensoft-converter/internal/validation"
	"github.com/ballistic-tools/gensoft-converter/internal/xlsxparser"
	"github.com/ballistic-tools/gensoft-converter/internal/xlsxwriter"
)

// ErrLegacyWorkbook is reported (inside a *types.ReadError) for binary .xls
// files, which must be re-saved as .xlsx first.
var ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of a successful conversion.
type Result struct {
	// InputPath is the delivery file that was read.
	InputPath string

	// OutputPath is the workbook that was written.
	OutputPath string

	// Rows is the in-memory copy of the written data rows.
	Rows []types.OutputRow

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	// SheetName is the input sheet that was read. Empty for CSV input.
	SheetName string

	// RowsRead is the number of non-empty input rows.
	RowsRead int

	// RowsWritten is the number of data rows in the output.
	RowsWritten int

	// ProcessingTime is the wall time of the conversion.
	ProcessingTime time.Duration
}

// RowCount returns the number of data rows written.
func (r *Result) RowCount() int {
	return len(r.Rows)
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts delivery files into Gensoft workbooks.
type Converter struct {
	logger *slog.Logger
	now    func() time.Time
	csv    config.CSVSettings
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithClock sets the clock used for the import date stamp.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// WithCSVSettings sets how CSV inputs are parsed.
func WithCSVSettings(settings config.CSVSettings) Option {
	return func(c *Converter) {
		c.csv = settings
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger: slog.Default(),
		now:    time.Now,
		csv:    config.CSVSettings{Delimiter: ","},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert reads inputPath, transforms it and writes outputPath.
//
// Errors are a *types.ReadError when the input cannot be read and a
// *validation.ValidationError when required columns are missing; in both
// cases outputPath is not created.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	logger := c.logger.With("input", inputPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("reading delivery file")
	table, err := c.Read(inputPath)
	if err != nil {
		logger.Error("failed to read delivery file", "error", err)
		return nil, err
	}
	logger.Debug("read delivery file", "sheet", table.SheetName, "rows", len(table.Rows))

	rows, err := Transform(table, c.now())
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			logger.Warn("delivery file is missing required columns", "missing", verr.Missing)
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet := xlsxwriter.Sheet{
		Name:   xlsxwriter.DefaultSheetName,
		Header: Columns(),
		Labels: HeaderLabels(),
		Rows:   Sheet(rows),
	}
	if err := xlsxwriter.Write(outputPath, sheet); err != nil {
		return nil, fmt.Errorf("failed to write output %s: %w", outputPath, err)
	}

	result := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Rows:       rows,
		Stats: ProcessingStats{
			SheetName:      table.SheetName,
			RowsRead:       len(table.Rows),
			RowsWritten:    len(rows),
			ProcessingTime: time.Since(start),
		},
	}

	logger.Info("conversion completed", "output", outputPath, "rows", result.RowCount(),
		"elapsed", result.Stats.ProcessingTime)

	return result, nil
}

// Read loads the first sheet of a delivery file, choosing the parser by
// extension.
func (c *Converter) Read(path string) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvparser.Parse(path, c.csv)
	case ".xls":
		return nil, &types.ReadError{Path: path, Err: ErrLegacyWorkbook}
	default:
		return xlsxparser.Parse(path)
	}
}
