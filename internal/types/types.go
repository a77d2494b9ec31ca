// =============================================================================
// Gensoft Converter - Shared Types
// =============================================================================
//
// Types shared by the readers, the converter and the writer. Keeping them in
// their own package lets xlsxparser and csvparser produce tables without
// importing the converter.
//
// =============================================================================

package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TABULAR INPUT
// =============================================================================

// Table is one sheet of a delivery file: a header row followed by data rows.
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// SheetName is the sheet the rows came from. Empty for CSV input.
	SheetName string

	// Headers are the trimmed header cells of the first row.
	Headers []string

	// Rows are the data rows in file order. Rows may be shorter than Headers
	// when trailing cells are empty.
	Rows [][]string
}

// Index returns the position of the header named name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/col, or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// =============================================================================
// ROW MODELS
// =============================================================================

// InputRow is one delivery line after its columns have been resolved to
// canonical fields.
type InputRow struct {
	// ArticleCode has the form NIKECODE-COLORCODE.
	ArticleCode string
	Size        string
	Description string

	// SeasonCode keeps the cell text so unmapped codes pass through as-is.
	SeasonCode string

	Barcode    string
	BoxBarcode string

	// Quantity is nil when the cell is blank or not a whole number.
	Quantity *int

	// NetPrice is the price without VAT. Invalid when the cell is blank or
	// not numeric.
	NetPrice decimal.NullDecimal

	// Division is one of EQU, APP, FTW.
	Division string

	Batch           string
	MaterialContent string
	Gender          string
	Silhouette      string
}

// OutputRow is one Gensoft import record. Pointer and NullDecimal fields are
// the ones that may be empty in the output sheet.
type OutputRow struct {
	Warehouse        string
	MainGroup        string
	Group            *string
	Goods            string
	SerialNumber     string
	GoodsCode        string
	GoodsBarcode     string
	Unit             string
	Quantity         *int
	DeliveryPrice    decimal.NullDecimal
	DeliveryCurrency string
	RetailPrice      decimal.NullDecimal
	RetailCurrency   string
	Supplier         string
	OrderQuantity    *int
	Price            decimal.NullDecimal
	Currency         string
	Note             string
	Active           string
	ActiveWeb        string
	AccountLimits    string
	VATPercent       string

	// Numeric-keyed Gensoft fields.
	SizeSlot         string              // 1
	NumberSlot       string              // 3
	SiteSize         string              // 14
	SiteColor        string              // 107
	SKU              string              // 13
	Category1        string              // 109
	Category2        *string             // 110
	Category3        string              // 111
	Brand            string              // 15
	Sex              string              // 2
	Category         *string             // 5
	Season           string              // 6
	SiteComparePrice decimal.NullDecimal // 108
	SiteDescription  string              // 106
	SizeTableCode    string              // 113
	ImportDate       string              // 112
	Composition      string              // 116
	Collection       string              // 7
	SiteSupplier     string              // 103
	Tag1             string              // 120
	Tag2             string              // 121
	Tag3             string              // 122
}

// =============================================================================
// ERRORS
// =============================================================================

// ReadError reports an input file that is missing, corrupt or in a format
// the readers do not understand.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
