// =============================================================================
// Gensoft Converter - Column Validation
// =============================================================================
//
// Vendors do not agree on header spellings. Each of the 13 canonical delivery
// fields accepts an ordered list of header names; the first one present in
// the sheet wins. A sheet that leaves any canonical field unresolved is
// rejected as a whole, before a single row is converted.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// Canonical field names. They double as the preferred header spelling.
const (
	FieldArticle     = "Art.num"
	FieldSize        = "SizeConverted"
	FieldDescription = "Description"
	FieldSeason      = "Season"
	FieldBarcode     = "Barcode"
	FieldBoxBarcode  = "Box BarCode"
	FieldQuantity    = "Dlv.qty"
	FieldNetPrice    = "FPC Price w/o VAT in BGN"
	FieldDivision    = "Division"
	FieldBatch       = "Batch"
	FieldMaterial    = "Material Content"
	FieldGender      = "Gender"
	FieldSilhouette  = "Silhouette"
)

// Alias lists the header names accepted for one canonical field, in order of
// preference.
type Alias struct {
	Canonical string
	Accepted  []string
}

// Aliases is the alias table in canonical order. Treat it as read-only.
var Aliases = []Alias{
	{FieldArticle, []string{"Art.num", "Article Number", "Product Code"}},
	{FieldSize, []string{"SizeConverted", "Size", "Converted Size"}},
	{FieldDescription, []string{"Description", "Product Description"}},
	{FieldSeason, []string{"Season", "Year/Season", "Seasons"}},
	{FieldBarcode, []string{"Barcode", "EAN Code"}},
	{FieldBoxBarcode, []string{"Box BarCode", "Box Barcode", "Box Bar Code"}},
	{FieldQuantity, []string{"Dlv.qty", "Quantity Delivered"}},
	{FieldNetPrice, []string{"FPC Price w/o VAT in BGN", "Net Price"}},
	{FieldDivision, []string{"Division", "Category"}},
	{FieldBatch, []string{"Batch", "Batch Number"}},
	{FieldMaterial, []string{"Material Content", "Composition"}},
	{FieldGender, []string{"Gender", "Sex"}},
	{FieldSilhouette, []string{"Silhouette", "Product Type"}},
}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports canonical fields that no header in the sheet could
// be matched to.
type ValidationError struct {
	// Missing holds the unresolved canonical names in alias-table order.
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Missing, ", "))
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Columns maps each canonical field to its column index in the table.
type Columns map[string]int

// ResolveColumns matches every canonical field against the table headers.
// It returns a *ValidationError listing all unresolved fields at once.
func ResolveColumns(table *types.Table) (Columns, error) {
	columns := make(Columns, len(Aliases))
	var missing []string

	for _, alias := range Aliases {
		idx := -1
		for _, name := range alias.Accepted {
			if idx = table.Index(name); idx >= 0 {
				break
			}
		}
		if idx < 0 {
			missing = append(missing, alias.Canonical)
			continue
		}
		columns[alias.Canonical] = idx
	}

	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	return columns, nil
}

// SourceHeader returns the header that was matched for a canonical field.
func (c Columns) SourceHeader(table *types.Table, canonical string) string {
	idx, ok := c[canonical]
	if !ok || idx >= len(table.Headers) {
		return ""
	}
	return table.Headers[idx]
}
