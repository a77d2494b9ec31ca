// =============================================================================
// Gensoft Converter - Row Transformation
// =============================================================================
//
// Turns delivery lines into Gensoft import records. The transformation is a
// pure function of the input table and the import date: no I/O, no shared
// state, one output row per input row in input order.
//
// DERIVATIONS:
//   - Article code split into base and color code, composite SKU
//   - Gender, silhouette and season translations
//   - Gross price (net x 1.20) and retail price (net x 1.79, rounded up to the
//     next ten, minus one)
//   - Division -> category -> group
//   - Bulgarian descriptions built from the translated labels
//
// =============================================================================

package converter

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
	"github.com/ballistic-tools/gensoft-converter/internal/validation"
)

// =============================================================================
// FIXED VALUES
// =============================================================================

// Literal values written to every output row.
const (
	Warehouse        = "BALLISTIC "
	Brand            = "NIKE"
	Supplier         = "SPORTTIME"
	Currency         = "bgn"
	Unit             = "бр."
	ActiveFlag       = "Y "
	AccountLimits    = "без ограничения "
	VATPercent       = "0 "
	BlankPlaceholder = " "
	Collection       = "LIFESTYLE"
)

// ImportDateLayout formats the import date as ddmmyy.
const ImportDateLayout = "020106"

var (
	vatMultiplier = decimal.RequireFromString("1.20")
	retailMarkup  = decimal.RequireFromString("1.79")
	ten           = decimal.NewFromInt(10)
	one           = decimal.NewFromInt(1)
)

// ErrNilTable is returned by Transform when given no table.
var ErrNilTable = errors.New("nil input table")

// =============================================================================
// TRANSFORMATION
// =============================================================================

// Transform resolves the table's columns and converts every row. now only
// supplies the import date stamp.
//
// A *validation.ValidationError is returned, and no rows, when a canonical
// column cannot be resolved.
func Transform(table *types.Table, now time.Time) ([]types.OutputRow, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	columns, err := validation.ResolveColumns(table)
	if err != nil {
		return nil, err
	}

	importDate := now.Format(ImportDateLayout)
	rows := make([]types.OutputRow, len(table.Rows))
	for i := range table.Rows {
		rows[i] = TransformRow(ReadInputRow(table, columns, i), importDate)
	}
	return rows, nil
}

// ReadInputRow pulls the canonical fields of row i out of the table.
func ReadInputRow(table *types.Table, columns validation.Columns, i int) types.InputRow {
	cell := func(field string) string {
		return table.Cell(i, columns[field])
	}

	return types.InputRow{
		ArticleCode:     cell(validation.FieldArticle),
		Size:            cell(validation.FieldSize),
		Description:     cell(validation.FieldDescription),
		SeasonCode:      cell(validation.FieldSeason),
		Barcode:         cell(validation.FieldBarcode),
		BoxBarcode:      cell(validation.FieldBoxBarcode),
		Quantity:        parseQuantity(cell(validation.FieldQuantity)),
		NetPrice:        parseDecimal(cell(validation.FieldNetPrice)),
		Division:        cell(validation.FieldDivision),
		Batch:           cell(validation.FieldBatch),
		MaterialContent: cell(validation.FieldMaterial),
		Gender:          cell(validation.FieldGender),
		Silhouette:      cell(validation.FieldSilhouette),
	}
}

// intermediate holds the values derived from one input row before they are
// laid out as Gensoft fields.
type intermediate struct {
	baseCode        string
	colorCode       string
	sku             string
	genderLabel     string
	typeLabel       string
	season          string
	grossPrice      decimal.NullDecimal
	retailPrice     decimal.NullDecimal
	category        *string
	group           *string
	genderCategory  *string
	descriptionBG   string
	siteDescription string
	sex             string
	sizeTable       string
}

func derive(in types.InputRow) intermediate {
	d := intermediate{
		genderLabel: GenderLabel(in.Gender),
		typeLabel:   SilhouetteLabel(in.Silhouette),
		season:      SeasonLabel(in.SeasonCode),
		grossPrice:  GrossPrice(in.NetPrice),
		retailPrice: RetailPrice(in.NetPrice),
		sex:         NormalizedSex(in.Gender),
		sizeTable:   SizeTableCode(in.Gender),
	}

	d.baseCode, d.colorCode = SplitArticle(in.ArticleCode)
	d.sku = d.baseCode + "-" + d.colorCode + "-" + in.Size

	if category, ok := DivisionCategory(in.Division); ok {
		d.category = &category
		if group, ok := CategoryGroup(category); ok {
			d.group = &group
		}
		genderCategory := d.genderLabel + " " + category
		d.genderCategory = &genderCategory
	}

	d.descriptionBG = d.genderLabel + " " + d.typeLabel
	d.siteDescription = d.descriptionBG + " " + Brand + " " + in.Description

	return d
}

// TransformRow converts one delivery line. importDate is written verbatim.
func TransformRow(in types.InputRow, importDate string) types.OutputRow {
	d := derive(in)

	return types.OutputRow{
		Warehouse:        Warehouse,
		MainGroup:        Brand,
		Group:            d.group,
		Goods:            d.baseCode,
		SerialNumber:     in.Barcode,
		GoodsCode:        d.siteDescription,
		GoodsBarcode:     BlankPlaceholder,
		Unit:             Unit,
		Quantity:         in.Quantity,
		DeliveryPrice:    d.grossPrice,
		DeliveryCurrency: Currency,
		RetailPrice:      d.retailPrice,
		RetailCurrency:   Currency,
		Supplier:         Supplier,
		OrderQuantity:    in.Quantity,
		Price:            d.grossPrice,
		Currency:         Currency,
		Note:             in.ArticleCode,
		Active:           ActiveFlag,
		ActiveWeb:        ActiveFlag,
		AccountLimits:    AccountLimits,
		VATPercent:       VATPercent,

		SizeSlot:         "",
		NumberSlot:       "",
		SiteSize:         in.Size,
		SiteColor:        d.colorCode,
		SKU:              d.sku,
		Category1:        d.sex,
		Category2:        d.genderCategory,
		Category3:        d.descriptionBG,
		Brand:            Brand,
		Sex:              d.sex,
		Category:         d.category,
		Season:           d.season,
		SiteComparePrice: d.retailPrice,
		SiteDescription:  d.siteDescription,
		SizeTableCode:    d.sizeTable,
		ImportDate:       importDate,
		Composition:      in.MaterialContent,
		Collection:       Collection,
		SiteSupplier:     Supplier,
		Tag1:             BlankPlaceholder,
		Tag2:             BlankPlaceholder,
		Tag3:             BlankPlaceholder,
	}
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// SplitArticle splits NIKECODE-COLORCODE at the first dash. Without a dash
// the whole code is the base and the color is empty.
func SplitArticle(code string) (base, color string) {
	base, color, _ = strings.Cut(code, "-")
	return base, color
}

// GrossPrice adds VAT to a net price. Null stays null.
func GrossPrice(net decimal.NullDecimal) decimal.NullDecimal {
	if !net.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(net.Decimal.Mul(vatMultiplier))
}

// RetailPrice applies the retail markup and rounds up to the next multiple of
// ten, minus one (179 -> 179, 148.57 -> 149). Null stays null.
func RetailPrice(net decimal.NullDecimal) decimal.NullDecimal {
	if !net.Valid {
		return decimal.NullDecimal{}
	}
	marked := net.Decimal.Mul(retailMarkup)
	return decimal.NewNullDecimal(marked.Div(ten).Ceil().Mul(ten).Sub(one))
}

// parseDecimal reads a price cell. Blank or non-numeric cells are null; a
// decimal comma is accepted when no dot is present.
func parseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return decimal.NewNullDecimal(d)
	}
	if !strings.Contains(s, ".") {
		if d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1)); err == nil {
			return decimal.NewNullDecimal(d)
		}
	}
	return decimal.NullDecimal{}
}

// parseQuantity reads a quantity cell. Workbooks store integers as "3" but
// some exports write "3.0"; anything that is not a whole number is nil.
func parseQuantity(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	n := int(f)
	return &n
}
