// =============================================================================
// Gensoft Converter - Output Layout
// =============================================================================
//
// The 44 Gensoft columns in file order, with their header keys, labels
// and the row field each one reads.
//
// =============================================================================

package converter

import (
	"github.com/shopspring/decimal"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

// column is one Gensoft output column: its key in header row 1, its label in
// header row 2 (empty for named columns) and how to read it from a row.
type column struct {
	key   string
	label string
	value func(r *types.OutputRow) any
}

// layout is the fixed 44-column Gensoft import order.
var layout = []column{
	{"Склад", "", func(r *types.OutputRow) any { return r.Warehouse }},
	{"Главна група", "", func(r *types.OutputRow) any { return r.MainGroup }},
	{"Група", "", func(r *types.OutputRow) any { return optString(r.Group) }},
	{"Стока", "", func(r *types.OutputRow) any { return r.Goods }},
	{"Сер./парт. номер", "", func(r *types.OutputRow) any { return r.SerialNumber }},
	{"Код на стока", "", func(r *types.OutputRow) any { return r.GoodsCode }},
	{"Баркод на стока", "", func(r *types.OutputRow) any { return r.GoodsBarcode }},
	{"Мярка", "", func(r *types.OutputRow) any { return r.Unit }},
	{"Количество", "", func(r *types.OutputRow) any { return optInt(r.Quantity) }},
	{"Доставна цена", "", func(r *types.OutputRow) any { return optDecimal(r.DeliveryPrice) }},
	{"Доставна валута", "", func(r *types.OutputRow) any { return r.DeliveryCurrency }},
	{"Цена на дребно", "", func(r *types.OutputRow) any { return optDecimal(r.RetailPrice) }},
	{"Валута на дребно", "", func(r *types.OutputRow) any { return r.RetailCurrency }},
	{"Доставчик", "", func(r *types.OutputRow) any { return r.Supplier }},
	{"К-во за поръчване", "", func(r *types.OutputRow) any { return optInt(r.OrderQuantity) }},
	{"Цена", "", func(r *types.OutputRow) any { return optDecimal(r.Price) }},
	{"Валута", "", func(r *types.OutputRow) any { return r.Currency }},
	{"Бележка", "", func(r *types.OutputRow) any { return r.Note }},
	{"Активна", "", func(r *types.OutputRow) any { return r.Active }},
	{"Активна за Web", "", func(r *types.OutputRow) any { return r.ActiveWeb }},
	{"Ограничения в сметки", "", func(r *types.OutputRow) any { return r.AccountLimits }},
	{"Процент ДДС", "", func(r *types.OutputRow) any { return r.VATPercent }},

	{"1", "Размер", func(r *types.OutputRow) any { return r.SizeSlot }},
	{"3", "Номер", func(r *types.OutputRow) any { return r.NumberSlot }},
	{"14", "Размер сайт", func(r *types.OutputRow) any { return r.SiteSize }},
	{"107", "Цвят сайт", func(r *types.OutputRow) any { return r.SiteColor }},
	{"13", "SKU", func(r *types.OutputRow) any { return r.SKU }},
	{"109", "Категория 1", func(r *types.OutputRow) any { return r.Category1 }},
	{"110", "Категория 2", func(r *types.OutputRow) any { return optString(r.Category2) }},
	{"111", "Категория 3", func(r *types.OutputRow) any { return r.Category3 }},
	{"15", "Бранд", func(r *types.OutputRow) any { return r.Brand }},
	{"2", "Пол", func(r *types.OutputRow) any { return r.Sex }},
	{"5", "Категория", func(r *types.OutputRow) any { return optString(r.Category) }},
	{"6", "Сезон", func(r *types.OutputRow) any { return r.Season }},
	{"108", "Цена срв. сайт", func(r *types.OutputRow) any { return optDecimal(r.SiteComparePrice) }},
	{"106", "Описание Сайт", func(r *types.OutputRow) any { return r.SiteDescription }},
	{"113", "Код таблица за размери", func(r *types.OutputRow) any { return r.SizeTableCode }},
	{"112", "Дата импорт", func(r *types.OutputRow) any { return r.ImportDate }},
	{"116", "Състав", func(r *types.OutputRow) any { return r.Composition }},
	{"7", "Колекция", func(r *types.OutputRow) any { return r.Collection }},
	{"103", "Доствчик", func(r *types.OutputRow) any { return r.SiteSupplier }},
	{"120", "Таг1", func(r *types.OutputRow) any { return r.Tag1 }},
	{"121", "Таг2", func(r *types.OutputRow) any { return r.Tag2 }},
	{"122", "Таг3", func(r *types.OutputRow) any { return r.Tag3 }},
}

// Columns returns the header row 1 keys in output order.
func Columns() []string {
	keys := make([]string, len(layout))
	for i, c := range layout {
		keys[i] = c.key
	}
	return keys
}

// HeaderLabels returns header row 2, aligned with Columns. Named columns get
// an empty label.
func HeaderLabels() []string {
	labels := make([]string, len(layout))
	for i, c := range layout {
		labels[i] = c.label
	}
	return labels
}

// Label returns the row 2 label for a column key, or "".
func Label(key string) string {
	for _, c := range layout {
		if c.key == key {
			return c.label
		}
	}
	return ""
}

// RowValues returns the cells of r in output order. Empty fields are nil.
func RowValues(r *types.OutputRow) []any {
	values := make([]any, len(layout))
	for i, c := range layout {
		values[i] = c.value(r)
	}
	return values
}

// Sheet returns every output row as cell values, in order.
func Sheet(rows []types.OutputRow) [][]any {
	sheet := make([][]any, len(rows))
	for i := range rows {
		sheet[i] = RowValues(&rows[i])
	}
	return sheet
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func optDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
