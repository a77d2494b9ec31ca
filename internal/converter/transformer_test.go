package converter

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
	"github.com/ballistic-tools/gensoft-converter/internal/validation"
)

var canonicalHeaders = []string{
	validation.FieldArticle,
	validation.FieldSize,
	validation.FieldDescription,
	validation.FieldSeason,
	validation.FieldBarcode,
	validation.FieldBoxBarcode,
	validation.FieldQuantity,
	validation.FieldNetPrice,
	validation.FieldDivision,
	validation.FieldBatch,
	validation.FieldMaterial,
	validation.FieldGender,
	validation.FieldSilhouette,
}

// deliveryRow builds a row in canonicalHeaders order.
func deliveryRow(article, size, season, qty, net, division, gender, silhouette string) []string {
	return []string{article, size, "AIR FORCE 1", season, "0195866", "BOX-1", qty, net, division, "B7", "Leather", gender, silhouette}
}

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestSplitArticle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code, base, color string
	}{
		{"DD1391-100", "DD1391", "100"},
		{"CW2288", "CW2288", ""},
		{"AB-12-34", "AB", "12-34"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			base, color := SplitArticle(tt.code)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.color, color)
		})
	}
}

func TestPricing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		net, gross, retail string
	}{
		{"100", "120", "179"},
		{"83", "99.6", "149"},
		{"50", "60", "89"},
		{"0", "0", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			t.Parallel()
			net := nullDecimal(tt.net)

			gross := GrossPrice(net)
			require.True(t, gross.Valid)
			assert.True(t, gross.Decimal.Equal(decimal.RequireFromString(tt.gross)), "gross %s", gross.Decimal)

			retail := RetailPrice(net)
			require.True(t, retail.Valid)
			assert.True(t, retail.Decimal.Equal(decimal.RequireFromString(tt.retail)), "retail %s", retail.Decimal)
		})
	}

	t.Run("null net price", func(t *testing.T) {
		t.Parallel()
		assert.False(t, GrossPrice(decimal.NullDecimal{}).Valid)
		assert.False(t, RetailPrice(decimal.NullDecimal{}).Valid)
	})
}

func TestSeasonLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"233":   "Q3-23",
		"211":   "Q1-21",
		"304":   "Q4-30",
		" 242":  "Q2-24",
		"233.0": "Q3-23",
		"233.5": "233.5",
		"999":   "999",
		"215":   "215",
		"SU24":  "SU24",
		"":      "",
	}
	for code, want := range tests {
		assert.Equal(t, want, SeasonLabel(code), "code %q", code)
	}
}

func TestGenderLookups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		gender    string
		label     string
		sex       string
		sizeTable string
	}{
		{"MENS", "Мъжки", SexMen, SizeTableMen},
		{"WOMENS", "Дамски", SexWomen, SizeTableWomen},
		{"ADULT UNISEX", "Унисекс", SexUnisex, SizeTableGeneric},
		{"BOYS", "Детски", SexKids, SizeTableGeneric},
		{"GRD SCHOOL UNS", "Детски", SexKids, SizeTableGeneric},
		{"GRD SCHOOL UNSX", "Унисекс", SexUnisex, SizeTableGeneric},
		{"Youth unisex", "Детски", SexUnisex, SizeTableGeneric},
		{"UNKNOWN", "Унисекс", SexUnisex, SizeTableGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.gender, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.label, GenderLabel(tt.gender))
			assert.Equal(t, tt.sex, NormalizedSex(tt.gender))
			assert.Equal(t, tt.sizeTable, SizeTableCode(tt.gender))
		})
	}
}

func TestDivisionCategory(t *testing.T) {
	t.Parallel()

	category, ok := DivisionCategory("EQU")
	require.True(t, ok)
	assert.Equal(t, CategoryAccessories, category)

	group, ok := CategoryGroup(category)
	require.True(t, ok)
	assert.Equal(t, "NIKE АКСЕСОАРИ", group)

	_, ok = DivisionCategory("XYZ")
	assert.False(t, ok)
}

func TestTransformRow(t *testing.T) {
	t.Parallel()

	qty := 2
	in := types.InputRow{
		ArticleCode:     "DD1391-100",
		Size:            "42",
		Description:     "AIR FORCE 1",
		SeasonCode:      "233",
		Barcode:         "0195866",
		Quantity:        &qty,
		NetPrice:        nullDecimal("100"),
		Division:        "FTW",
		MaterialContent: "Leather",
		Gender:          "MENS",
		Silhouette:      "LOW TOP",
	}

	out := TransformRow(in, "050324")

	assert.Equal(t, Warehouse, out.Warehouse)
	assert.Equal(t, Brand, out.MainGroup)
	require.NotNil(t, out.Group)
	assert.Equal(t, "NIKE ОБУВКИ", *out.Group)
	assert.Equal(t, "DD1391", out.Goods)
	assert.Equal(t, "0195866", out.SerialNumber)
	assert.Equal(t, "Мъжки Маратонки NIKE AIR FORCE 1", out.GoodsCode)
	assert.Equal(t, BlankPlaceholder, out.GoodsBarcode)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, 2, *out.Quantity)
	assert.Equal(t, out.Quantity, out.OrderQuantity)
	assert.True(t, out.DeliveryPrice.Decimal.Equal(decimal.NewFromInt(120)))
	assert.True(t, out.Price.Decimal.Equal(decimal.NewFromInt(120)))
	assert.True(t, out.RetailPrice.Decimal.Equal(decimal.NewFromInt(179)))
	assert.True(t, out.SiteComparePrice.Decimal.Equal(decimal.NewFromInt(179)))
	assert.Equal(t, "DD1391-100", out.Note)

	assert.Equal(t, "", out.SizeSlot)
	assert.Equal(t, "", out.NumberSlot)
	assert.Equal(t, "42", out.SiteSize)
	assert.Equal(t, "100", out.SiteColor)
	assert.Equal(t, "DD1391-100-42", out.SKU)
	assert.Equal(t, SexMen, out.Category1)
	require.NotNil(t, out.Category2)
	assert.Equal(t, "Мъжки Обувки", *out.Category2)
	assert.Equal(t, "Мъжки Маратонки", out.Category3)
	assert.Equal(t, SexMen, out.Sex)
	require.NotNil(t, out.Category)
	assert.Equal(t, CategoryFootwear, *out.Category)
	assert.Equal(t, "Q3-23", out.Season)
	assert.Equal(t, "Мъжки Маратонки NIKE AIR FORCE 1", out.SiteDescription)
	assert.Equal(t, SizeTableMen, out.SizeTableCode)
	assert.Equal(t, "050324", out.ImportDate)
	assert.Equal(t, "Leather", out.Composition)
	assert.Equal(t, Collection, out.Collection)
	assert.Equal(t, Supplier, out.SiteSupplier)
	assert.Equal(t, BlankPlaceholder, out.Tag1)
}

func TestTransformRowUnmappedValues(t *testing.T) {
	t.Parallel()

	out := TransformRow(types.InputRow{
		ArticleCode: "CW2288",
		Size:        "M",
		Description: "TEE",
		SeasonCode:  "999",
		Division:    "XYZ",
		Gender:      "UNKNOWN",
		Silhouette:  "CAP",
	}, "010124")

	assert.Nil(t, out.Category)
	assert.Nil(t, out.Group)
	assert.Nil(t, out.Category2)
	assert.Nil(t, out.Quantity)
	assert.False(t, out.DeliveryPrice.Valid)
	assert.False(t, out.RetailPrice.Valid)
	assert.Equal(t, "CW2288--M", out.SKU)
	assert.Equal(t, "", out.SiteColor)
	assert.Equal(t, "999", out.Season)
	assert.Equal(t, "Унисекс ", out.Category3)
	assert.Equal(t, "Унисекс  NIKE TEE", out.SiteDescription)
	assert.Equal(t, SexUnisex, out.Sex)
	assert.Equal(t, SizeTableGeneric, out.SizeTableCode)
}

func TestTransform(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	t.Run("one output row per input row in order", func(t *testing.T) {
		t.Parallel()
		table := &types.Table{
			Headers: canonicalHeaders,
			Rows: [][]string{
				deliveryRow("AA1-001", "40", "233", "1", "100", "FTW", "MENS", "LOW TOP"),
				deliveryRow("BB2-002", "S", "241", "3", "83", "APP", "WOMENS", "SHORT SLEEVE T-SHIRT"),
				deliveryRow("CC3-003", "MISC", "999", "", "", "EQU", "BOYS", "BACKPACK"),
			},
		}

		rows, err := Transform(table, now)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "AA1-001-40", rows[0].SKU)
		assert.Equal(t, "BB2-002-S", rows[1].SKU)
		assert.Equal(t, "CC3-003-MISC", rows[2].SKU)
		assert.Equal(t, "Q1-24", rows[1].Season)
		assert.True(t, rows[1].RetailPrice.Decimal.Equal(decimal.NewFromInt(149)))
		assert.Nil(t, rows[2].Quantity)
		assert.False(t, rows[2].RetailPrice.Valid)
		for _, row := range rows {
			assert.Equal(t, "050324", row.ImportDate)
		}
	})

	t.Run("aliased and reordered headers", func(t *testing.T) {
		t.Parallel()
		table := &types.Table{
			Headers: []string{
				"Product Type", "Sex", "Composition", "Batch Number", "Category", "Net Price",
				"Quantity Delivered", "Box Bar Code", "EAN Code", "Seasons", "Product Description",
				"Converted Size", "Product Code",
			},
			Rows: [][]string{
				{"LOW TOP", "MENS", "Mesh", "B1", "FTW", "100", "4", "BX", "0123", "233", "PEGASUS", "44", "FD-010"},
			},
		}

		rows, err := Transform(table, now)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "FD-010-44", rows[0].SKU)
		assert.Equal(t, "Mesh", rows[0].Composition)
		assert.Equal(t, "0123", rows[0].SerialNumber)
		require.NotNil(t, rows[0].Quantity)
		assert.Equal(t, 4, *rows[0].Quantity)
	})

	t.Run("missing column aborts with no rows", func(t *testing.T) {
		t.Parallel()
		table := &types.Table{
			Headers: canonicalHeaders[:len(canonicalHeaders)-1],
			Rows:    [][]string{deliveryRow("AA1-001", "40", "233", "1", "100", "FTW", "MENS", "LOW TOP")},
		}

		rows, err := Transform(table, now)
		assert.Nil(t, rows)
		var verr *validation.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{validation.FieldSilhouette}, verr.Missing)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		rows, err := Transform(&types.Table{Headers: canonicalHeaders}, now)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("nil table", func(t *testing.T) {
		t.Parallel()
		_, err := Transform(nil, now)
		assert.ErrorIs(t, err, ErrNilTable)
	})

	t.Run("same input gives same rows", func(t *testing.T) {
		t.Parallel()
		table := &types.Table{
			Headers: canonicalHeaders,
			Rows:    [][]string{deliveryRow("AA1-001", "40", "233", "1", "100", "FTW", "MENS", "LOW TOP")},
		}
		first, err := Transform(table, now)
		require.NoError(t, err)
		second, err := Transform(table, now.Add(48*time.Hour))
		require.NoError(t, err)

		second[0].ImportDate = first[0].ImportDate
		assert.Equal(t, first, second)
	})
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := map[string]*int{
		"3":    ptr(3),
		" 12 ": ptr(12),
		"3.0":  ptr(3),
		"-1":   ptr(-1),
		"2.5":  nil,
		"":     nil,
		"n/a":  nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseQuantity(in), "input %q", in)
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"100":    "100",
		"83.5":   "83.5",
		"83,5":   "83.5",
		" 42.10": "42.1",
	}
	for in, want := range tests {
		got := parseDecimal(in)
		require.True(t, got.Valid, "input %q", in)
		assert.True(t, got.Decimal.Equal(decimal.RequireFromString(want)), "input %q got %s", in, got.Decimal)
	}

	for _, in := range []string{"", "  ", "abc", "1,234.50"} {
		assert.False(t, parseDecimal(in).Valid, "input %q", in)
	}
}

func ptr[T any](v T) *T {
	return &v
}
