// =============================================================================
// Gensoft Converter - Lookup Tables
// =============================================================================
//
// Code tables for genders, product types, seasons, divisions and size
// tables, each with its fallback for unknown codes.
//
// =============================================================================

package converter

import "fmt"

// Lookup tables used by the row transformation. Each table is read-only and
// pairs with exactly one fallback rule, applied in its lookup function.

// genderLabels gives the Bulgarian gender prefix used in descriptions.
// Unknown codes fall back to defaultGenderLabel.
var genderLabels = map[string]string{
	"MENS":            "Мъжки",
	"WOMENS":          "Дамски",
	"ADULT UNISEX":    "Унисекс",
	"BOYS":            "Детски",
	"GIRLS":           "Детски",
	"GRD SCHOOL UNS":  "Детски",
	"GRD SCHOOL UNSX": "Унисекс",
	"BOYS GRADE SCHL": "Детски",
	"Youth unisex":    "Детски",
}

const defaultGenderLabel = "Унисекс"

// silhouetteLabels gives the Bulgarian product type. Unknown codes map to "".
var silhouetteLabels = map[string]string{
	"BACKPACK":               "Раница",
	"SHORT SLEEVE T-SHIRT":   "Тениска",
	"LOW TOP":                "Маратонки",
	"CREW SOCK":              "Чорапи",
	"NO SHOW SOCK":           "Чорапи",
	"HOODED LONG SLEEVE TOP": "Суитшърт с качулка",
	"FULL LENGTH PANT":       "Панталон",
	"ANKLE LENGTH PANT":      "Панталон",
	"HOODED FULL ZIP LS TOP": "Суитшърт с качулка и цип",
}

// Product categories produced from the division code.
const (
	CategoryAccessories = "Аксесоари"
	CategoryApparel     = "Облекло"
	CategoryFootwear    = "Обувки"
)

// divisionCategories has no fallback: an unmapped division leaves the
// category, and everything derived from it, empty.
var divisionCategories = map[string]string{
	"EQU": CategoryAccessories,
	"APP": CategoryApparel,
	"FTW": CategoryFootwear,
}

var categoryGroups = map[string]string{
	CategoryFootwear:    "NIKE ОБУВКИ",
	CategoryApparel:     "NIKE ДРЕХИ",
	CategoryAccessories: "NIKE АКСЕСОАРИ",
}

// Normalized gender buckets (Gensoft fields 2 and 109).
const (
	SexMen    = "Мъже"
	SexWomen  = "Жени"
	SexKids   = "Деца"
	SexUnisex = "Унисекс"
)

// kidsGenders is deliberately narrower than the label table: GRD SCHOOL UNSX
// and Youth unisex are not kids here.
var kidsGenders = map[string]bool{
	"BOYS":            true,
	"GIRLS":           true,
	"GRD SCHOOL UNS":  true,
	"BOYS GRADE SCHL": true,
}

// Size table codes of the sizing system (Gensoft field 113).
const (
	SizeTableMen     = "MANIKE"
	SizeTableWomen   = "WFNIKE"
	SizeTableGeneric = "USNIKE"
)

// seasonLabels maps decade*10+quarter codes, 211 (Q1-21) through 304 (Q4-30).
var seasonLabels = buildSeasonLabels(21, 30)

func buildSeasonLabels(fromYear, toYear int) map[int]string {
	labels := make(map[int]string, (toYear-fromYear+1)*4)
	for year := fromYear; year <= toYear; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			labels[year*10+quarter] = fmt.Sprintf("Q%d-%02d", quarter, year)
		}
	}
	return labels
}

// =============================================================================
// LOOKUP FUNCTIONS
// =============================================================================

// GenderLabel returns the description prefix for a gender code.
func GenderLabel(gender string) string {
	if label, ok := genderLabels[gender]; ok {
		return label
	}
	return defaultGenderLabel
}

// SilhouetteLabel returns the product type for a silhouette code, or "".
func SilhouetteLabel(silhouette string) string {
	return silhouetteLabels[silhouette]
}

// SeasonLabel translates a season code. "233" and "233.0" are the same code.
// Codes outside the table, including anything that is not a whole number,
// are returned unchanged.
func SeasonLabel(code string) string {
	n := parseQuantity(code)
	if n == nil {
		return code
	}
	if label, ok := seasonLabels[*n]; ok {
		return label
	}
	return code
}

// DivisionCategory returns the category for a division, ok=false when the
// division is unmapped.
func DivisionCategory(division string) (string, bool) {
	category, ok := divisionCategories[division]
	return category, ok
}

// CategoryGroup returns the Gensoft group for a category.
func CategoryGroup(category string) (string, bool) {
	group, ok := categoryGroups[category]
	return group, ok
}

// NormalizedSex classifies a gender code into Men, Women, Kids or Unisex.
func NormalizedSex(gender string) string {
	switch {
	case gender == "MENS":
		return SexMen
	case gender == "WOMENS":
		return SexWomen
	case kidsGenders[gender]:
		return SexKids
	default:
		return SexUnisex
	}
}

// SizeTableCode picks the sizing system for a gender code.
func SizeTableCode(gender string) string {
	switch gender {
	case "MENS":
		return SizeTableMen
	case "WOMENS":
		return SizeTableWomen
	default:
		return SizeTableGeneric
	}
}
