package activity

import "strings"

// Canonical categories.
const (
	CategoryTransportation = "transportation"
	CategoryEnergy         = "energy"
	CategoryFood           = "food"
	CategoryWaste          = "waste"
	CategoryShopping       = "shopping"
	CategoryOther          = "other"
)

// Categories lists the canonical categories in display order.
var Categories = []string{
	CategoryTransportation,
	CategoryEnergy,
	CategoryFood,
	CategoryWaste,
	CategoryShopping,
	CategoryOther,
}

var categoryAliases = map[string]string{
	"travel":    CategoryTransportation,
	"transport": CategoryTransportation,
	"commute":   CategoryTransportation,
	"recycling": CategoryWaste,
}

// Canonical maps a category name onto the canonical taxonomy. Unknown names
// pass through lower-cased; an empty name becomes "other".
func Canonical(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return CategoryOther
	}
	if alias, ok := categoryAliases[c]; ok {
		return alias
	}
	return c
}

// IsKnownCategory reports whether the name maps to a canonical category.
func IsKnownCategory(category string) bool {
	c := Canonical(category)
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
