package models

// Category labels a transaction. The known set mirrors the choices offered by
// the entry form; any other value is stored and reported verbatim.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryRent          Category = "Rent"
	CategorySalary        Category = "Salary"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryMedical       Category = "Medical"
	CategoryUtilities     Category = "Utilities"
	CategoryShopping      Category = "Shopping"
	CategoryOther         Category = "Other"
)

// Categories returns the known categories in form order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryRent,
		CategorySalary,
		CategoryTransport,
		CategoryEntertainment,
		CategoryMedical,
		CategoryUtilities,
		CategoryShopping,
		CategoryOther,
	}
}

// IconUnknown is shown for categories outside the known set.
const IconUnknown = "circle-question"

var categoryIcons = map[Category]string{
	CategoryFood:          "utensils",
	CategoryRent:          "house",
	CategorySalary:        "money-bill-wave",
	CategoryTransport:     "car",
	CategoryEntertainment: "film",
	CategoryMedical:       "briefcase-medical",
	CategoryUtilities:     "bolt",
	CategoryShopping:      "bag-shopping",
}

// IsKnown reports whether c is one of the known categories.
func (c Category) IsKnown() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Icon returns the icon name for c. Other and unrecognized categories share
// IconUnknown.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return IconUnknown
}
