package domain

// Category classifies an advert as an offer or a request.
type Category string

const (
	CategoryForSale Category = "for_sale"
	CategoryWanted  Category = "wanted"
)

// Categories returns every category.
func Categories() []Category {
	return []Category{CategoryForSale, CategoryWanted}
}

// ParseCategory returns the category named s and whether it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
