package enums

import "fmt"

// ShoeCategory buckets inventory by intended wearer.
type ShoeCategory string

const (
	ShoeCategoryMen   ShoeCategory = "men"
	ShoeCategoryWomen ShoeCategory = "women"
	ShoeCategoryKids  ShoeCategory = "kids"
)

var validShoeCategories = []ShoeCategory{
	ShoeCategoryMen,
	ShoeCategoryWomen,
	ShoeCategoryKids,
}

// String implements fmt.Stringer.
func (s ShoeCategory) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShoeCategory.
func (s ShoeCategory) IsValid() bool {
	for _, candidate := range validShoeCategories {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShoeCategory converts raw input into a ShoeCategory.
func ParseShoeCategory(value string) (ShoeCategory, error) {
	for _, candidate := range validShoeCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shoe category %q", value)
}
