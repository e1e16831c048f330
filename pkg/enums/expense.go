package enums

import "fmt"

// ExpenseCategory classifies what an expense was spent on.
type ExpenseCategory string

const (
	ExpenseCategorySalary    ExpenseCategory = "salary"
	ExpenseCategoryRent      ExpenseCategory = "rent"
	ExpenseCategoryUtilities ExpenseCategory = "utilities"
	ExpenseCategorySupplies  ExpenseCategory = "supplies"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

var validExpenseCategories = []ExpenseCategory{
	ExpenseCategorySalary,
	ExpenseCategoryRent,
	ExpenseCategoryUtilities,
	ExpenseCategorySupplies,
	ExpenseCategoryOther,
}

// String implements fmt.Stringer.
func (e ExpenseCategory) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpenseCategory.
func (e ExpenseCategory) IsValid() bool {
	for _, candidate := range validExpenseCategories {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpenseCategory converts raw input into an ExpenseCategory.
func ParseExpenseCategory(value string) (ExpenseCategory, error) {
	for _, candidate := range validExpenseCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense category %q", value)
}

// ExpenseType distinguishes recurring cadence of an expense.
type ExpenseType string

const (
	ExpenseTypeDaily   ExpenseType = "daily"
	ExpenseTypeMonthly ExpenseType = "monthly"
)

var validExpenseTypes = []ExpenseType{
	ExpenseTypeDaily,
	ExpenseTypeMonthly,
}

// String implements fmt.Stringer.
func (e ExpenseType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpenseType.
func (e ExpenseType) IsValid() bool {
	for _, candidate := range validExpenseTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpenseType converts raw input into an ExpenseType.
func ParseExpenseType(value string) (ExpenseType, error) {
	for _, candidate := range validExpenseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense type %q", value)
}
