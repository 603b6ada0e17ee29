package core

import (
	"fmt"
	"strings"
)

// Category is one key of the fixed category catalogue.
type Category string

const (
	CategorySalary      Category = "salary"
	CategoryFreelance   Category = "freelance"
	CategoryInvestment  Category = "investment"
	CategoryGift        Category = "gift"
	CategoryOtherIncome Category = "other-income"

	CategoryFood           Category = "food"
	CategoryShopping       Category = "shopping"
	CategoryHousing        Category = "housing"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryOther          Category = "other"
)

var (
	incomeCategories = []Category{
		CategorySalary,
		CategoryFreelance,
		CategoryInvestment,
		CategoryGift,
		CategoryOtherIncome,
	}

	expenseCategories = []Category{
		CategoryFood,
		CategoryShopping,
		CategoryHousing,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryEducation,
		CategoryOther,
	}

	displayNames = map[Category]string{
		CategoryFood:           "Food & Dining",
		CategoryShopping:       "Shopping",
		CategoryHousing:        "Housing",
		CategoryTransportation: "Transportation",
		CategoryEntertainment:  "Entertainment",
		CategoryHealthcare:     "Healthcare",
		CategoryEducation:      "Education",
		CategorySalary:         "Salary",
		CategoryFreelance:      "Freelance",
		CategoryInvestment:     "Investment",
		CategoryGift:           "Gift",
		CategoryOther:          "Other",
		CategoryOtherIncome:    "Other Income",
	}
)

// IncomeCategories returns the income side of the catalogue in form order.
func IncomeCategories() []Category {
	return append([]Category(nil), incomeCategories...)
}

// ExpenseCategories returns the expense side of the catalogue in form order.
func ExpenseCategories() []Category {
	return append([]Category(nil), expenseCategories...)
}

// CategoriesFor returns the categories selectable for a transaction kind.
func CategoriesFor(k Kind) []Category {
	if k == KindIncome {
		return IncomeCategories()
	}
	return ExpenseCategories()
}

// Kind reports which side of the catalogue c belongs to.
func (c Category) Kind() (Kind, bool) {
	for _, ic := range incomeCategories {
		if ic == c {
			return KindIncome, true
		}
	}
	for _, ec := range expenseCategories {
		if ec == c {
			return KindExpense, true
		}
	}
	return "", false
}

func (c Category) IsValid() bool {
	_, ok := c.Kind()
	return ok
}

// DisplayName maps a category key to its label. Unknown keys are shown as-is.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory validates a category key coming from user input.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
