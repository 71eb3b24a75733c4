package core

import (
	"fmt"
	"strings"
)

// Category classifies a transaction. Income is the only income category;
// every other value is an expense.
type Category string

const (
	Income Category = "Income"

	Food       Category = "Food"
	Groceries  Category = "Groceries"
	FastFood   Category = "Fast Food"
	JunkFood   Category = "Junk Food"
	Alcohol    Category = "Alcohol"
	Smoking    Category = "Smoking"
	Sweets     Category = "Sweets"
	Healthcare Category = "Healthcare"
	Medicine   Category = "Medicine"
	Gym        Category = "Gym"
	Fitness    Category = "Fitness"
	Sports     Category = "Sports"
	Travel     Category = "Travel"
	Shopping   Category = "Shopping"
	Bills      Category = "Bills"
	Others     Category = "Others"
)

// HealthTag is the lifestyle classification of an expense category.
type HealthTag string

const (
	Healthy   HealthTag = "healthy"
	Unhealthy HealthTag = "unhealthy"
	Neutral   HealthTag = "neutral"
)

var expenseCategories = []Category{
	Food, Groceries, FastFood, JunkFood, Alcohol, Smoking, Sweets,
	Healthcare, Medicine, Gym, Fitness, Sports,
	Travel, Shopping, Bills, Others,
}

var healthTags = map[Category]HealthTag{
	Groceries:  Healthy,
	Healthcare: Healthy,
	Medicine:   Healthy,
	Gym:        Healthy,
	Fitness:    Healthy,
	Sports:     Healthy,

	FastFood: Unhealthy,
	JunkFood: Unhealthy,
	Alcohol:  Unhealthy,
	Smoking:  Unhealthy,
	Sweets:   Unhealthy,
}

// ExpenseCategories returns the categories offered for expenses, in display order.
func ExpenseCategories() []Category {
	return append([]Category(nil), expenseCategories...)
}

// ParseCategory validates a category name entered by the user.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// ParseExpenseCategory is ParseCategory restricted to expense categories.
func ParseExpenseCategory(s string) (Category, error) {
	c, err := ParseCategory(s)
	if err != nil {
		return "", err
	}
	if c == Income {
		return "", ErrIncomeCategory
	}
	return c, nil
}

// IsKnown reports whether c belongs to the closed category set.
func (c Category) IsKnown() bool {
	if c == Income {
		return true
	}
	for _, e := range expenseCategories {
		if c == e {
			return true
		}
	}
	return false
}

// HealthTag returns the lifestyle tag of the category. Income, Food and
// categories outside the table are neutral.
func (c Category) HealthTag() HealthTag {
	if tag, ok := healthTags[c]; ok {
		return tag
	}
	return Neutral
}

func (c Category) String() string {
	return string(c)
}
