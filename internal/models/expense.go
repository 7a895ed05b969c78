package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed personal expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryRent          Category = "Rent"
	CategoryEntertainment Category = "Entertainment"
	CategoryTransport     Category = "Transport"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryRent,
	CategoryEntertainment,
	CategoryTransport,
	CategoryOther,
}

// ParseCategory returns the Category matching s exactly.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Rank is the position of c in display order, or len(Categories) if c is unknown.
func (c Category) Rank() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

// PersonalExpense is one entry of the personal ledger.
type PersonalExpense struct {
	// ID is assigned when the entry is appended (UUID format).
	ID string `json:"id"`

	// Date is the calendar day of the expense. Past and future dates are both allowed.
	Date Date `json:"date"`

	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`

	// Note is optional free text.
	Note string `json:"note,omitempty"`
}
