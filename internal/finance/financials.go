package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed monthly expense categories.
type Category string

const (
	Rent          Category = "rent"
	Food          Category = "food"
	Transport     Category = "transport"
	Utilities     Category = "utilities"
	Entertainment Category = "entertainment"
	Miscellaneous Category = "miscellaneous"
)

// Categories is the fixed category set in display order.
var Categories = []Category{Rent, Food, Transport, Utilities, Entertainment, Miscellaneous}

var categoryLabels = map[Category]string{
	Rent:          "Rent/EMI",
	Food:          "Food & Groceries",
	Transport:     "Transportation",
	Utilities:     "Utilities",
	Entertainment: "Entertainment",
	Miscellaneous: "Miscellaneous",
}

// Label returns the form label for the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCategory resolves a category key, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

var (
	// ErrNegativeAmount is returned by the input helpers for amounts below zero.
	ErrNegativeAmount = errors.New("finance: amount must not be negative")
	// ErrUnknownCategory is returned for expense keys outside the fixed set.
	ErrUnknownCategory = errors.New("finance: unknown expense category")
)

// ValidateAmount enforces the non-negativity of user-entered amounts.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// ParseAmount parses a user-entered amount. Blank input is zero; thousands
// separators and a leading currency symbol are tolerated.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "₹$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("finance: invalid amount %q", s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Expense is the monthly amount spent in one category.
type Expense struct {
	Category Category
	Amount   decimal.Decimal
}

// Expenses is an ordered category -> amount mapping. It always holds every
// category, in Categories order.
type Expenses []Expense

// Amount returns the amount recorded for c, or zero.
func (e Expenses) Amount(c Category) decimal.Decimal {
	for _, x := range e {
		if x.Category == c {
			return x.Amount
		}
	}
	return decimal.Zero
}

// Sum returns the total over all categories.
func (e Expenses) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, x := range e {
		total = total.Add(x.Amount)
	}
	return total
}

// MarshalJSON encodes the expenses as a JSON object with keys in category
// order and plain numeric values.
func (e Expenses) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, x := range e {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(string(x.Category))
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.WriteString(x.Amount.String())
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// FinancialData is the user's monthly income and expense snapshot.
// TotalExpenses is derived and only ever set by NewFinancialData.
type FinancialData struct {
	MonthlyIncome decimal.Decimal
	Expenses      Expenses
	TotalExpenses decimal.Decimal
	UpdatedAt     time.Time
}

// NewFinancialData builds a snapshot from raw figures, recomputing the total.
// Categories missing from expenses are recorded as zero.
func NewFinancialData(income decimal.Decimal, expenses map[Category]decimal.Decimal, at time.Time) (FinancialData, error) {
	for c := range expenses {
		if _, ok := categoryLabels[c]; !ok {
			return FinancialData{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
		}
	}

	ordered := make(Expenses, 0, len(Categories))
	for _, c := range Categories {
		amt, ok := expenses[c]
		if !ok {
			amt = decimal.Zero
		}
		ordered = append(ordered, Expense{Category: c, Amount: amt})
	}

	return FinancialData{
		MonthlyIncome: income,
		Expenses:      ordered,
		TotalExpenses: ordered.Sum(),
		UpdatedAt:     at,
	}, nil
}

// EmptyFinancialData is the zero-valued snapshot used as prompt context
// before the user has entered any figures.
func EmptyFinancialData() FinancialData {
	fd, _ := NewFinancialData(decimal.Zero, nil, time.Time{})
	return fd
}

// Clone returns a copy that shares no memory with fd.
func (fd FinancialData) Clone() FinancialData {
	fd.Expenses = append(Expenses{}, fd.Expenses...)
	return fd
}

// MarshalJSON keeps amounts numeric and the expense keys ordered.
func (fd FinancialData) MarshalJSON() ([]byte, error) {
	type wire struct {
		MonthlyIncome json.Number `json:"monthly_income"`
		Expenses      Expenses    `json:"expenses"`
		TotalExpenses json.Number `json:"total_expenses"`
		UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
	}
	w := wire{
		MonthlyIncome: json.Number(fd.MonthlyIncome.String()),
		Expenses:      fd.Expenses,
		TotalExpenses: json.Number(fd.TotalExpenses.String()),
	}
	if w.Expenses == nil {
		w.Expenses = Expenses{}
	}
	if !fd.UpdatedAt.IsZero() {
		w.UpdatedAt = &fd.UpdatedAt
	}
	return json.Marshal(w)
}
