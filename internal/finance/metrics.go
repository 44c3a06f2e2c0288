package finance

import "github.com/shopspring/decimal"

// Metrics are the figures derived from a FinancialData snapshot.
type Metrics struct {
	TotalExpenses decimal.Decimal
	// Savings is income minus expenses and is negative when overspending.
	Savings decimal.Decimal
	// SavingsRate is Savings/MonthlyIncome; invalid when income is zero.
	SavingsRate decimal.NullDecimal
}

// Overspending reports whether expenses exceed income.
func (m Metrics) Overspending() bool {
	return m.Savings.IsNegative()
}

// ComputeMetrics derives totals from fd. It recomputes the expense total from
// the category amounts rather than trusting fd.TotalExpenses.
func ComputeMetrics(fd FinancialData) Metrics {
	total := fd.Expenses.Sum()
	savings := fd.MonthlyIncome.Sub(total)

	m := Metrics{
		TotalExpenses: total,
		Savings:       savings,
	}
	if fd.MonthlyIncome.IsPositive() {
		m.SavingsRate = decimal.NewNullDecimal(savings.Div(fd.MonthlyIncome))
	}
	return m
}

// Share is one category's portion of total expenses.
type Share struct {
	Category Category
	Amount   decimal.Decimal
	Fraction float64 // 0.0-1.0
}

// ExpenseShares returns each category's fraction of total expenses, in
// category order. Fractions are zero when nothing was spent.
func ExpenseShares(fd FinancialData) []Share {
	total := fd.Expenses.Sum()
	out := make([]Share, 0, len(fd.Expenses))
	for _, e := range fd.Expenses {
		s := Share{Category: e.Category, Amount: e.Amount}
		if total.IsPositive() {
			s.Fraction = e.Amount.Div(total).InexactFloat64()
		}
		out = append(out, s)
	}
	return out
}
