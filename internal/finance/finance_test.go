package finance

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleExpenses() map[Category]decimal.Decimal {
	return map[Category]decimal.Decimal{
		Rent:          d("20000"),
		Food:          d("5000"),
		Transport:     d("2000"),
		Utilities:     d("1000"),
		Entertainment: d("500"),
		Miscellaneous: d("500"),
	}
}

func TestNewFinancialData_TotalIsSum(t *testing.T) {
	tests := []struct {
		name     string
		expenses map[Category]decimal.Decimal
		want     string
	}{
		{"all categories", sampleExpenses(), "29000"},
		{"empty", nil, "0"},
		{"partial", map[Category]decimal.Decimal{Food: d("120.50"), Rent: d("0.25")}, "120.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd, err := NewFinancialData(d("1000"), tt.expenses, time.Now())
			if err != nil {
				t.Fatalf("NewFinancialData: %v", err)
			}
			if !fd.TotalExpenses.Equal(d(tt.want)) {
				t.Fatalf("TotalExpenses = %s, want %s", fd.TotalExpenses, tt.want)
			}
			if len(fd.Expenses) != len(Categories) {
				t.Fatalf("len(Expenses) = %d, want %d", len(fd.Expenses), len(Categories))
			}
			for i, c := range Categories {
				if fd.Expenses[i].Category != c {
					t.Fatalf("Expenses[%d] = %s, want %s", i, fd.Expenses[i].Category, c)
				}
			}
		})
	}
}

func TestNewFinancialData_RejectsUnknownCategory(t *testing.T) {
	_, err := NewFinancialData(d("1"), map[Category]decimal.Decimal{"yachts": d("1")}, time.Now())
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestComputeMetrics_EndToEnd(t *testing.T) {
	fd, err := NewFinancialData(d("50000"), sampleExpenses(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	m := ComputeMetrics(fd)
	if !m.TotalExpenses.Equal(d("29000")) {
		t.Errorf("TotalExpenses = %s, want 29000", m.TotalExpenses)
	}
	if !m.Savings.Equal(d("21000")) {
		t.Errorf("Savings = %s, want 21000", m.Savings)
	}
	if !m.SavingsRate.Valid {
		t.Fatal("SavingsRate invalid, want 0.42")
	}
	if !m.SavingsRate.Decimal.Equal(d("0.42")) {
		t.Errorf("SavingsRate = %s, want 0.42", m.SavingsRate.Decimal)
	}
	if m.Overspending() {
		t.Error("Overspending() = true, want false")
	}
}

func TestComputeMetrics_NegativeSavingsNotClamped(t *testing.T) {
	fd, _ := NewFinancialData(d("1000"), map[Category]decimal.Decimal{Rent: d("1500")}, time.Now())
	m := ComputeMetrics(fd)

	if !m.Savings.Equal(d("-500")) {
		t.Fatalf("Savings = %s, want -500", m.Savings)
	}
	if !m.SavingsRate.Decimal.Equal(d("-0.5")) {
		t.Fatalf("SavingsRate = %s, want -0.5", m.SavingsRate.Decimal)
	}
	if !m.Overspending() {
		t.Fatal("Overspending() = false, want true")
	}
}

func TestComputeMetrics_ZeroIncomeHasNoRate(t *testing.T) {
	fd, _ := NewFinancialData(decimal.Zero, map[Category]decimal.Decimal{Food: d("300")}, time.Now())
	m := ComputeMetrics(fd)

	if m.SavingsRate.Valid {
		t.Fatalf("SavingsRate = %s, want invalid for zero income", m.SavingsRate.Decimal)
	}
	if !m.Savings.Equal(d("-300")) {
		t.Fatalf("Savings = %s, want -300", m.Savings)
	}
}

func TestComputeMetrics_IgnoresStaleTotal(t *testing.T) {
	fd, _ := NewFinancialData(d("100"), map[Category]decimal.Decimal{Food: d("40")}, time.Now())
	fd.TotalExpenses = d("99999")

	if got := ComputeMetrics(fd).TotalExpenses; !got.Equal(d("40")) {
		t.Fatalf("TotalExpenses = %s, want 40", got)
	}
}

func TestExpenseShares(t *testing.T) {
	fd, _ := NewFinancialData(d("0"), map[Category]decimal.Decimal{Rent: d("75"), Food: d("25")}, time.Now())
	shares := ExpenseShares(fd)

	if len(shares) != len(Categories) {
		t.Fatalf("len = %d, want %d", len(shares), len(Categories))
	}
	if math.Abs(shares[0].Fraction-0.75) > 1e-9 {
		t.Errorf("rent share = %f, want 0.75", shares[0].Fraction)
	}
	if math.Abs(shares[1].Fraction-0.25) > 1e-9 {
		t.Errorf("food share = %f, want 0.25", shares[1].Fraction)
	}

	empty := ExpenseShares(EmptyFinancialData())
	for _, s := range empty {
		if s.Fraction != 0 {
			t.Fatalf("%s share = %f, want 0 with no spending", s.Category, s.Fraction)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "0", false},
		{"  ", "0", false},
		{"50000", "50000", false},
		{"1,00,000", "100000", false},
		{"₹2,500.75", "2500.75", false},
		{"-1", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %s, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(d(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseAmount("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("ParseAmount(-5) err = %v, want ErrNegativeAmount", err)
	}
}

func TestFinancialDataJSON_OrderedNumeric(t *testing.T) {
	fd, _ := NewFinancialData(d("50000"), sampleExpenses(), time.Time{})
	raw, err := json.Marshal(fd)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"monthly_income":50000,"expenses":{"rent":20000,"food":5000,"transport":2000,"utilities":1000,"entertainment":500,"miscellaneous":500},"total_expenses":29000}`
	if string(raw) != want {
		t.Fatalf("json =\n%s\nwant\n%s", raw, want)
	}
}

func TestParseEnums(t *testing.T) {
	if u, err := ParseUserType("Mid-Career Professional"); err != nil || u != MidCareerProfessional {
		t.Errorf("ParseUserType label = %v, %v", u, err)
	}
	if u, err := ParseUserType("young_professional"); err != nil || u != YoungProfessional {
		t.Errorf("ParseUserType key = %v, %v", u, err)
	}
	if u, err := ParseUserType("Select..."); err != nil || u != UserTypeUnset {
		t.Errorf("ParseUserType placeholder = %v, %v", u, err)
	}
	if _, err := ParseUserType("astronaut"); err == nil {
		t.Error("ParseUserType(astronaut) want error")
	}
	if a, err := ParseAgeGroup("65+"); err != nil || a != Age65Plus {
		t.Errorf("ParseAgeGroup(65+) = %v, %v", a, err)
	}
	if r, err := ParseIncomeRange("50,000-1,00,000"); err != nil || r != Income50KTo1L {
		t.Errorf("ParseIncomeRange = %v, %v", r, err)
	}
	if _, err := ParseGoal(""); err == nil {
		t.Error("ParseGoal(\"\") want error")
	}
	if RiskUnset.String() != NotSet {
		t.Errorf("RiskUnset.String() = %q, want %q", RiskUnset.String(), NotSet)
	}
}

func TestUserProfileJSONRoundTrip(t *testing.T) {
	in := `{"user_type":"Retiree","age_group":"65+","income_range":"not set","financial_goals":["Tax Planning","Emergency Fund"],"risk_tolerance":"Conservative"}`

	var p UserProfile
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.UserType != Retiree || p.AgeGroup != Age65Plus || p.IncomeRange != IncomeRangeUnset {
		t.Fatalf("decoded profile = %+v", p)
	}
	if len(p.Goals) != 2 || p.Goals[0] != TaxPlanning {
		t.Fatalf("Goals = %v", p.Goals)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"income_range":"not set"`) {
		t.Fatalf("unset enum not rendered as placeholder: %s", out)
	}
}

func TestNormalizeGoals(t *testing.T) {
	got := NormalizeGoals([]Goal{Investment, 0, Investment, Education, Goal(42)})
	if len(got) != 2 || got[0] != Investment || got[1] != Education {
		t.Fatalf("NormalizeGoals = %v, want [Investment Education]", got)
	}
	if got := NormalizeGoals(nil); got == nil || len(got) != 0 {
		t.Fatalf("NormalizeGoals(nil) = %#v, want empty non-nil", got)
	}
}
