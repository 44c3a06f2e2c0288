// Package finance defines the user's financial profile, the monthly income and
// expense figures, and the metrics derived from them.
package finance

import (
	"fmt"
	"strings"
	"time"
)

// NotSet is the placeholder rendered for an enum the user has not chosen.
const NotSet = "not set"

// UserType is the user's life stage. It drives the tone of every prompt.
type UserType int

const (
	UserTypeUnset UserType = iota
	Student
	YoungProfessional
	MidCareerProfessional
	SeniorProfessional
	Retiree
)

var userTypeLabels = []string{"", "Student", "Young Professional", "Mid-Career Professional", "Senior Professional", "Retiree"}

// UserTypes lists the selectable user types in display order.
var UserTypes = []UserType{Student, YoungProfessional, MidCareerProfessional, SeniorProfessional, Retiree}

func (u UserType) String() string { return label(userTypeLabels, int(u)) }

// MarshalText implements encoding.TextMarshaler.
func (u UserType) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UserType) UnmarshalText(b []byte) error {
	v, err := ParseUserType(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseUserType accepts a display label ("Young Professional") or a compact
// key ("young_professional"). Empty input yields UserTypeUnset.
func ParseUserType(s string) (UserType, error) {
	i, err := parseLabel("user type", userTypeLabels, s)
	return UserType(i), err
}

// AgeGroup is a bucketed age range.
type AgeGroup int

const (
	AgeGroupUnset AgeGroup = iota
	Age18To25
	Age26To35
	Age36To45
	Age46To55
	Age56To65
	Age65Plus
)

var ageGroupLabels = []string{"", "18-25", "26-35", "36-45", "46-55", "56-65", "65+"}

// AgeGroups lists the selectable age groups in display order.
var AgeGroups = []AgeGroup{Age18To25, Age26To35, Age36To45, Age46To55, Age56To65, Age65Plus}

func (a AgeGroup) String() string { return label(ageGroupLabels, int(a)) }

// MarshalText implements encoding.TextMarshaler.
func (a AgeGroup) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AgeGroup) UnmarshalText(b []byte) error {
	v, err := ParseAgeGroup(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAgeGroup parses an age bucket label such as "26-35".
func ParseAgeGroup(s string) (AgeGroup, error) {
	i, err := parseLabel("age group", ageGroupLabels, s)
	return AgeGroup(i), err
}

// IncomeRange is a bucketed monthly income range.
type IncomeRange int

const (
	IncomeRangeUnset IncomeRange = iota
	IncomeBelow25K
	Income25KTo50K
	Income50KTo1L
	Income1LTo2L
	Income2LPlus
)

var incomeRangeLabels = []string{"", "Below 25,000", "25,000-50,000", "50,000-1,00,000", "1,00,000-2,00,000", "2,00,000+"}

// IncomeRanges lists the selectable income ranges in display order.
var IncomeRanges = []IncomeRange{IncomeBelow25K, Income25KTo50K, Income50KTo1L, Income1LTo2L, Income2LPlus}

func (r IncomeRange) String() string { return label(incomeRangeLabels, int(r)) }

// MarshalText implements encoding.TextMarshaler.
func (r IncomeRange) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *IncomeRange) UnmarshalText(b []byte) error {
	v, err := ParseIncomeRange(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseIncomeRange parses an income bucket label such as "25,000-50,000".
func ParseIncomeRange(s string) (IncomeRange, error) {
	i, err := parseLabel("income range", incomeRangeLabels, s)
	return IncomeRange(i), err
}

// RiskTolerance is the user's appetite for investment risk.
type RiskTolerance int

const (
	RiskUnset RiskTolerance = iota
	Conservative
	Moderate
	Aggressive
)

var riskLabels = []string{"", "Conservative", "Moderate", "Aggressive"}

// RiskTolerances lists the selectable risk levels in display order.
var RiskTolerances = []RiskTolerance{Conservative, Moderate, Aggressive}

func (r RiskTolerance) String() string { return label(riskLabels, int(r)) }

// MarshalText implements encoding.TextMarshaler.
func (r RiskTolerance) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RiskTolerance) UnmarshalText(b []byte) error {
	v, err := ParseRiskTolerance(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRiskTolerance parses "Conservative", "Moderate" or "Aggressive".
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	i, err := parseLabel("risk tolerance", riskLabels, s)
	return RiskTolerance(i), err
}

// Goal is one financial goal. The zero value is not a valid goal.
type Goal int

const (
	EmergencyFund Goal = iota + 1
	Investment
	RetirementPlanning
	HomePurchase
	Education
	DebtReduction
	TaxPlanning
)

var goalLabels = []string{"", "Emergency Fund", "Investment", "Retirement Planning", "Home Purchase", "Education", "Debt Reduction", "Tax Planning"}

// Goals lists every goal in display order.
var Goals = []Goal{EmergencyFund, Investment, RetirementPlanning, HomePurchase, Education, DebtReduction, TaxPlanning}

func (g Goal) String() string { return label(goalLabels, int(g)) }

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool { return g >= EmergencyFund && g <= TaxPlanning }

// MarshalText implements encoding.TextMarshaler.
func (g Goal) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Goal) UnmarshalText(b []byte) error {
	v, err := ParseGoal(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGoal parses a goal label. Unlike the other enums a goal cannot be blank.
func ParseGoal(s string) (Goal, error) {
	i, err := parseLabel("goal", goalLabels, s)
	if err != nil {
		return 0, err
	}
	if i == 0 {
		return 0, fmt.Errorf("finance: goal must not be empty")
	}
	return Goal(i), nil
}

// UserProfile holds the demographic and preference attributes of the user.
type UserProfile struct {
	UserType      UserType      `json:"user_type"`
	AgeGroup      AgeGroup      `json:"age_group"`
	IncomeRange   IncomeRange   `json:"income_range"`
	Goals         []Goal        `json:"financial_goals"`
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Clone returns a copy that shares no memory with p.
func (p UserProfile) Clone() UserProfile {
	p.Goals = append([]Goal{}, p.Goals...)
	return p
}

// GoalLabels returns the display labels of the selected goals, in order.
func (p UserProfile) GoalLabels() []string {
	out := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		out = append(out, g.String())
	}
	return out
}

// NormalizeGoals drops invalid and repeated goals, keeping first occurrences.
// The result is never nil so an empty selection still encodes as [].
func NormalizeGoals(goals []Goal) []Goal {
	seen := make(map[Goal]bool, len(goals))
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if !g.Valid() || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

func label(labels []string, i int) string {
	if i <= 0 || i >= len(labels) {
		return NotSet
	}
	return labels[i]
}

// parseLabel matches s against labels ignoring case, spaces and punctuation,
// so "Mid-Career Professional", "mid_career_professional" and
// "midcareerprofessional" all resolve to the same value. Index 0 is the unset
// value and is returned for blank input, "not set" and the form's "Select...".
func parseLabel(kind string, labels []string, s string) (int, error) {
	key := normalizeKey(s)
	switch key {
	case "", normalizeKey(NotSet), "select":
		return 0, nil
	}
	for i := 1; i < len(labels); i++ {
		if normalizeKey(labels[i]) == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("finance: unknown %s %q", kind, s)
}

func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+':
			b.WriteRune(r)
		}
	}
	return b.String()
}
