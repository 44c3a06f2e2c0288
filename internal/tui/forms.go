package tui

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/finbot/internal/finance"
	"github.com/theirongolddev/finbot/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

type formKind int

const (
	formNone formKind = iota
	formProfile
	formFinancials
)

// profileValues backs the profile form.
type profileValues struct {
	userType finance.UserType
	ageGroup finance.AgeGroup
	income   finance.IncomeRange
	goals    []finance.Goal
	risk     finance.RiskTolerance
}

func newProfileValues(p *finance.UserProfile) *profileValues {
	if p == nil {
		return &profileValues{}
	}
	return &profileValues{
		userType: p.UserType,
		ageGroup: p.AgeGroup,
		income:   p.IncomeRange,
		goals:    append([]finance.Goal{}, p.Goals...),
		risk:     p.RiskTolerance,
	}
}

func (v *profileValues) profile() finance.UserProfile {
	return finance.UserProfile{
		UserType:      v.userType,
		AgeGroup:      v.ageGroup,
		IncomeRange:   v.income,
		Goals:         v.goals,
		RiskTolerance: v.risk,
	}
}

// financeValues backs the income and expenses form. expenses is parallel to
// finance.Categories.
type financeValues struct {
	income   string
	expenses []string
}

func newFinanceValues(fd *finance.FinancialData) *financeValues {
	v := &financeValues{expenses: make([]string, len(finance.Categories))}
	if fd == nil {
		return v
	}
	v.income = fd.MonthlyIncome.String()
	for i, c := range finance.Categories {
		v.expenses[i] = fd.Expenses.Amount(c).String()
	}
	return v
}

func (v *financeValues) parse() (decimal.Decimal, map[finance.Category]decimal.Decimal, error) {
	income, err := finance.ParseAmount(v.income)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("monthly income: %w", err)
	}
	expenses := make(map[finance.Category]decimal.Decimal, len(finance.Categories))
	for i, c := range finance.Categories {
		amt, err := finance.ParseAmount(v.expenses[i])
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("%s: %w", c.Label(), err)
		}
		expenses[c] = amt
	}
	return income, expenses, nil
}

var errInvalidAmount = errors.New("enter a non-negative amount")

func validateAmount(s string) error {
	if _, err := finance.ParseAmount(s); err != nil {
		return errInvalidAmount
	}
	return nil
}

type labelled interface {
	comparable
	fmt.Stringer
}

// enumOptions builds select options for values, led by an option for unset.
func enumOptions[T labelled](unset T, values []T) []huh.Option[T] {
	opts := make([]huh.Option[T], 0, len(values)+1)
	opts = append(opts, huh.NewOption("Select...", unset))
	for _, v := range values {
		opts = append(opts, huh.NewOption(v.String(), v))
	}
	return opts
}

func newProfileForm(v *profileValues) *huh.Form {
	goals := make([]huh.Option[finance.Goal], len(finance.Goals))
	for i, g := range finance.Goals {
		goals[i] = huh.NewOption(g.String(), g)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[finance.UserType]().
				Title("I am a...").
				Options(enumOptions(finance.UserTypeUnset, finance.UserTypes)...).
				Value(&v.userType),
			huh.NewSelect[finance.AgeGroup]().
				Title("Age Group").
				Options(enumOptions(finance.AgeGroupUnset, finance.AgeGroups)...).
				Value(&v.ageGroup),
			huh.NewSelect[finance.IncomeRange]().
				Title("Monthly Income Range").
				Options(enumOptions(finance.IncomeRangeUnset, finance.IncomeRanges)...).
				Value(&v.income),
		).Title("User Profile"),
		huh.NewGroup(
			huh.NewMultiSelect[finance.Goal]().
				Title("Financial Goals").
				Description("space to toggle").
				Options(goals...).
				Value(&v.goals),
			huh.NewSelect[finance.RiskTolerance]().
				Title("Risk Tolerance").
				Options(enumOptions(finance.RiskUnset, finance.RiskTolerances)...).
				Value(&v.risk),
		).Title("Goals & Risk"),
	)
}

func newFinancialsForm(v *financeValues, currency string) *huh.Form {
	income := huh.NewInput().
		Title(fmt.Sprintf("Monthly Income (%s)", currency)).
		Placeholder("0").
		Value(&v.income).
		Validate(validateAmount)

	expenses := make([]huh.Field, len(finance.Categories))
	for i, c := range finance.Categories {
		expenses[i] = huh.NewInput().
			Title(fmt.Sprintf("%s (%s)", c.Label(), currency)).
			Placeholder("0").
			Value(&v.expenses[i]).
			Validate(validateAmount)
	}

	return huh.NewForm(
		huh.NewGroup(income).Title("Income"),
		huh.NewGroup(expenses...).Title("Monthly Expenses"),
	)
}

// formTheme adapts huh's base theme to the active color theme.
func formTheme() *huh.Theme {
	t := theme.Active
	ht := huh.ThemeBase()

	ht.Focused.Base = ht.Focused.Base.BorderForeground(t.BorderAccent)
	ht.Focused.Title = ht.Focused.Title.Foreground(t.AccentBright).Bold(true)
	ht.Focused.Description = ht.Focused.Description.Foreground(t.TextMuted)
	ht.Focused.ErrorIndicator = ht.Focused.ErrorIndicator.Foreground(t.Negative)
	ht.Focused.ErrorMessage = ht.Focused.ErrorMessage.Foreground(t.Negative)
	ht.Focused.SelectSelector = ht.Focused.SelectSelector.Foreground(t.Accent)
	ht.Focused.MultiSelectSelector = ht.Focused.MultiSelectSelector.Foreground(t.Accent)
	ht.Focused.SelectedOption = ht.Focused.SelectedOption.Foreground(t.Positive)
	ht.Focused.UnselectedOption = ht.Focused.UnselectedOption.Foreground(t.TextPrimary)

	ht.Blurred = ht.Focused
	ht.Blurred.Base = ht.Blurred.Base.BorderForeground(t.Border)
	ht.Blurred.Title = ht.Blurred.Title.Foreground(t.TextMuted)
	return ht
}

func (a App) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = form.
		WithTheme(formTheme()).
		WithShowHelp(true)
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, maxContentWidth)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) openProfileForm() (tea.Model, tea.Cmd) {
	a.profileIn = newProfileValues(a.sess.Profile())
	return a.openForm(formProfile, newProfileForm(a.profileIn))
}

func (a App) openFinancialsForm() (tea.Model, tea.Cmd) {
	a.financesIn = newFinanceValues(a.sess.Financials())
	return a.openForm(formFinancials, newFinancialsForm(a.financesIn, a.ctrl.Currency))
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.applyForm()
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// applyForm stores the submitted form values in the session.
func (a *App) applyForm() {
	switch a.formKind {
	case formProfile:
		a.sess.SaveProfile(a.profileIn.profile())
		a.banner = successBanner("Profile saved successfully!")

	case formFinancials:
		income, expenses, err := a.financesIn.parse()
		if err == nil {
			err = a.sess.UpdateFinancials(income, expenses)
		}
		if err != nil {
			a.banner = errorBanner(err.Error())
			return
		}
		a.banner = successBanner("Financial data updated!")
		a.activeTab = tabOverview
	}
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.profileIn = nil
	a.financesIn = nil
}
