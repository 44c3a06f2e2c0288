package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/finbot/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Profile", "Student", 22)
	tallCard := ContentCard("Budget Summary", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d", i, w, width)
		}
		// Padding below the short card must carry the background color.
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, line)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Income", Value: "₹50,000"},
		{Label: "Expenses", Value: "₹29,000"},
		{Label: "Savings", Value: "₹21,000", Note: "42.0%"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
		if !strings.HasPrefix(strings.ToLower(tab.Name), tab.Key) {
			t.Errorf("tab %q shortcut %q is not its first letter", tab.Name, tab.Key)
		}
	}
	if TabIdxByKey("z") != -1 {
		t.Error("unknown key should return -1")
	}
}

func TestShareBarClampsFraction(t *testing.T) {
	over := ShareBar("Rent/EMI", 1.7, "₹20,000", 16, 20)
	full := ShareBar("Rent/EMI", 1.0, "₹20,000", 16, 20)
	if over != full {
		t.Errorf("fraction above 1 not clamped:\n%q\n%q", over, full)
	}
	if !strings.Contains(full, "100.0%") {
		t.Errorf("ShareBar(1.0) = %q, want 100.0%%", full)
	}
}

func TestStatusBarFillsWidth(t *testing.T) {
	for _, st := range []Status{
		{},
		{State: "profile-set", Provider: "gemini"},
		{State: "profile-set+data-entered", Provider: "openai", Busy: "Budget Summary"},
	} {
		if w := lipgloss.Width(RenderStatusBar(120, st)); w != 120 {
			t.Errorf("RenderStatusBar(%+v) width = %d, want 120", st, w)
		}
	}
}
