package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		symbol string
		want   string
	}{
		{"0", Rupee, "₹0"},
		{"500", Rupee, "₹500"},
		{"1000", Rupee, "₹1,000"},
		{"150000", Rupee, "₹1,50,000"},
		{"12345678", Rupee, "₹1,23,45,678"},
		{"2500.5", Rupee, "₹2,500.50"},
		{"-21000", Rupee, "-₹21,000"},
		{"1234567", "$", "$1,234,567"},
		{"999.99", "$", "$999.99"},
	}

	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.amount), tt.symbol)
		if got != tt.want {
			t.Errorf("FormatMoney(%s, %s) = %q, want %q", tt.amount, tt.symbol, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(decimal.NullDecimal{}); got != "n/a" {
		t.Errorf("FormatRate(invalid) = %q", got)
	}
	if got := FormatRate(decimal.NewNullDecimal(decimal.RequireFromString("0.42"))); got != "42.0%" {
		t.Errorf("FormatRate(0.42) = %q", got)
	}
	if got := FormatRate(decimal.NewNullDecimal(decimal.RequireFromString("-0.5"))); got != "-50.0%" {
		t.Errorf("FormatRate(-0.5) = %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":                  "(not set)",
		"abc":               "***",
		"AIzaSyExample1234": "********1234",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Rent/EMI", "₹20,000"},
			{"Food & Groceries", "₹5,000"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width = %d, want %d:\n%s", i, w, width, out)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("RenderTable(empty) = %q", got)
	}
}
