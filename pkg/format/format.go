package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/yurifrl/budgetu/pkg/models"
)

// Locale controls how amounts and percentages are written in reports.
type Locale struct {
	Symbol    string `mapstructure:"currency_symbol"`
	Thousands string `mapstructure:"thousands"`
	Decimal   string `mapstructure:"decimal"`
}

// Indonesian is the default report locale.
var Indonesian = Locale{Symbol: "Rp", Thousands: ".", Decimal: ","}

// Validate rejects separators humanize cannot render.
func (l Locale) Validate() error {
	if len([]rune(l.Decimal)) != 1 {
		return fmt.Errorf("decimal separator must be a single character, got %q", l.Decimal)
	}
	if len([]rune(l.Thousands)) > 1 {
		return fmt.Errorf("thousands separator must be at most one character, got %q", l.Thousands)
	}
	if l.Thousands == l.Decimal {
		return fmt.Errorf("thousands and decimal separators must differ")
	}
	for _, s := range []string{l.Thousands, l.Decimal} {
		if strings.ContainsAny(s, "#0123456789+") {
			return fmt.Errorf("invalid separator %q", s)
		}
	}
	return nil
}

func (l Locale) pattern(precision int) string {
	p := "####"
	if l.Thousands != "" {
		p = "#" + l.Thousands + "###"
	}
	return p + l.Decimal + strings.Repeat("#", precision)
}

// Number writes d with grouped thousands. Whole amounts carry no decimals,
// anything else is rounded to two.
func (l Locale) Number(d decimal.Decimal) string {
	d = d.Round(2)
	precision := 2
	if d.Equal(d.Truncate(0)) {
		precision = 0
	}
	return humanize.FormatFloat(l.pattern(precision), d.InexactFloat64())
}

// Currency writes d as an amount prefixed by the currency symbol.
func (l Locale) Currency(d decimal.Decimal) string {
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if l.Symbol == "" {
		return sign + l.Number(d)
	}
	return sign + l.Symbol + " " + l.Number(d)
}

// Percent writes d with two decimals and a percent sign.
func (l Locale) Percent(d decimal.Decimal) string {
	return humanize.FormatFloat(l.pattern(2), d.Round(2).InexactFloat64()) + "%"
}

// Cell renders a dataset value for a text table. Numbers use Number,
// dates are written as yyyy-mm-dd.
func (l Locale) Cell(v models.Value) string {
	if v.Kind() == models.Decimal || v.Kind() == models.Number {
		d, _ := v.Decimal()
		return l.Number(d)
	}
	return v.Text()
}
