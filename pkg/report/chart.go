package report

import (
	"github.com/shopspring/decimal"
	"github.com/yurifrl/budgetu/pkg/aggregate"
)

type ChartKind string

const (
	Bar ChartKind = "bar"
	Pie ChartKind = "pie"
)

type ChartID string

const (
	CategoryBar ChartID = "category_bar"
	CategoryPie ChartID = "category_pie"
	OverallPie  ChartID = "overall_pie"
)

// Colors as RRGGBB, shared by the workbook and the document.
const (
	ColorActual    = "4472C4"
	ColorRemaining = "ED7D31"
)

// Palette colors pie slices in order.
var Palette = []string{"4472C4", "ED7D31", "A5A5A5", "FFC000", "5B9BD5", "70AD47", "264478", "9E480E", "636363", "997300"}

// Series is one named run of values, aligned with ChartSpec.Categories.
type Series struct {
	Name   string
	Values []decimal.Decimal
	Color  string
}

// ChartSpec describes a chart independently of the artifact drawing it.
type ChartSpec struct {
	ID          ChartID
	Kind        ChartKind
	Title       string
	Categories  []string
	Series      []Series
	ShowPercent bool
}

// SliceColor returns the palette color of pie slice i.
func SliceColor(i int) string {
	return Palette[i%len(Palette)]
}

func charts(s aggregate.SummaryMetrics, groups []aggregate.CategoryGroup) []ChartSpec {
	keys := make([]string, len(groups))
	actual := make([]decimal.Decimal, len(groups))
	echo := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
		actual[i] = g.Actual
		echo[i] = g.RowActualEcho
	}

	return []ChartSpec{
		{
			ID:         CategoryBar,
			Kind:       Bar,
			Title:      "Realisasi vs Sisa per Kategori",
			Categories: keys,
			Series: []Series{
				{Name: SeriesActual, Values: actual, Color: ColorActual},
				{Name: SeriesRemaining, Values: echo, Color: ColorRemaining},
			},
		},
		{
			ID:          CategoryPie,
			Kind:        Pie,
			Title:       "Sisa per Kategori",
			Categories:  keys,
			Series:      []Series{{Name: SeriesRemaining, Values: echo}},
			ShowPercent: true,
		},
		{
			ID:         OverallPie,
			Kind:       Pie,
			Title:      "Realisasi vs Sisa",
			Categories: []string{SeriesActual, SeriesRemaining},
			Series: []Series{{
				Name:   "Total",
				Values: []decimal.Decimal{s.TotalActual, s.AggregateRemaining},
			}},
			ShowPercent: true,
		},
	}
}

// Positive reports whether the first series has at least one value above zero.
func (c ChartSpec) Positive() bool {
	if len(c.Series) == 0 {
		return false
	}
	for _, v := range c.Series[0].Values {
		if v.IsPositive() {
			return true
		}
	}
	return false
}
