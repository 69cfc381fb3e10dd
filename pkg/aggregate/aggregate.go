package aggregate

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/yurifrl/budgetu/pkg/models"
)

// Derived column names and the synthesized group key.
const (
	RemainingColumn = "Sisa"
	CompositeColumn = "Kategori Gabungan"
	Unspecified     = "Unspecified"
)

var hundred = decimal.NewFromInt(100)

// SummaryMetrics holds the report totals, unrounded.
type SummaryMetrics struct {
	TotalBudget decimal.Decimal
	TotalActual decimal.Decimal
	// AggregateRemaining is TotalBudget - TotalActual.
	AggregateRemaining decimal.Decimal
	PercentAbsorbed    decimal.Decimal
	PercentRemaining   decimal.Decimal
	HasActual          bool
}

// Rounded returns the 2-decimal display values. The rounded remaining is
// derived from the rounded totals so the displayed figures always add up.
func (s SummaryMetrics) Rounded() SummaryMetrics {
	budget, actual := s.TotalBudget.Round(2), s.TotalActual.Round(2)
	return SummaryMetrics{
		TotalBudget:        budget,
		TotalActual:        actual,
		AggregateRemaining: budget.Sub(actual),
		PercentAbsorbed:    s.PercentAbsorbed.Round(2),
		PercentRemaining:   s.PercentRemaining.Round(2),
		HasActual:          s.HasActual,
	}
}

// CategoryGroup sums one composite category key.
type CategoryGroup struct {
	Key    string
	Actual decimal.Decimal
	// RowActualEcho sums the row-level Sisa values, which echo actual spend.
	RowActualEcho decimal.Decimal
	Rows          int
}

// Result is the Aggregator output. Rows carries the derived columns.
type Result struct {
	Summary SummaryMetrics
	Groups  []CategoryGroup
	Rows    *models.Dataset
}

type Aggregator struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// Run computes the summary and groups of a normalized dataset. The mapping
// is expected to be validated against ds already.
//
// TotalBudget is the budget of the first row: every row repeats the same
// overall ceiling. The row-level Sisa column is the row's actual value (0
// when absent); only AggregateRemaining subtracts from the budget.
func (a *Aggregator) Run(ds *models.Dataset, m models.ColumnMapping) (*Result, error) {
	if ds.Len() == 0 {
		return nil, models.ErrEmptyDataset
	}

	budget, ok := ds.Value(0, m.Budget).Decimal()
	if !ok {
		a.logger.Warn("budget missing in first row, using 0", "column", m.Budget)
	}

	var (
		totalActual = decimal.Zero
		echo        = make([]models.Value, ds.Len())
		keys        = make([]models.Value, ds.Len())
		groups      = map[string]*CategoryGroup{}
	)
	for i := 0; i < ds.Len(); i++ {
		actual := decimal.Zero
		if m.HasActual() {
			if v, ok := ds.Value(i, m.Actual).Decimal(); ok {
				actual = v
			}
		}
		totalActual = totalActual.Add(actual)
		echo[i] = models.DecimalValue(actual)

		key := Key(ds, i, m.Category)
		keys[i] = models.StringValue(key)

		g, ok := groups[key]
		if !ok {
			g = &CategoryGroup{Key: key, Actual: decimal.Zero, RowActualEcho: decimal.Zero}
			groups[key] = g
		}
		g.Actual = g.Actual.Add(actual)
		g.RowActualEcho = g.RowActualEcho.Add(actual)
		g.Rows++
	}

	rows, err := ds.WithColumn(RemainingColumn, echo)
	if err != nil {
		return nil, err
	}
	if len(m.Category) > 0 {
		if rows, err = rows.WithColumn(CompositeColumn, keys); err != nil {
			return nil, err
		}
	}

	summary := Summarize(budget, totalActual, m.HasActual())
	sorted := make([]CategoryGroup, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, *g)
	}
	slices.SortFunc(sorted, func(x, y CategoryGroup) int { return strings.Compare(x.Key, y.Key) })

	a.logger.Info("dataset aggregated",
		"rows", ds.Len(),
		"groups", len(sorted),
		"total_budget", summary.TotalBudget.String(),
		"total_actual", summary.TotalActual.String())

	return &Result{Summary: summary, Groups: sorted, Rows: rows}, nil
}

// Summarize derives the remaining amount and percentages from the totals.
// A zero budget yields zero percentages.
func Summarize(budget, actual decimal.Decimal, hasActual bool) SummaryMetrics {
	if !hasActual {
		actual = decimal.Zero
	}
	s := SummaryMetrics{
		TotalBudget:        budget,
		TotalActual:        actual,
		AggregateRemaining: budget.Sub(actual),
		PercentAbsorbed:    decimal.Zero,
		PercentRemaining:   decimal.Zero,
		HasActual:          hasActual,
	}
	if budget.IsZero() {
		return s
	}
	if hasActual {
		s.PercentAbsorbed = actual.Mul(hundred).Div(budget)
	}
	s.PercentRemaining = s.AggregateRemaining.Mul(hundred).Div(budget)
	return s
}

// Key builds the composite category key of row i. Missing components read
// as Unspecified; a row with no category at all is Unspecified.
func Key(ds *models.Dataset, i int, columns []string) string {
	parts := make([]string, 0, len(columns))
	present := false
	for _, c := range columns {
		v := ds.Value(i, c)
		if v.IsMissing() {
			parts = append(parts, Unspecified)
			continue
		}
		present = true
		parts = append(parts, v.Text())
	}
	if !present {
		return Unspecified
	}
	return strings.Join(parts, models.Separator)
}
