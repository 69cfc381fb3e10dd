package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/models"
)

// DefaultTitle heads both artifacts.
const DefaultTitle = "Laporan Anggaran"

// Labels shared by both artifacts.
const (
	LabelBudget           = "Total Anggaran"
	LabelActual           = "Total Realisasi"
	LabelRemaining        = "Total Sisa"
	LabelPercentAbsorbed  = "Persentase Serapan"
	LabelPercentRemaining = "Persentase Sisa"
	LabelCategory         = "Kategori"
	SeriesActual          = "Realisasi"
	SeriesRemaining       = aggregate.RemainingColumn
)

// Input is everything the builder packages.
type Input struct {
	Title       string
	GeneratedAt time.Time
	Summary     aggregate.SummaryMetrics
	Groups      []aggregate.CategoryGroup
	Rows        *models.Dataset
	Mapping     models.ColumnMapping
}

// Model is the single, read-only input of every exporter. Values stay
// numeric; exporters format them.
type Model struct {
	Title       string
	GeneratedAt time.Time
	Summary     aggregate.SummaryMetrics
	Groups      []aggregate.CategoryGroup
	Rows        *models.Dataset
	Mapping     models.ColumnMapping
	Charts      []ChartSpec
}

// Build packages the aggregation output into a Model.
func Build(in Input) *Model {
	title := in.Title
	if title == "" {
		title = DefaultTitle
	}
	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	rows := in.Rows
	if rows == nil {
		rows = models.NewDataset(nil, nil)
	}

	groups := make([]aggregate.CategoryGroup, len(in.Groups))
	copy(groups, in.Groups)

	mapping := in.Mapping
	mapping.Category = append([]string(nil), in.Mapping.Category...)

	return &Model{
		Title:       title,
		GeneratedAt: generated,
		Summary:     in.Summary,
		Groups:      groups,
		Rows:        rows,
		Mapping:     mapping,
		Charts:      charts(in.Summary, groups),
	}
}

// Chart returns the chart with the given id.
func (m *Model) Chart(id ChartID) (ChartSpec, bool) {
	for _, c := range m.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// SummaryLine is one labeled figure of the summary block.
type SummaryLine struct {
	Label   string
	Value   decimal.Decimal
	Percent bool
}

// SummaryLines lists the summary block in display order, using the rounded
// metrics.
func (m *Model) SummaryLines() []SummaryLine {
	s := m.Summary.Rounded()
	return []SummaryLine{
		{Label: LabelBudget, Value: s.TotalBudget},
		{Label: LabelActual, Value: s.TotalActual},
		{Label: LabelRemaining, Value: s.AggregateRemaining},
		{Label: LabelPercentAbsorbed, Value: s.PercentAbsorbed, Percent: true},
		{Label: LabelPercentRemaining, Value: s.PercentRemaining, Percent: true},
	}
}
