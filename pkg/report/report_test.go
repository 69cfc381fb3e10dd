package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/models"
)

func input() Input {
	return Input{
		Summary: aggregate.Summarize(decimal.NewFromInt(1000000), decimal.NewFromInt(600000), true),
		Groups: []aggregate.CategoryGroup{
			{Key: "A", Actual: decimal.NewFromInt(500000), RowActualEcho: decimal.NewFromInt(500000), Rows: 2},
			{Key: "B", Actual: decimal.NewFromInt(100000), RowActualEcho: decimal.NewFromInt(100000), Rows: 1},
		},
		Rows:    models.NewDataset([]string{"Anggaran"}, nil),
		Mapping: models.ColumnMapping{Budget: "Anggaran", Actual: "Realisasi", Category: []string{"Kategori"}},
	}
}

func TestBuildDefaults(t *testing.T) {
	m := Build(Input{})
	assert.Equal(t, DefaultTitle, m.Title)
	assert.False(t, m.GeneratedAt.IsZero())
	require.NotNil(t, m.Rows)
	assert.Equal(t, 0, m.Rows.Len())
}

func TestBuildCopiesInput(t *testing.T) {
	in := input()
	in.GeneratedAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	m := Build(in)

	in.Groups[0].Key = "changed"
	in.Mapping.Category[0] = "changed"

	assert.Equal(t, "A", m.Groups[0].Key)
	assert.Equal(t, []string{"Kategori"}, m.Mapping.Category)
	assert.Equal(t, in.GeneratedAt, m.GeneratedAt)
}

func TestBuildCharts(t *testing.T) {
	m := Build(input())
	require.Len(t, m.Charts, 3)

	bar, ok := m.Chart(CategoryBar)
	require.True(t, ok)
	assert.Equal(t, Bar, bar.Kind)
	assert.Equal(t, []string{"A", "B"}, bar.Categories)
	require.Len(t, bar.Series, 2)
	assert.Equal(t, SeriesActual, bar.Series[0].Name)
	assert.Equal(t, "Sisa", bar.Series[1].Name)
	assert.True(t, decimal.NewFromInt(100000).Equal(bar.Series[1].Values[1]))

	pie, ok := m.Chart(CategoryPie)
	require.True(t, ok)
	assert.True(t, pie.ShowPercent)

	overall, ok := m.Chart(OverallPie)
	require.True(t, ok)
	assert.Equal(t, []string{"Realisasi", "Sisa"}, overall.Categories)
	assert.True(t, decimal.NewFromInt(600000).Equal(overall.Series[0].Values[0]))
	assert.True(t, decimal.NewFromInt(400000).Equal(overall.Series[0].Values[1]))
	assert.True(t, overall.Positive())
}

func TestPositive(t *testing.T) {
	m := Build(Input{})
	overall, ok := m.Chart(OverallPie)
	require.True(t, ok)
	assert.False(t, overall.Positive())

	bar, _ := m.Chart(CategoryBar)
	assert.Empty(t, bar.Categories)
}

func TestSummaryLines(t *testing.T) {
	lines := Build(input()).SummaryLines()
	require.Len(t, lines, 5)
	assert.Equal(t, LabelBudget, lines[0].Label)
	assert.True(t, decimal.NewFromInt(400000).Equal(lines[2].Value))
	assert.True(t, lines[3].Percent)
	assert.True(t, decimal.NewFromInt(60).Equal(lines[3].Value))
}
