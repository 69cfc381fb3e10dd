package filter

import (
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/budgetu/pkg/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dataset() *models.Dataset {
	return models.NewDataset([]string{"No", "Tanggal"}, []models.Row{
		{models.StringValue("1"), models.DateValue(day(2024, 1, 10))},
		{models.StringValue("2"), models.MissingValue()},
		{models.StringValue("3"), models.DateValue(time.Date(2024, 1, 31, 17, 30, 0, 0, time.UTC))},
		{models.StringValue("4"), models.DateValue(day(2024, 2, 1))},
	})
}

func numbers(ds *models.Dataset) []string {
	var out []string
	for i := 0; i < ds.Len(); i++ {
		out = append(out, ds.Value(i, "No").Str())
	}
	return out
}

func rangeOf(start, end string) models.DateRange {
	rng, err := models.ParseDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return rng
}

func TestApply(t *testing.T) {
	f := New(log.Default())

	tests := []struct {
		name string
		rng  models.DateRange
		want []string
	}{
		{"no range keeps missing dates", models.DateRange{}, []string{"1", "2", "3", "4"}},
		{"inclusive end covers the whole day", rangeOf("2024-01-10", "2024-01-31"), []string{"1", "3"}},
		{"open end", rangeOf("2024-01-31", ""), []string{"3", "4"}},
		{"open start", rangeOf("", "2024-01-10"), []string{"1"}},
		{"containing range drops only missing dates", rangeOf("2023-01-01", "2025-01-01"), []string{"1", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(f.Apply(dataset(), "Tanggal", tt.rng)))
		})
	}
}

func TestApplyNoMatch(t *testing.T) {
	out := New(log.Default()).Apply(dataset(), "Tanggal", rangeOf("2030-01-01", "2030-12-31"))
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string{"No", "Tanggal"}, out.Columns())
}

func TestApplyWithoutDateColumn(t *testing.T) {
	ds := dataset()
	assert.Same(t, ds, New(log.Default()).Apply(ds, "", rangeOf("2030-01-01", "")))
}

func TestBounds(t *testing.T) {
	rng, ok := Bounds(dataset(), "Tanggal")
	require.True(t, ok)
	assert.True(t, day(2024, 1, 10).Equal(*rng.Start))
	assert.True(t, day(2024, 2, 1).Equal(*rng.End))

	_, ok = Bounds(dataset(), "No")
	assert.False(t, ok)
}

func TestApplyContainingRangeReturnsAllRows(t *testing.T) {
	ds := dataset().Select([]int{0, 2, 3})
	rng, ok := Bounds(ds, "Tanggal")
	require.True(t, ok)

	out := New(log.Default()).Apply(ds, "Tanggal", rng)
	require.Equal(t, ds.Len(), out.Len())
	for i := 0; i < ds.Len(); i++ {
		assert.Equal(t, ds.Row(i), out.Row(i))
	}
}
