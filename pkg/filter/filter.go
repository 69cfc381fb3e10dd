package filter

import (
	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/models"
)

type Filter struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Filter {
	return &Filter{
		logger: logger,
	}
}

// Apply keeps the rows whose date in column falls within rng, in order.
// Rows without a date are dropped only while a bound is set. An empty column
// name disables filtering.
func (f *Filter) Apply(ds *models.Dataset, column string, rng models.DateRange) *models.Dataset {
	if column == "" || !rng.Active() {
		return ds
	}
	if !ds.Has(column) {
		f.logger.Warn("date column not found, skipping filter", "column", column)
		return ds
	}

	keep := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		v := ds.Value(i, column)
		if v.Kind() != models.Date {
			continue
		}
		if rng.Contains(v.Time()) {
			keep = append(keep, i)
		}
	}
	f.logger.Debug("date filter applied", "column", column, "rows_in", ds.Len(), "rows_out", len(keep))
	return ds.Select(keep)
}

// Bounds returns the earliest and latest date of column. It reports false
// when the column holds no dates.
func Bounds(ds *models.Dataset, column string) (models.DateRange, bool) {
	var rng models.DateRange
	values, err := ds.Column(column)
	if err != nil {
		return rng, false
	}
	for _, v := range values {
		if v.Kind() != models.Date {
			continue
		}
		t := v.Time()
		if rng.Start == nil || t.Before(*rng.Start) {
			start := t
			rng.Start = &start
		}
		if rng.End == nil || t.After(*rng.End) {
			end := t
			rng.End = &end
		}
	}
	return rng, rng.Start != nil
}
