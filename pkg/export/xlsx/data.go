package xlsx

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
)

func (e *Exporter) writeData(f *excelize.File, m *report.Model) error {
	columns := m.Rows.Columns()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	dateFmt := dateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return err
	}
	if len(columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(columns))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(DataSheet, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(DataSheet, "A", last, 16); err != nil {
			return err
		}
	}

	for r := 0; r < m.Rows.Len(); r++ {
		for c, v := range m.Rows.Row(r) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := writeValue(f, DataSheet, cell, v, dateStyle); err != nil {
				return err
			}
		}
	}

	if m.Mapping.HasActual() {
		if err := e.highlight(f, m.Rows, m.Mapping.Actual, e.opts.HighlightActual); err != nil {
			return err
		}
	}
	return e.highlight(f, m.Rows, aggregate.RemainingColumn, e.opts.HighlightRemaining)
}

func writeValue(f *excelize.File, sheet, cell string, v models.Value, dateStyle int) error {
	switch v.Kind() {
	case models.Missing:
		return nil
	case models.Number, models.Decimal:
		d, _ := v.Decimal()
		return f.SetCellFloat(sheet, cell, d.InexactFloat64(), -1, 64)
	case models.Date:
		if err := f.SetCellValue(sheet, cell, v.Time()); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, dateStyle)
	default:
		return f.SetCellStr(sheet, cell, v.Str())
	}
}

// highlight fills the top-N cells of column. Nothing happens when the
// column is absent.
func (e *Exporter) highlight(f *excelize.File, ds *models.Dataset, column, color string) error {
	idx, ok := ds.ColumnIndex(column)
	if !ok {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#" + color}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	for _, r := range TopN(ds, column, e.opts.TopN) {
		cell, err := excelize.CoordinatesToCellName(idx+1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(DataSheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// TopN returns the indices of the n largest numeric values of column,
// largest first. Ties keep row order and missing values are never picked.
func TopN(ds *models.Dataset, column string, n int) []int {
	type ranked struct {
		row   int
		value decimal.Decimal
	}
	var candidates []ranked
	for i := 0; i < ds.Len(); i++ {
		if d, ok := ds.Value(i, column).Decimal(); ok {
			candidates = append(candidates, ranked{row: i, value: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value.GreaterThan(candidates[j].value)
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.row
	}
	return out
}
