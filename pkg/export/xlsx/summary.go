package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yurifrl/budgetu/pkg/report"
)

// Summary sheet layout: title, the summary lines, then the group table the
// charts read from.
const (
	summaryFirstRow  = 3
	groupHeaderGap   = 1
	groupLabelColumn = "A"
	groupActualCol   = "B"
	groupEchoCol     = "C"
)

// groupTable records where the group table landed.
type groupTable struct {
	headerRow int
	firstRow  int
	lastRow   int
}

func (t groupTable) empty() bool { return t.lastRow < t.firstRow }

func (t groupTable) ref(col string, row int) string {
	return fmt.Sprintf("%s!$%s$%d", SummarySheet, col, row)
}

func (t groupTable) span(col string) string {
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", SummarySheet, col, t.firstRow, col, t.lastRow)
}

func (e *Exporter) writeSummary(f *excelize.File, m *report.Model) (groupTable, error) {
	var table groupTable

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return table, err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return table, err
	}

	if err := f.SetCellStr(SummarySheet, "A1", m.Title); err != nil {
		return table, err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", titleStyle); err != nil {
		return table, err
	}

	row := summaryFirstRow
	for _, line := range m.SummaryLines() {
		text := e.locale.Currency(line.Value)
		if line.Percent {
			text = e.locale.Percent(line.Value)
		}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &[]interface{}{line.Label, text}); err != nil {
			return table, err
		}
		if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle); err != nil {
			return table, err
		}
		row++
	}

	table.headerRow = row + groupHeaderGap
	table.firstRow = table.headerRow + 1
	header := []interface{}{report.LabelCategory, report.SeriesActual, report.SeriesRemaining}
	if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("%s%d", groupLabelColumn, table.headerRow), &header); err != nil {
		return table, err
	}
	if err := f.SetCellStyle(SummarySheet,
		fmt.Sprintf("%s%d", groupLabelColumn, table.headerRow),
		fmt.Sprintf("%s%d", groupEchoCol, table.headerRow), labelStyle); err != nil {
		return table, err
	}

	row = table.firstRow
	for _, g := range m.Groups {
		values := []interface{}{g.Key, g.Actual.InexactFloat64(), g.RowActualEcho.InexactFloat64()}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("%s%d", groupLabelColumn, row), &values); err != nil {
			return table, err
		}
		row++
	}
	table.lastRow = row - 1

	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return table, err
	}
	return table, f.SetColWidth(SummarySheet, "B", "C", 20)
}

func (e *Exporter) addCharts(f *excelize.File, m *report.Model, table groupTable) error {
	if table.empty() {
		e.logger.Debug("no groups, skipping charts")
		return nil
	}

	if spec, ok := m.Chart(report.CategoryBar); ok {
		series := make([]excelize.ChartSeries, 0, len(spec.Series))
		for i, s := range spec.Series {
			col := groupActualCol
			if i > 0 {
				col = groupEchoCol
			}
			series = append(series, excelize.ChartSeries{
				Name:       table.ref(col, table.headerRow),
				Categories: table.span(groupLabelColumn),
				Values:     table.span(col),
				Fill:       excelize.Fill{Type: "pattern", Color: []string{"#" + s.Color}, Pattern: 1},
			})
		}
		if err := f.AddChart(DataSheet, e.opts.BarAnchor, &excelize.Chart{
			Type:      excelize.Col,
			Series:    series,
			Title:     []excelize.RichTextRun{{Text: spec.Title}},
			Legend:    excelize.ChartLegend{Position: "bottom"},
			Dimension: excelize.ChartDimension{Width: 560, Height: 300},
		}); err != nil {
			return err
		}
	}

	if spec, ok := m.Chart(report.CategoryPie); ok {
		if err := f.AddChart(DataSheet, e.opts.PieAnchor, &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       table.ref(groupEchoCol, table.headerRow),
				Categories: table.span(groupLabelColumn),
				Values:     table.span(groupEchoCol),
			}},
			Title:     []excelize.RichTextRun{{Text: spec.Title}},
			Legend:    excelize.ChartLegend{Position: "right"},
			PlotArea:  excelize.ChartPlotArea{ShowPercent: spec.ShowPercent},
			Dimension: excelize.ChartDimension{Width: 560, Height: 300},
		}); err != nil {
			return err
		}
	}
	return nil
}
