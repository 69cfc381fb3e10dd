package xlsx

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
)

func num(v int64) models.Value { return models.DecimalValue(decimal.NewFromInt(v)) }

func day(d int) models.Value {
	return models.DateValue(time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC))
}

func model(t *testing.T) *report.Model {
	t.Helper()
	ds := models.NewDataset([]string{"Tanggal", "Kategori", "Anggaran", "Realisasi"}, []models.Row{
		{day(1), models.StringValue("A"), num(1000000), num(200000)},
		{day(2), models.StringValue("A"), num(1000000), num(300000)},
		{day(3), models.StringValue("B"), num(1000000), num(100000)},
	})
	mapping := models.ColumnMapping{Budget: "Anggaran", Actual: "Realisasi", Category: []string{"Kategori"}, Date: "Tanggal"}

	res, err := aggregate.New(log.Default()).Run(ds, mapping)
	require.NoError(t, err)
	return report.Build(report.Input{Summary: res.Summary, Groups: res.Groups, Rows: res.Rows, Mapping: mapping})
}

func exporter(opts Options) *Exporter {
	return New(log.Default(), format.Indonesian, opts)
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportDataSheetRoundTrip(t *testing.T) {
	m := model(t)
	data, err := exporter(Options{}).Export(m)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{DataSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, m.Rows.Len()+1)
	assert.Equal(t, m.Rows.Columns(), rows[0])
	assert.Equal(t, []string{"2024-03-01", "A", "1000000", "200000", "200000", "A"}, rows[1])

	for i := 0; i < m.Rows.Len(); i++ {
		for c, v := range m.Rows.Row(i) {
			assert.Equal(t, v.Text(), rows[i+1][c], "row %d column %d", i, c)
		}
	}
}

func fillColor(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	idx, err := f.GetCellStyle(DataSheet, cell)
	require.NoError(t, err)
	if idx == 0 {
		return ""
	}
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	if len(style.Fill.Color) == 0 {
		return ""
	}
	return style.Fill.Color[0]
}

func TestExportHighlights(t *testing.T) {
	data, err := exporter(Options{TopN: 2}).Export(model(t))
	require.NoError(t, err)
	f := open(t, data)

	// Realisasi is column D, Sisa is column E.
	assert.Contains(t, fillColor(t, f, "D2"), "C6EFCE")
	assert.Contains(t, fillColor(t, f, "D3"), "C6EFCE")
	assert.Empty(t, fillColor(t, f, "D4"))

	assert.Contains(t, fillColor(t, f, "E2"), "FFC7CE")
	assert.Contains(t, fillColor(t, f, "E3"), "FFC7CE")
	assert.Empty(t, fillColor(t, f, "E4"))
}

func TestExportSummarySheet(t *testing.T) {
	data, err := exporter(Options{}).Export(model(t))
	require.NoError(t, err)
	f := open(t, data)

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, report.DefaultTitle, rows[0][0])
	assert.Equal(t, []string{"Total Anggaran", "Rp 1.000.000"}, rows[2])
	assert.Equal(t, []string{"Total Sisa", "Rp 400.000"}, rows[4])
	assert.Equal(t, []string{"Persentase Serapan", "60,00%"}, rows[5])
	assert.Equal(t, []string{"Kategori", "Realisasi", "Sisa"}, rows[8])
	assert.Equal(t, []string{"A", "500000", "500000"}, rows[9])
	assert.Equal(t, []string{"B", "100000", "100000"}, rows[10])
}

func zipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, file := range r.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	return ""
}

func TestExportChartsReferenceWrittenRows(t *testing.T) {
	data, err := exporter(Options{}).Export(model(t))
	require.NoError(t, err)

	bar := zipEntry(t, data, "xl/charts/chart1.xml")
	require.NotEmpty(t, bar)
	assert.Contains(t, bar, "barChart")
	assert.Contains(t, bar, "Ringkasan!$A$10:$A$11")
	assert.Contains(t, bar, "Ringkasan!$B$10:$B$11")
	assert.Contains(t, bar, "Ringkasan!$C$10:$C$11")

	pie := zipEntry(t, data, "xl/charts/chart2.xml")
	require.NotEmpty(t, pie)
	assert.Contains(t, pie, "pieChart")
	assert.Contains(t, pie, "Ringkasan!$C$10:$C$11")
	assert.Contains(t, pie, `<showPercent val="1">`)

	drawing := zipEntry(t, data, "xl/drawings/drawing1.xml")
	assert.Contains(t, drawing, "<xdr:col>7</xdr:col>")
}

func TestExportEmptyModelSkipsCharts(t *testing.T) {
	m := report.Build(report.Input{Rows: models.NewDataset([]string{"Anggaran"}, nil)})

	data, err := exporter(Options{}).Export(m)
	require.NoError(t, err)
	assert.Empty(t, zipEntry(t, data, "xl/charts/chart1.xml"))

	rows, err := open(t, data).GetRows(DataSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Anggaran"}}, rows)
}

func TestExportInvalidAnchor(t *testing.T) {
	data, err := exporter(Options{BarAnchor: "not-a-cell"}).Export(model(t))
	assert.Nil(t, data)
	assert.ErrorIs(t, err, models.ErrExportFailure)
}

func TestTopN(t *testing.T) {
	ds := models.NewDataset([]string{"v"}, []models.Row{
		{num(5)}, {models.MissingValue()}, {num(9)}, {num(5)}, {num(1)}, {num(5)},
	})

	assert.Equal(t, []int{2, 0, 3}, TopN(ds, "v", 3))
	assert.Equal(t, []int{2, 0, 3, 5, 4}, TopN(ds, "v", 10))
	assert.Empty(t, TopN(ds, "missing", 3))
}
