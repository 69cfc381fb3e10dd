package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
)

func num(v int64) models.Value { return models.DecimalValue(decimal.NewFromInt(v)) }

func model(t *testing.T, rows int) *report.Model {
	t.Helper()
	data := make([]models.Row, rows)
	for i := range data {
		data[i] = models.Row{
			models.DateValue(time.Date(2024, 1, 1+i%28, 0, 0, 0, 0, time.UTC)),
			models.StringValue("Belanja Pegawai – Gaji"),
			num(1000000),
			num(int64(1000 * (i + 1))),
		}
	}
	ds := models.NewDataset([]string{"Tanggal", "Uraian", "Anggaran", "Realisasi"}, data)
	mapping := models.ColumnMapping{Budget: "Anggaran", Actual: "Realisasi", Category: []string{"Uraian"}}

	res, err := aggregate.New(log.Default()).Run(ds, mapping)
	require.NoError(t, err)
	return report.Build(report.Input{Summary: res.Summary, Groups: res.Groups, Rows: res.Rows, Mapping: mapping})
}

func assertPDF(t *testing.T, data []byte) {
	t.Helper()
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(data)), "%%EOF"), "missing PDF trailer")
}

func TestExport(t *testing.T) {
	data, err := New(log.Default(), format.Indonesian).Export(model(t, 3))
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestExportManyPages(t *testing.T) {
	data, err := New(log.Default(), format.Indonesian).Export(model(t, 120))
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestExportEmptyRows(t *testing.T) {
	m := report.Build(report.Input{
		Rows:    models.NewDataset([]string{"Tanggal", "Anggaran", "Realisasi"}, nil),
		Mapping: models.ColumnMapping{Budget: "Anggaran", Actual: "Realisasi"},
	})

	data, err := New(log.Default(), format.Indonesian).Export(m)
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestRenderPie(t *testing.T) {
	spec, ok := model(t, 2).Chart(report.OverallPie)
	require.True(t, ok)

	png, err := renderPie(spec, format.Indonesian)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	empty := report.ChartSpec{
		ID:         report.OverallPie,
		Categories: []string{"Realisasi", "Sisa"},
		Series:     []report.Series{{Values: []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)}}},
	}
	_, err = renderPie(empty, format.Indonesian)
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, []span{{0, 0}}, paginate(0, 10, 40))
	assert.Equal(t, []span{{0, 7}}, paginate(7, 10, 40))
	assert.Equal(t, []span{{0, 10}}, paginate(10, 10, 40))
	assert.Equal(t, []span{{0, 10}, {10, 50}, {50, 61}}, paginate(61, 10, 40))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 46, capacity(margin))
	assert.Equal(t, 1, capacity(pageBottom))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Belanja ? Gaji", sanitize("Belanja – Gaji"))
	assert.Equal(t, "Kopi  Susu", sanitize("Kopi\t\nSusu"))
	assert.Equal(t, "Café ?", sanitize("Café 日"))
}

func TestFontSize(t *testing.T) {
	assert.Equal(t, 9.0, fontSize(4))
	assert.Equal(t, 7.0, fontSize(8))
	assert.Equal(t, 5.0, fontSize(12))
}
