package pdf

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/report"
)

// Rendered at twice the embedded size so the image stays sharp.
const chartPixels = int(chartSize * 2)

// renderPie draws the first series of spec as a PNG pie. Slices that are
// not positive are dropped.
func renderPie(spec report.ChartSpec, locale format.Locale) ([]byte, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("chart %s has no series", spec.ID)
	}

	total := decimal.Zero
	for _, v := range spec.Series[0].Values {
		if v.IsPositive() {
			total = total.Add(v)
		}
	}

	var values []chart.Value
	for i, v := range spec.Series[0].Values {
		if !v.IsPositive() || i >= len(spec.Categories) {
			continue
		}
		share := v.Mul(decimal.NewFromInt(100)).Div(total)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", spec.Categories[i], locale.Percent(share)),
			Value: v.InexactFloat64(),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(report.SliceColor(i)),
				StrokeColor: drawing.ColorWhite,
				FontColor:   drawing.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("chart %s has no positive values", spec.ID)
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  chartPixels,
		Height: chartPixels,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
