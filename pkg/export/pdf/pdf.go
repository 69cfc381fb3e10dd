package pdf

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/signintech/gopdf"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "GoRegular"
	fontBold    = "GoBold"
)

// A4 layout in points.
const (
	pageWidth    = 595.0
	pageHeight   = 842.0
	margin       = 40.0
	tableWidth   = pageWidth - 2*margin
	rowHeight    = 16.0
	chartSize    = 200.0
	summaryLineH = 18.0
)

type Exporter struct {
	logger *log.Logger
	locale format.Locale
}

func New(logger *log.Logger, locale format.Locale) *Exporter {
	return &Exporter{
		logger: logger,
		locale: locale,
	}
}

// Export renders the model as an A4 document. On failure no bytes are returned.
func (e *Exporter) Export(m *report.Model) ([]byte, error) {
	data, err := e.export(m)
	if err != nil {
		e.logger.Error("document export failed", "error", err)
		return nil, &models.ExportError{Artifact: "pdf", Err: err}
	}
	e.logger.Debug("document exported", "rows", m.Rows.Len(), "bytes", len(data))
	return data, nil
}

func (e *Exporter) export(m *report.Model) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("loading bold font: %w", err)
	}

	pdf.AddPage()
	y, err := e.header(&pdf, m)
	if err != nil {
		return nil, err
	}
	if y, err = e.chart(&pdf, m, y); err != nil {
		return nil, err
	}
	if err := e.table(&pdf, m, y); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	return buf.Bytes(), nil
}

// header writes the title and the summary lines and returns the next free y.
func (e *Exporter) header(pdf *gopdf.GoPdf, m *report.Model) (float64, error) {
	pdf.SetTextColor(0, 0, 0)
	if err := pdf.SetFont(fontBold, "", 18); err != nil {
		return 0, err
	}
	pdf.SetXY(margin, margin)
	if err := pdf.Cell(nil, sanitize(m.Title)); err != nil {
		return 0, err
	}

	if err := pdf.SetFont(fontRegular, "", 9); err != nil {
		return 0, err
	}
	pdf.SetTextColor(99, 110, 114)
	pdf.SetXY(margin, margin+24)
	if err := pdf.Cell(nil, "Dibuat "+m.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return 0, err
	}

	pdf.SetTextColor(0, 0, 0)
	y := margin + 48
	for _, line := range m.SummaryLines() {
		value := e.locale.Currency(line.Value)
		if line.Percent {
			value = e.locale.Percent(line.Value)
		}
		if err := pdf.SetFont(fontBold, "", 11); err != nil {
			return 0, err
		}
		pdf.SetXY(margin, y)
		if err := pdf.Cell(nil, line.Label); err != nil {
			return 0, err
		}
		if err := pdf.SetFont(fontRegular, "", 11); err != nil {
			return 0, err
		}
		pdf.SetXY(margin+160, y)
		if err := pdf.Cell(nil, ": "+value); err != nil {
			return 0, err
		}
		y += summaryLineH
	}
	return y + 10, nil
}

// chart embeds the overall pie. It is left out when nothing is positive.
func (e *Exporter) chart(pdf *gopdf.GoPdf, m *report.Model, y float64) (float64, error) {
	spec, ok := m.Chart(report.OverallPie)
	if !ok || !spec.Positive() {
		e.logger.Debug("no positive values, skipping chart image")
		return y, nil
	}

	png, err := renderPie(spec, e.locale)
	if err != nil {
		return 0, fmt.Errorf("rendering chart: %w", err)
	}
	holder, err := gopdf.ImageHolderByBytes(png)
	if err != nil {
		return 0, fmt.Errorf("loading chart image: %w", err)
	}
	if err := pdf.ImageByHolder(holder, (pageWidth-chartSize)/2, y, &gopdf.Rect{W: chartSize, H: chartSize}); err != nil {
		return 0, fmt.Errorf("embedding chart image: %w", err)
	}
	return y + chartSize + 14, nil
}
