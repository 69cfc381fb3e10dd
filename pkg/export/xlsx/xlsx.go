package xlsx

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/report"
)

// Sheet names.
const (
	DataSheet    = "Data"
	SummarySheet = "Ringkasan"
)

const dateFormat = "yyyy-mm-dd"

// Options tunes highlights and chart placement. Zero fields take defaults.
type Options struct {
	TopN               int    `mapstructure:"top_n"`
	HighlightActual    string `mapstructure:"highlight_actual"`
	HighlightRemaining string `mapstructure:"highlight_remaining"`
	BarAnchor          string `mapstructure:"bar_anchor"`
	PieAnchor          string `mapstructure:"pie_anchor"`
}

// DefaultOptions highlights the top 5 rows and anchors the charts at H2 and H20.
var DefaultOptions = Options{
	TopN:               5,
	HighlightActual:    "C6EFCE",
	HighlightRemaining: "FFC7CE",
	BarAnchor:          "H2",
	PieAnchor:          "H20",
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultOptions.TopN
	}
	if o.HighlightActual == "" {
		o.HighlightActual = DefaultOptions.HighlightActual
	}
	if o.HighlightRemaining == "" {
		o.HighlightRemaining = DefaultOptions.HighlightRemaining
	}
	if o.BarAnchor == "" {
		o.BarAnchor = DefaultOptions.BarAnchor
	}
	if o.PieAnchor == "" {
		o.PieAnchor = DefaultOptions.PieAnchor
	}
	return o
}

type Exporter struct {
	logger *log.Logger
	locale format.Locale
	opts   Options
}

func New(logger *log.Logger, locale format.Locale, opts Options) *Exporter {
	return &Exporter{
		logger: logger,
		locale: locale,
		opts:   opts.withDefaults(),
	}
}

// Export renders the model as a workbook. On failure no bytes are returned.
func (e *Exporter) Export(m *report.Model) ([]byte, error) {
	data, err := e.export(m)
	if err != nil {
		e.logger.Error("spreadsheet export failed", "error", err)
		return nil, &models.ExportError{Artifact: "xlsx", Err: err}
	}
	e.logger.Debug("spreadsheet exported", "rows", m.Rows.Len(), "bytes", len(data))
	return data, nil
}

func (e *Exporter) export(m *report.Model) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Debug("error closing workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return nil, err
	}
	if err := e.writeData(f, m); err != nil {
		return nil, fmt.Errorf("writing %s sheet: %w", DataSheet, err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	table, err := e.writeSummary(f, m)
	if err != nil {
		return nil, fmt.Errorf("writing %s sheet: %w", SummarySheet, err)
	}

	if err := e.addCharts(f, m, table); err != nil {
		return nil, fmt.Errorf("adding charts: %w", err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
