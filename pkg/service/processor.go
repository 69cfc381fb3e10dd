package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/export/pdf"
	"github.com/yurifrl/budgetu/pkg/export/xlsx"
	"github.com/yurifrl/budgetu/pkg/filter"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/models"
	"github.com/yurifrl/budgetu/pkg/normalize"
	"github.com/yurifrl/budgetu/pkg/parser"
	"github.com/yurifrl/budgetu/pkg/report"
	"golang.org/x/sync/errgroup"
)

// Config carries the settings every request shares.
type Config struct {
	Title      string
	Separators normalize.Separators
	Locale     format.Locale
	Export     xlsx.Options
}

// Request describes one report.
type Request struct {
	Name    string
	Mapping models.ColumnMapping
	Range   models.DateRange
	// AutoRange bounds an empty range by the earliest and latest date.
	AutoRange bool
}

// Result holds the model and both artifacts. An artifact that failed has
// nil bytes and its own error; the other one is unaffected.
type Result struct {
	Name          string
	Model         *report.Model
	ParseFailures int
	XLSX          []byte
	XLSXErr       error
	PDF           []byte
	PDFErr        error
}

// Err returns the first export error, if any.
func (r *Result) Err() error {
	if r.XLSXErr != nil {
		return r.XLSXErr
	}
	return r.PDFErr
}

type Processor struct {
	config Config
	logger *log.Logger
	parser *parser.Parser
}

func NewProcessor(config Config, logger *log.Logger) *Processor {
	if config.Locale == (format.Locale{}) {
		config.Locale = format.Indonesian
	}
	return &Processor{
		config: config,
		logger: logger,
		parser: parser.New(logger),
	}
}

// ProcessFile reads a dataset from disk and runs Process on it.
func (p *Processor) ProcessFile(ctx context.Context, path string, req Request) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if req.Name == "" {
		req.Name = BaseName(path)
	}
	return p.Process(ctx, data, filepath.Base(path), req)
}

// BuildFile reads a dataset from disk and builds its model without exporting.
func (p *Processor) BuildFile(ctx context.Context, path string, req Request) (*report.Model, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading file: %w", err)
	}
	ds, err := p.parser.ProcessBytes(data, filepath.Base(path))
	if err != nil {
		return nil, 0, err
	}
	return p.Build(ctx, ds, req)
}

// Inspect decodes a file without any mapping.
func (p *Processor) Inspect(path string) (*models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return p.parser.ProcessBytes(data, filepath.Base(path))
}

// Locale returns the report locale in use.
func (p *Processor) Locale() format.Locale { return p.config.Locale }

// Process decodes the file, builds the report model and exports both artifacts.
func (p *Processor) Process(ctx context.Context, data []byte, filename string, req Request) (*Result, error) {
	ds, err := p.parser.ProcessBytes(data, filename)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		req.Name = BaseName(filename)
	}

	model, failures, err := p.Build(ctx, ds, req)
	if err != nil {
		return nil, err
	}

	res := p.Export(ctx, model)
	res.Name = req.Name
	res.ParseFailures = failures
	return res, nil
}

// Build runs the transform chain: validate, normalize, filter, aggregate and
// package. Structural errors stop it before any export.
func (p *Processor) Build(ctx context.Context, ds *models.Dataset, req Request) (*report.Model, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := req.Mapping.Validate(ds); err != nil {
		return nil, 0, err
	}

	n := normalize.New(p.logger, p.config.Separators)
	normalized, err := n.Apply(ds, req.Mapping)
	if err != nil {
		return nil, n.Failures(), err
	}
	if n.Failures() > 0 {
		p.logger.Warn("some cells could not be parsed and were left empty", "count", n.Failures())
	}

	rng := req.Range
	if req.AutoRange && !rng.Active() && req.Mapping.HasDate() {
		if bounds, ok := filter.Bounds(normalized, req.Mapping.Date); ok {
			rng = bounds
			p.logger.Info("using dataset date range",
				"start", rng.Start.Format(time.DateOnly),
				"end", rng.End.Format(time.DateOnly))
		}
	}
	filtered := filter.New(p.logger).Apply(normalized, req.Mapping.Date, rng)

	res, err := aggregate.New(p.logger).Run(filtered, req.Mapping)
	if err != nil {
		return nil, n.Failures(), err
	}

	model := report.Build(report.Input{
		Title:       p.config.Title,
		GeneratedAt: time.Now(),
		Summary:     res.Summary,
		Groups:      res.Groups,
		Rows:        res.Rows,
		Mapping:     req.Mapping,
	})
	return model, n.Failures(), nil
}

// Export renders both artifacts concurrently. Each exporter owns its
// buffer and its error.
func (p *Processor) Export(ctx context.Context, m *report.Model) *Result {
	res := &Result{Model: m}

	var g errgroup.Group
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			res.XLSXErr = err
			return nil
		}
		res.XLSX, res.XLSXErr = xlsx.New(p.logger, p.config.Locale, p.config.Export).Export(m)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			res.PDFErr = err
			return nil
		}
		res.PDF, res.PDFErr = pdf.New(p.logger, p.config.Locale).Export(m)
		return nil
	})
	_ = g.Wait()

	p.logger.Info("report exported",
		"xlsx_bytes", len(res.XLSX),
		"pdf_bytes", len(res.PDF),
		"xlsx_ok", res.XLSXErr == nil,
		"pdf_ok", res.PDFErr == nil)
	return res
}

// BaseName strips directory and extension from a file name.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
