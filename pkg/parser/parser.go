package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/models"
)

type FileType string

const (
	XLSX FileType = "xlsx"
	XLS  FileType = "xls"
	CSV  FileType = "csv"
)

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ProcessBytes decodes the first sheet of a spreadsheet-like file into a Dataset.
// The format is picked from the file extension.
func (p *Parser) ProcessBytes(data []byte, filename string) (*models.Dataset, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	var (
		grid [][]models.Value
		err  error
	)
	switch fileType {
	case XLSX:
		grid, err = p.readXLSX(data)
	case XLS:
		grid, err = p.readXLS(data)
	case CSV:
		grid, err = p.readCSV(data)
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, fmt.Errorf("unknown file type %q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	ds, err := build(grid)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	p.logger.Info("dataset loaded", "filename", filename, "columns", len(ds.Columns()), "rows", ds.Len())
	return ds, nil
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return XLSX
	case ".xls":
		return XLS
	case ".csv", ".txt":
		return CSV
	}
	return ""
}
