package parser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/yurifrl/budgetu/pkg/models"
)

func (p *Parser) readXLSX(data []byte) ([][]models.Value, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.Debug("error closing workbook", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	p.logger.Debug("reading xlsx sheet", "sheet", sheet, "rows", len(rows))

	grid := make([][]models.Value, len(rows))
	for r, row := range rows {
		values := make([]models.Value, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			values[c] = p.xlsxValue(f, sheet, cell, raw)
		}
		grid[r] = values
	}
	return grid, nil
}

// xlsxValue keeps native numeric cells as numbers so dates stored as serials
// and amounts survive without locale guessing.
func (p *Parser) xlsxValue(f *excelize.File, sheet, cell, raw string) models.Value {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		p.logger.Debug("error reading cell type", "cell", cell, "error", err)
		return models.StringValue(raw)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return models.NumberValue(n)
		}
	}
	return models.StringValue(raw)
}
