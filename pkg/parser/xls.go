package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/yurifrl/budgetu/pkg/models"
)

const maxXLSRows = 100000

func (p *Parser) readXLS(data []byte) ([][]models.Value, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}
	p.logger.Debug("reading xls sheet", "rows", len(rows))

	grid := make([][]models.Value, len(rows))
	for r, row := range rows {
		values := make([]models.Value, len(row))
		for c, raw := range row {
			values[c] = models.StringValue(strings.TrimSpace(raw))
		}
		grid[r] = values
	}
	return grid, nil
}
