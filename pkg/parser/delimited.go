package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yurifrl/budgetu/pkg/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (p *Parser) readCSV(data []byte) ([][]models.Value, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter(data)
	r.FieldsPerRecord = -1 // short rows are padded later
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}
	p.logger.Debug("parsing csv", "delimiter", string(r.Comma), "total_records", len(records))

	grid := make([][]models.Value, len(records))
	for i, rec := range records {
		values := make([]models.Value, len(rec))
		for c, raw := range rec {
			values[c] = models.StringValue(strings.TrimSpace(raw))
		}
		grid[i] = values
	}
	return grid, nil
}

// delimiter picks ';' when the header line has more semicolons than commas.
func delimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
