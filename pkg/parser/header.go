package parser

import (
	"fmt"
	"strings"

	"github.com/yurifrl/budgetu/pkg/models"
)

// build turns a decoded grid into a Dataset. The first non-empty row is the
// header; blank rows after it are dropped.
func build(grid [][]models.Value) (*models.Dataset, error) {
	start := -1
	for i, row := range grid {
		if !blank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("no header row found")
	}

	columns := headers(grid[start])
	rows := make([]models.Row, 0, len(grid)-start-1)
	for _, r := range grid[start+1:] {
		if blank(r) {
			continue
		}
		if len(r) > len(columns) {
			r = r[:len(columns)]
		}
		rows = append(rows, models.Row(r))
	}
	return models.NewDataset(columns, rows), nil
}

// headers names every header cell. Blank cells become "Unnamed: N" and
// repeated names get ".1", ".2" suffixes.
func headers(row []models.Value) []string {
	// Trailing blank header cells carry no column.
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1].Text()) == "" {
		n--
	}

	names := make([]string, n)
	taken := make(map[string]bool, n)
	suffix := make(map[string]int)
	for i := 0; i < n; i++ {
		name := strings.TrimSpace(row[i].Text())
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[name] {
			base, k := name, suffix[name]
			for {
				k++
				name = fmt.Sprintf("%s.%d", base, k)
				if !taken[name] {
					break
				}
			}
			suffix[base] = k
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func blank(row []models.Value) bool {
	for _, v := range row {
		if v.IsMissing() {
			continue
		}
		if v.Kind() == models.String && strings.TrimSpace(v.Str()) == "" {
			continue
		}
		return false
	}
	return true
}
