package normalize

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/budgetu/pkg/models"
)

// Normalizer coerces raw cells into decimals, dates and category text.
// Cells that cannot be coerced become missing and are counted. A Normalizer
// is meant for one request and is not safe for concurrent use.
type Normalizer struct {
	logger   *log.Logger
	seps     Separators
	failures int
}

func New(logger *log.Logger, seps Separators) *Normalizer {
	return &Normalizer{
		logger: logger,
		seps:   seps,
	}
}

// Failures returns how many cells could not be coerced so far.
func (n *Normalizer) Failures() int { return n.failures }

// Apply normalizes every column the mapping names.
func (n *Normalizer) Apply(ds *models.Dataset, m models.ColumnMapping) (*models.Dataset, error) {
	out, err := n.Numeric(ds, m.Budget)
	if err != nil {
		return nil, err
	}
	if m.HasActual() {
		if out, err = n.Numeric(out, m.Actual); err != nil {
			return nil, err
		}
	}
	if m.HasDate() {
		if out, err = n.Date(out, m.Date); err != nil {
			return nil, err
		}
	}
	if out, err = n.Categories(out, textColumns(m)); err != nil {
		return nil, err
	}
	n.logger.Debug("dataset normalized", "rows", out.Len(), "parse_failures", n.failures)
	return out, nil
}

// textColumns lists the category columns not already parsed as budget,
// actual or date. Those keep their typed values and read as text in keys.
func textColumns(m models.ColumnMapping) []string {
	out := make([]string, 0, len(m.Category))
	for _, c := range m.Category {
		if c == m.Budget || (m.HasActual() && c == m.Actual) || (m.HasDate() && c == m.Date) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Numeric returns a copy of ds with column parsed into decimals.
func (n *Normalizer) Numeric(ds *models.Dataset, column string) (*models.Dataset, error) {
	row := -1
	return ds.MapColumn(column, func(v models.Value) models.Value {
		row++
		switch v.Kind() {
		case models.Missing, models.Decimal:
			return v
		case models.Number:
			d, _ := v.Decimal()
			return models.DecimalValue(d)
		case models.String:
			d, err := ParseNumber(v.Str(), n.seps)
			if err != nil {
				n.fail(column, row, v.Str(), "number", err)
				return models.MissingValue()
			}
			return models.DecimalValue(d)
		default:
			n.fail(column, row, v.Text(), "number", nil)
			return models.MissingValue()
		}
	})
}

// Date returns a copy of ds with column parsed into dates.
func (n *Normalizer) Date(ds *models.Dataset, column string) (*models.Dataset, error) {
	row := -1
	return ds.MapColumn(column, func(v models.Value) models.Value {
		row++
		switch v.Kind() {
		case models.Missing, models.Date:
			return v
		case models.Number, models.Decimal:
			d, _ := v.Decimal()
			serial, _ := d.Float64()
			t, err := ParseSerial(serial)
			if err != nil {
				n.fail(column, row, v.Text(), "date", err)
				return models.MissingValue()
			}
			return models.DateValue(t)
		default:
			t, err := ParseDate(v.Str())
			if err != nil {
				n.fail(column, row, v.Str(), "date", err)
				return models.MissingValue()
			}
			return models.DateValue(t)
		}
	})
}

// Categories returns a copy of ds with every category column as trimmed text.
func (n *Normalizer) Categories(ds *models.Dataset, columns []string) (*models.Dataset, error) {
	out := ds
	for _, column := range columns {
		var err error
		out, err = out.MapColumn(column, func(v models.Value) models.Value {
			if v.IsMissing() {
				return v
			}
			return models.StringValue(strings.TrimSpace(v.Text()))
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (n *Normalizer) fail(column string, row int, raw, as string, cause error) {
	n.failures++
	n.logger.Debug("cell coerced to missing",
		"error", &models.ParseError{Column: column, Row: row, Raw: raw, As: as},
		"cause", cause)
}
