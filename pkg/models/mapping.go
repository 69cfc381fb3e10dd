package models

import (
	"fmt"
	"strings"
	"time"
)

// Separator joins category values into the composite key.
const Separator = " - "

// ColumnMapping designates the role of dataset columns for one report.
type ColumnMapping struct {
	Budget   string   `yaml:"budget" json:"budget"`
	Actual   string   `yaml:"actual" json:"actual,omitempty"`
	Category []string `yaml:"category" json:"category,omitempty"`
	Date     string   `yaml:"date" json:"date,omitempty"`
}

// HasActual reports whether an actual column is mapped.
func (m ColumnMapping) HasActual() bool { return m.Actual != "" }

// HasDate reports whether a date column is mapped.
func (m ColumnMapping) HasDate() bool { return m.Date != "" }

// Validate checks every mapped column against the dataset. It returns the
// first missing column as a *ColumnNotFoundError.
func (m ColumnMapping) Validate(ds *Dataset) error {
	if strings.TrimSpace(m.Budget) == "" {
		return fmt.Errorf("budget column is required")
	}
	if !ds.Has(m.Budget) {
		return &ColumnNotFoundError{Column: m.Budget, Role: "budget"}
	}
	if m.HasActual() && !ds.Has(m.Actual) {
		return &ColumnNotFoundError{Column: m.Actual, Role: "actual"}
	}
	for _, c := range m.Category {
		if !ds.Has(c) {
			return &ColumnNotFoundError{Column: c, Role: "category"}
		}
	}
	if m.HasDate() && !ds.Has(m.Date) {
		return &ColumnNotFoundError{Column: m.Date, Role: "date"}
	}
	return nil
}

// DateRange is an optional inclusive range. A nil bound is open.
type DateRange struct {
	Start *time.Time `yaml:"start,omitempty" json:"start,omitempty"`
	End   *time.Time `yaml:"end,omitempty" json:"end,omitempty"`
}

// Active reports whether at least one bound is set.
func (r DateRange) Active() bool { return r.Start != nil || r.End != nil }

// Contains reports whether t falls within the range. An End without a time
// of day covers that whole day.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil {
		end := *r.End
		if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		if t.After(end) {
			return false
		}
	}
	return true
}

// ParseDateRange parses optional YYYY-MM-DD (or YYYY/MM/DD) bounds.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := parseBound(start)
		if err != nil {
			return r, fmt.Errorf("invalid start date: %w", err)
		}
		r.Start = &t
	}
	if end != "" {
		t, err := parseBound(end)
		if err != nil {
			return r, fmt.Errorf("invalid end date: %w", err)
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return r, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return r, nil
}

func parseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not YYYY-MM-DD", s)
}
