package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Slashed dates are day-first.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Excel serial range: 1900-01-01 to 9999-12-31.
const (
	minSerial = 1
	maxSerial = 2958465
)

// ParseSerial converts an Excel serial day number into a date.
func ParseSerial(serial float64) (time.Time, error) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, fmt.Errorf("serial %v out of range", serial)
	}
	return excelize.ExcelDateToTime(serial, false)
}

// ParseDate parses text dates. Plain numbers are read as Excel serials.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return ParseSerial(n)
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
