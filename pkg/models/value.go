package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	// Missing marks an empty cell or a value that could not be coerced.
	Missing Kind = iota
	String
	// Number is a native numeric cell as decoded from the source file.
	Number
	// Decimal is a normalized numeric value.
	Decimal
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	default:
		return "missing"
	}
}

// Value is a single cell of a Dataset.
type Value struct {
	kind Kind
	str  string
	num  float64
	dec  decimal.Decimal
	t    time.Time
}

// MissingValue returns the missing marker.
func MissingValue() Value { return Value{} }

// StringValue wraps raw text. Empty text is treated as missing.
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: String, str: s}
}

// NumberValue wraps a native numeric cell.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// DecimalValue wraps a normalized number.
func DecimalValue(d decimal.Decimal) Value { return Value{kind: Decimal, dec: d} }

// DateValue wraps a date. The zero time is treated as missing.
func DateValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: Date, t: t}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == Missing }

// Str returns the raw text of a String value.
func (v Value) Str() string { return v.str }

// Float returns the raw content of a Number value.
func (v Value) Float() float64 { return v.num }

// Time returns the content of a Date value.
func (v Value) Time() time.Time { return v.t }

// Decimal returns the numeric content of the value. Native numbers are
// converted exactly from their shortest representation.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case Decimal:
		return v.dec, true
	case Number:
		return decimal.NewFromFloat(v.num), true
	default:
		return decimal.Zero, false
	}
}

// Text renders the value the way it appears in tables and category keys.
func (v Value) Text() string {
	switch v.kind {
	case String:
		return v.str
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Decimal:
		return v.dec.String()
	case Date:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
