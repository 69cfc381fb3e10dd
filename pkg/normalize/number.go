package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Separators fixes the thousands and decimal separators. Empty fields are
// detected per value.
type Separators struct {
	Thousands string `mapstructure:"thousands"`
	Decimal   string `mapstructure:"decimal"`
}

func (s Separators) resolve() (thousands, dec rune, ok bool) {
	t, d := first(s.Thousands), first(s.Decimal)
	switch {
	case t == 0 && d == 0:
		return 0, 0, false
	case d == 0:
		d = other(t)
	case t == 0:
		t = other(d)
	}
	return t, d, true
}

func first(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func other(r rune) rune {
	if r == ',' {
		return '.'
	}
	return ','
}

// ParseNumber parses a formatted amount such as "Rp 1.250.000,50", "1,250.5",
// "(3.000)", "12%" or "1.5e3". Currency text may only lead or trail the
// digits; anything else between them makes the cell unparseable.
func ParseNumber(raw string, seps Separators) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	// "750.000,-" marks a whole amount.
	s = strings.TrimSuffix(strings.TrimSuffix(s, ",-"), ".-")

	firstDigit := strings.IndexFunc(s, isDigit)
	if firstDigit < 0 {
		return decimal.Zero, fmt.Errorf("no digits")
	}
	lastDigit := strings.LastIndexFunc(s, isDigit)
	prefix, body, suffix := s[:firstDigit], s[firstDigit:lastDigit+1], s[lastDigit+1:]

	negative, err := parsePrefix(prefix)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkSuffix(suffix); err != nil {
		return decimal.Zero, err
	}
	if strings.Contains(prefix, "(") != strings.Contains(suffix, ")") {
		return decimal.Zero, fmt.Errorf("unbalanced parentheses")
	}
	if strings.Contains(prefix, "(") {
		negative = true
	}

	var n decimal.Decimal
	if exponent.MatchString(body) {
		if n, err = decimal.NewFromString(strings.Replace(body, ",", ".", 1)); err != nil {
			return decimal.Zero, err
		}
	} else {
		clean, err := grouped(body)
		if err != nil {
			return decimal.Zero, err
		}
		// ".5" and ",5" carry their separator in the prefix.
		if lead := strings.TrimLeft(strings.TrimSpace(prefix), "-−+("); lead == "." || lead == "," {
			clean = "0" + lead + clean
		}

		t, d, ok := seps.resolve()
		if !ok {
			t, d = detect(clean)
		}
		out, err := canonical(clean, t, d)
		if err != nil {
			return decimal.Zero, err
		}
		if n, err = decimal.NewFromString(out); err != nil {
			return decimal.Zero, err
		}
	}

	if negative {
		n = n.Neg()
	}
	return n, nil
}

var exponent = regexp.MustCompile(`^[0-9]+([.,][0-9]+)?[eE][+-]?[0-9]+$`)

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// parsePrefix accepts a sign, an opening parenthesis and currency text
// ("Rp", "Rp.", "IDR", "R$", "$"). A lone letter only counts as currency
// when a symbol follows it.
func parsePrefix(prefix string) (negative bool, err error) {
	runes := []rune(prefix)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '-' || r == '−':
			negative = true
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			if j-i == 1 && (j == len(runes) || !unicode.IsSymbol(runes[j])) {
				return false, fmt.Errorf("unexpected %q before digits", r)
			}
			i = j - 1
		case unicode.IsSpace(r), unicode.IsSymbol(r), r == '+', r == '(', r == '.', r == ',':
		default:
			return false, fmt.Errorf("unexpected %q before digits", r)
		}
	}
	return negative, nil
}

func checkSuffix(suffix string) error {
	for _, r := range suffix {
		switch {
		case unicode.IsSpace(r), unicode.IsLetter(r), unicode.IsSymbol(r), r == '%', r == ')', r == '.', r == ',':
		default:
			return fmt.Errorf("unexpected %q after digits", r)
		}
	}
	return nil
}

// grouped strips digit grouping (spaces and apostrophes) from the digits.
// A group after a space or apostrophe must hold exactly three digits.
func grouped(body string) (string, error) {
	var b strings.Builder
	group := -1
	for _, r := range body {
		switch {
		case isDigit(r):
			if group >= 0 {
				group++
			}
			b.WriteRune(r)
		case r == '.' || r == ',':
			if group >= 0 && group != 3 {
				return "", fmt.Errorf("malformed digit group")
			}
			group = -1
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '\'':
			if group >= 0 && group != 3 {
				return "", fmt.Errorf("malformed digit group")
			}
			group = 0
		default:
			return "", fmt.Errorf("unexpected %q between digits", r)
		}
	}
	if group >= 0 && group != 3 {
		return "", fmt.Errorf("malformed digit group")
	}
	return b.String(), nil
}

// detect resolves separators the way people write amounts: with both present
// the last one is the decimal separator; a lone separator repeated, or
// followed by exactly three digits, groups thousands.
func detect(s string) (thousands, dec rune) {
	lastDot, lastComma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			return ',', '.'
		}
		return '.', ','
	case lastDot < 0 && lastComma < 0:
		return ',', '.'
	}

	sep, pos := '.', lastDot
	if lastComma >= 0 {
		sep, pos = ',', lastComma
	}
	if strings.Count(s, string(sep)) > 1 {
		return sep, other(sep)
	}
	intPart, frac := s[:pos], s[pos+1:]
	if len(frac) == 3 && strings.Trim(intPart, "0") != "" {
		return sep, other(sep)
	}
	return other(sep), sep
}

func canonical(s string, thousands, dec rune) (string, error) {
	if strings.Count(s, string(dec)) > 1 {
		return "", fmt.Errorf("more than one decimal separator %q", dec)
	}
	s = strings.ReplaceAll(s, string(thousands), "")
	s = strings.Replace(s, string(dec), ".", 1)
	if strings.ContainsRune(s, ',') {
		return "", fmt.Errorf("unexpected separator ','")
	}
	return s, nil
}
