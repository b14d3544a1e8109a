package utils

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseQuantity reads the first integer in free text such as "1,234 In Stock".
// Thousands separators inside the number are ignored. It returns false when
// the text has no digits.
func ParseQuantity(s string) (int64, bool) {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			started = true
		case started && (r == ',' || r == '.' || r == ' ' || r == '\u00a0'):
			// separator within the number; a following non-digit ends it
		case started:
			return toInt64(b.String())
		}
	}
	if !started {
		return 0, false
	}
	return toInt64(b.String())
}

func toInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePrice parses a distributor price such as "$0.45", "1,234.50 USD",
// "1.234,50 €" or "0,45 €". When both separators appear, the last one is the
// decimal mark. A separator repeated within the number groups thousands. A
// lone separator followed by exactly three digits groups thousands unless the
// integer part is zero, so "$1,250" is 1250 and "$0.125" stays a fraction.
func ParsePrice(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(normalizeSeparators(clean))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeSeparators rewrites digits with '.' and ',' into a plain decimal literal.
func normalizeSeparators(s string) string {
	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return s
	}
	mark := s[last]
	other := byte(',')
	if mark == ',' {
		other = '.'
	}

	if strings.IndexByte(s, other) >= 0 {
		s = strings.ReplaceAll(s, string(other), "")
		return strings.Replace(s, string(mark), ".", 1)
	}
	if strings.Count(s, string(mark)) > 1 {
		return strings.ReplaceAll(s, string(mark), "")
	}

	integer, fraction := s[:last], s[last+1:]
	if len(fraction) == 3 && strings.Trim(integer, "-0") != "" {
		return integer + fraction
	}
	return integer + "." + fraction
}

// FirstNonEmpty returns the first non-empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
