// Package chips provides exact chip accounting in integer cents.
//
// All monetary amounts in the engine flow through Amount so that pot math,
// side-pot layering and odd-cent distribution never lose precision to
// floating point.
package chips

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a chip quantity in cents. $12.34 is Amount(1234).
type Amount int64

// Cent is the smallest indivisible chip unit.
const Cent Amount = 1

// FromDollars converts a dollar value to cents, rounding half away from
// zero to absorb float noise in values like 10.01.
func FromDollars(d float64) Amount {
	return Amount(math.Round(d * 100))
}

// FromCents wraps a raw cent count.
func FromCents(c int64) Amount {
	return Amount(c)
}

// Dollars returns the amount as a float dollar value. Display only; never
// feed the result back into chip math.
func (a Amount) Dollars() float64 {
	return float64(a) / 100
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// String formats the amount as dollars, e.g. "$12.34" or "-$0.50".
func (a Amount) String() string {
	sign := ""
	v := a
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// Parse reads a dollar string such as "12.34", "$12.34" or "12" into an
// Amount. At most two decimal places are accepted.
func Parse(s string) (Amount, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
		s = strings.TrimPrefix(s, "$")
	}
	if s == "" {
		return 0, fmt.Errorf("parse amount %q: empty", orig)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("parse amount %q: more than two decimal places", orig)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", orig, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", orig, err)
	}

	a := Amount(dollars*100 + cents)
	if neg {
		a = -a
	}
	return a, nil
}

// Min returns the smaller of two amounts.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}
