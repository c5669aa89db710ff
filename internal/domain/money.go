package domain

import (
	"fmt"
	"strings"
)

// Money is a currency amount in cents. All billing arithmetic in this
// application is integer arithmetic on cents — binary floating point never
// touches the money path, so repeated edits can never accumulate rounding
// drift.
//
// Money marshals to JSON as a plain two-decimal number ("22.50") and accepts
// either a number or a string on input.
type Money int64

// Kilometers is a distance in hundredths of a kilometre, with the same
// fixed-point JSON encoding as Money. 10.25 km is Kilometers(1025).
type Kilometers int64

// ComputeCost returns the two-decimal cost of driving distance at rate per
// kilometre, rounded half-up at the third decimal.
//
// The product of hundredth-kilometres and cents is in units of 1/10000 of a
// currency unit; adding 50 before the integer division by 100 applies the
// half-up rounding. Both inputs are validated non-negative by callers.
func ComputeCost(distance Kilometers, rate Money) Money {
	product := int64(distance) * int64(rate)
	return Money((product + 50) / 100)
}

func (m Money) String() string { return formatFixed2(int64(m)) }

func (m Money) Negative() bool { return m < 0 }

func (k Kilometers) String() string { return formatFixed2(int64(k)) }

func (k Kilometers) Negative() bool { return k < 0 }

// MarshalJSON encodes the amount as a raw JSON number with exactly two
// decimal places.
func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalJSON accepts a JSON number or string with at most two decimal
// places. Exponent notation and extra precision are rejected rather than
// silently rounded — the client is expected to send exact amounts.
func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := parseFixed2(unquote(b))
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(v)
	return nil
}

func (k Kilometers) MarshalJSON() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kilometers) UnmarshalJSON(b []byte) error {
	v, err := parseFixed2(unquote(b))
	if err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	*k = Kilometers(v)
	return nil
}

// ParseMoney parses a two-decimal string ("22.50") into cents.
func ParseMoney(s string) (Money, error) {
	v, err := parseFixed2(s)
	if err != nil {
		return 0, fmt.Errorf("money: %w", err)
	}
	return Money(v), nil
}

// ParseKilometers parses a two-decimal string ("10.25") into hundredths of a km.
func ParseKilometers(s string) (Kilometers, error) {
	v, err := parseFixed2(s)
	if err != nil {
		return 0, fmt.Errorf("distance: %w", err)
	}
	return Kilometers(v), nil
}

// unquote strips surrounding double quotes so "12.34" and 12.34 parse alike.
func unquote(b []byte) string {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// parseFixed2 parses a decimal string into hundredths without going through
// float64. Accepts an optional sign, an integer part, and at most two
// fractional digits.
func parseFixed2(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("malformed decimal %q", s)
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("at most two decimal places allowed, got %q", s)
	}
	// 16 integer digits scaled to hundredths stays well inside int64;
	// anything longer would silently wrap.
	if len(strings.TrimLeft(intPart, "0")) > 16 {
		return 0, fmt.Errorf("value out of range %q", s)
	}

	var v int64
	for _, c := range intPart {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed decimal %q", s)
		}
		v = v*10 + int64(c-'0')
	}
	v *= 100

	scale := int64(10)
	for _, c := range fracPart {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed decimal %q", s)
		}
		v += int64(c-'0') * scale
		scale /= 10
	}

	if neg {
		v = -v
	}
	return v, nil
}

// formatFixed2 renders hundredths as a plain decimal with two places.
func formatFixed2(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
