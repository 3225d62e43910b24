package domain

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

const (
	// maxFractionDigits matches the scale of a Spanner NUMERIC column.
	maxFractionDigits = 9
	// maxExponent bounds exponents to the range of a float64.
	maxExponent = 308
)

var decimalPattern = regexp.MustCompile(`^([+-]?)(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d+))?$`)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
type Money struct {
	rat *big.Rat
}

// NewMoneyFromRat creates a new Money instance from a big.Rat.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return &Money{rat: big.NewRat(0, 1)}
	}
	return &Money{rat: new(big.Rat).Set(rat)}
}

// ParseMoney parses a finite decimal such as "12", "12.50", ".5", "5." or
// "1e2". Fractions ("1/3"), base prefixes and exponents beyond ±308 are
// rejected.
func ParseMoney(s string) (*Money, error) {
	parts := decimalPattern.FindStringSubmatch(strings.TrimSpace(s))
	if parts == nil {
		return nil, ErrInvalidPrice
	}
	sign, whole, frac, exp := parts[1], parts[2], parts[3], parts[4]
	if whole == "" && frac == "" {
		return nil, ErrInvalidPrice
	}
	if exp != "" {
		n, err := strconv.Atoi(exp)
		if err != nil || n > maxExponent || n < -maxExponent {
			return nil, ErrInvalidPrice
		}
	}

	// big.Rat wants digits on both sides of the point.
	if whole == "" {
		whole = "0"
	}
	normalized := sign + whole
	if frac != "" {
		normalized += "." + frac
	}
	if exp != "" {
		normalized += "e" + exp
	}

	rat, ok := new(big.Rat).SetString(normalized)
	if !ok {
		return nil, ErrInvalidPrice
	}
	return &Money{rat: rat}, nil
}

// Rat returns a copy of the underlying rational value.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.rat)
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// Cmp compares two Money values: -1 if m < other, 0 if equal, +1 if m > other.
func (m *Money) Cmp(other *Money) int {
	return m.rat.Cmp(other.rat)
}

// Equal returns true if two Money values are equal.
func (m *Money) Equal(other *Money) bool {
	return m.Cmp(other) == 0
}

// Copy creates a deep copy of the Money value.
func (m *Money) Copy() *Money {
	return NewMoneyFromRat(m.rat)
}

// FitsStorage reports whether the value has a finite decimal expansion of at
// most nine fractional digits.
func (m *Money) FitsStorage() bool {
	return m.fractionDigits() >= 0
}

// String returns the shortest exact decimal form ("12", "12.5").
// Values that do not fit storage are rounded to nine fractional digits.
func (m *Money) String() string {
	digits := m.fractionDigits()
	if digits < 0 {
		digits = maxFractionDigits
	}
	return m.rat.FloatString(digits)
}

// MarshalJSON encodes the value as a JSON number.
func (m *Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// fractionDigits returns the number of fractional digits needed to represent
// the value exactly, or -1 if more than maxFractionDigits are needed.
func (m *Money) fractionDigits() int {
	scaled := new(big.Rat).Set(m.rat)
	ten := big.NewRat(10, 1)
	for d := 0; d <= maxFractionDigits; d++ {
		if scaled.IsInt() {
			return d
		}
		scaled.Mul(scaled, ten)
	}
	return -1
}
