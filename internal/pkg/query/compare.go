package query

import (
	"math/big"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
)

// compare orders two column values. It returns false when the values
// cannot be compared (different kinds, unsupported types).
func compare(a, b interface{}) (int, bool) {
	if ra, ok := toRat(a); ok {
		rb, ok := toRat(b)
		if !ok {
			return 0, false
		}
		return ra.Cmp(rb), true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

// toRat normalizes numeric values to *big.Rat.
func toRat(v interface{}) (*big.Rat, bool) {
	switch n := v.(type) {
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(n) == nil {
			return nil, false
		}
		return r, true
	case *big.Rat:
		if n == nil {
			return nil, false
		}
		return n, true
	case big.Rat:
		return &n, true
	case spanner.NullNumeric:
		if !n.Valid {
			return nil, false
		}
		return &n.Numeric, true
	}
	return nil, false
}
