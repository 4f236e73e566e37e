package safemath

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Rounding selects the direction of a lossy conversion
type Rounding uint8

// roundings
const (
	RoundDown Rounding = iota
	RoundUp
)

// Scale converts v from one decimal precision to another.
// Raising the precision is exact; lowering it rounds as requested.
func Scale(v *uint256.Int, from, to uint8, rounding Rounding) (*uint256.Int, error) {
	switch {
	case from == to:
		return Clone(v), nil
	case from < to:
		m, err := Pow10(to - from)
		if err != nil {
			return nil, err
		}
		return Mul(v, m)
	default:
		d, err := Pow10(from - to)
		if err != nil {
			return nil, err
		}
		if rounding == RoundUp {
			return DivCeil(v, d)
		}
		return Div(v, d)
	}
}

// ToDecimal renders a balance of the given precision in human units
func ToDecimal(v *uint256.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(v.ToBig(), -int32(decimals))
}

// FromDecimal converts human units into a balance of the given precision, truncating extra digits
func FromDecimal(d decimal.Decimal, decimals uint8) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, ErrUnderflow
	}
	v, err := FromBig(d.Shift(int32(decimals)).Truncate(0).BigInt())
	if err != nil {
		return nil, err
	}
	return ToBalance(v)
}
