package safemath

import (
	"math/big"

	"github.com/holiman/uint256"
)

// BalanceBits is the width of every balance crossing the engine boundary
const BalanceBits = 128

// MaxPow10 is the largest power of ten that fits into 256 bits
const MaxPow10 = 77

var one = uint256.NewInt(1)

// MaxBalance is 2^128 - 1
var MaxBalance = new(uint256.Int).Sub(new(uint256.Int).Lsh(one, BalanceBits), one)

// Zero returns a new zero value
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// New returns a new value holding v
func New(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func Clone(a *uint256.Int) *uint256.Int {
	return new(uint256.Int).Set(a)
}

func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a
	}
	return b
}

func Max(a, b *uint256.Int) *uint256.Int {
	if a.Gt(b) {
		return a
	}
	return b
}

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	r, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return r, nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// DivCeil returns a / b rounded up
func DivCeil(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(a, b, r)
	if !r.IsZero() {
		return Add(q, one)
	}
	return q, nil
}

// MulDiv returns a * b / denominator with a 512-bit intermediate product
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	r, overflow := new(uint256.Int).MulDivOverflow(a, b, denominator)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

// AbsDiff returns |a - b|
func AbsDiff(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Sub(b, a)
	}
	return new(uint256.Int).Sub(a, b)
}

func Sum(a []*uint256.Int) (*uint256.Int, error) {
	result := Zero()
	for i := 0; i < len(a); i++ {
		if _, overflow := result.AddOverflow(result, a[i]); overflow {
			return nil, ErrOverflow
		}
	}
	return result, nil
}

// Pow10 returns 10^a
func Pow10(a uint8) (*uint256.Int, error) {
	if a > MaxPow10 {
		return nil, ErrOverflow
	}
	result := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := uint8(0); i < a; i++ {
		result.Mul(result, ten)
	}
	return result, nil
}

// HasConverged reports whether two consecutive estimates differ by at most precision
func HasConverged(prev, next, precision *uint256.Int) bool {
	return AbsDiff(prev, next).Cmp(precision) <= 0
}

// IsBalance reports whether a fits into a balance
func IsBalance(a *uint256.Int) bool {
	return a.BitLen() <= BalanceBits
}

// ToBalance narrows a 256-bit intermediate back to a balance
func ToBalance(a *uint256.Int) (*uint256.Int, error) {
	if !IsBalance(a) {
		return nil, ErrOverflow
	}
	return a, nil
}

// CheckBalance validates every value is a balance
func CheckBalance(vs ...*uint256.Int) error {
	for _, v := range vs {
		if v == nil {
			return ErrNotBalance
		}
		if !IsBalance(v) {
			return ErrOverflow
		}
	}
	return nil
}

// ParseBalance parses a base-10 balance
func ParseBalance(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, ErrNotBalance
	}
	return ToBalance(v)
}

// MustBalance parses a base-10 balance and panics on a malformed string
func MustBalance(s string) *uint256.Int {
	v, err := ParseBalance(s)
	if err != nil {
		panic(err)
	}
	return v
}


// FromBig converts a non-negative big.Int that fits 256 bits
func FromBig(a *big.Int) (*uint256.Int, error) {
	if a.Sign() < 0 {
		return nil, ErrUnderflow
	}
	r, overflow := uint256.FromBig(a)
	if overflow {
		return nil, ErrOverflow
	}
	return r, nil
}

func CloneSlice(input []*uint256.Int) []*uint256.Int {
	result := make([]*uint256.Int, len(input))
	for i := range input {
		result[i] = Clone(input[i])
	}
	return result
}
