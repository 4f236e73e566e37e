package fixed

import (
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/pkg/errors"
)

// FractionalMax represent the max value of under the float point
const FractionalMax = 1000000000000000000

// FractionalCount represent the number of under the float point
const FractionalCount = 18

// errors
var (
	ErrInvalidFixedFormat = errors.New("Fixed: INVALID_FORMAT")
)

var accuracy = uint256.NewInt(FractionalMax)

// FixedU128 is an unsigned fixed point number with 18 fractional digits.
// The inner value is bounded to 128 bits like a balance.
type FixedU128 struct {
	inner uint256.Int
}

// Zero returns 0
func Zero() FixedU128 {
	return FixedU128{}
}

// One returns 1
func One() FixedU128 {
	return FixedU128{inner: *uint256.NewInt(FractionalMax)}
}

// FromInner wraps a raw inner value (value * 10^18)
func FromInner(inner *uint256.Int) (FixedU128, error) {
	if !safemath.IsBalance(inner) {
		return FixedU128{}, safemath.ErrOverflow
	}
	return FixedU128{inner: *inner}, nil
}

// MustFromInner wraps a raw inner value (value * 10^18)
func MustFromInner(inner uint64) FixedU128 {
	return FixedU128{inner: *uint256.NewInt(inner)}
}

// FromInt returns the fixed point value of an integer
func FromInt(v *uint256.Int) (FixedU128, error) {
	inner, err := safemath.Mul(v, accuracy)
	if err != nil {
		return FixedU128{}, err
	}
	return FromInner(inner)
}

// FromUint64 returns the fixed point value of an integer
func FromUint64(v uint64) FixedU128 {
	var f FixedU128
	f.inner.Mul(uint256.NewInt(v), accuracy)
	return f
}

// FromRational returns n / d rounded down
func FromRational(n, d *uint256.Int) (FixedU128, error) {
	inner, err := safemath.MulDiv(n, accuracy, d)
	if err != nil {
		return FixedU128{}, err
	}
	return FromInner(inner)
}

// FromPercent returns p / 100
func FromPercent(p uint64) FixedU128 {
	var f FixedU128
	f.inner.Mul(uint256.NewInt(p), uint256.NewInt(FractionalMax/100))
	return f
}

// Inner returns a copy of the raw inner value
func (f FixedU128) Inner() *uint256.Int {
	return new(uint256.Int).Set(&f.inner)
}

// IsZero returns f == 0
func (f FixedU128) IsZero() bool {
	return f.inner.IsZero()
}

// IsOne returns f == 1
func (f FixedU128) IsOne() bool {
	return f.inner.Eq(accuracy)
}

// Cmp compares two values like big.Int.Cmp
func (f FixedU128) Cmp(b FixedU128) int {
	return f.inner.Cmp(&b.inner)
}

// Less returns f < b
func (f FixedU128) Less(b FixedU128) bool {
	return f.inner.Lt(&b.inner)
}

// Equal checks that two values is same or not
func (f FixedU128) Equal(b FixedU128) bool {
	return f.inner.Eq(&b.inner)
}

// CheckedAdd returns f + b
func (f FixedU128) CheckedAdd(b FixedU128) (FixedU128, error) {
	inner, err := safemath.Add(&f.inner, &b.inner)
	if err != nil {
		return FixedU128{}, err
	}
	return FromInner(inner)
}

// CheckedSub returns f - b
func (f FixedU128) CheckedSub(b FixedU128) (FixedU128, error) {
	inner, err := safemath.Sub(&f.inner, &b.inner)
	if err != nil {
		return FixedU128{}, err
	}
	return FixedU128{inner: *inner}, nil
}

// CheckedMul returns f * b rounded down
func (f FixedU128) CheckedMul(b FixedU128) (FixedU128, error) {
	inner, err := safemath.MulDiv(&f.inner, &b.inner, accuracy)
	if err != nil {
		return FixedU128{}, err
	}
	return FromInner(inner)
}

// CheckedDiv returns f / b rounded down
func (f FixedU128) CheckedDiv(b FixedU128) (FixedU128, error) {
	inner, err := safemath.MulDiv(&f.inner, accuracy, &b.inner)
	if err != nil {
		return FixedU128{}, err
	}
	return FromInner(inner)
}

// CheckedMulInt returns floor(f * v) as a balance
func (f FixedU128) CheckedMulInt(v *uint256.Int) (*uint256.Int, error) {
	r, err := safemath.MulDiv(&f.inner, v, accuracy)
	if err != nil {
		return nil, err
	}
	return safemath.ToBalance(r)
}

// SaturatingSub returns f - b or zero
func (f FixedU128) SaturatingSub(b FixedU128) FixedU128 {
	if f.inner.Lt(&b.inner) {
		return FixedU128{}
	}
	var r FixedU128
	r.inner.Sub(&f.inner, &b.inner)
	return r
}

// String returns the float string of the value
func (f FixedU128) String() string {
	if f.IsZero() {
		return "0"
	}
	str := f.inner.Dec()
	if len(str) <= FractionalCount {
		return "0." + formatFractional(str)
	}
	si := str[:len(str)-FractionalCount]
	sf := strings.TrimRight(str[len(str)-FractionalCount:], "0")
	if len(sf) > 0 {
		return si + "." + sf
	}
	return si
}

// MarshalText is a marshaler function
func (f FixedU128) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText is a unmarshaler function
func (f *FixedU128) UnmarshalText(bs []byte) error {
	v, err := ParseFixed(string(bs))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFixed parse the value from the float string
func ParseFixed(str string) (FixedU128, error) {
	ls := strings.SplitN(strings.TrimSpace(str), ".", 2)
	pi, err := uint256.FromDecimal(ls[0])
	if err != nil {
		return FixedU128{}, ErrInvalidFixedFormat
	}
	result, err := FromInt(pi)
	if err != nil {
		return FixedU128{}, err
	}
	if len(ls) == 1 {
		return result, nil
	}
	if len(ls[1]) == 0 || len(ls[1]) > FractionalCount {
		return FixedU128{}, ErrInvalidFixedFormat
	}
	pf, err := strconv.ParseUint(padFractional(ls[1]), 10, 64)
	if err != nil {
		return FixedU128{}, ErrInvalidFixedFormat
	}
	return result.CheckedAdd(MustFromInner(pf))
}

// MustParseFixed parse the value from the float string
func MustParseFixed(str string) FixedU128 {
	f, err := ParseFixed(str)
	if err != nil {
		panic(err)
	}
	return f
}
