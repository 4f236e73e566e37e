package fixed

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/pkg/errors"
)

// PermillMax is 100%
const PermillMax = 1000000

// PerquintillMax is 100%
const PerquintillMax = 1000000000000000000

// errors
var (
	ErrFractionOutOfRange = errors.New("Fixed: FRACTION_OUT_OF_RANGE")
)

// Permill is a fraction in parts per million, at most 100%
type Permill uint32

// PermillFromPercent returns p%
func PermillFromPercent(p uint32) Permill {
	if p >= 100 {
		return PermillMax
	}
	return Permill(p * 10000)
}

// PermillFromRational returns n / d rounded down, capped at 100%
func PermillFromRational(n, d uint64) (Permill, error) {
	if d == 0 {
		return 0, safemath.ErrDivisionByZero
	}
	v, err := safemath.MulDiv(uint256.NewInt(n), uint256.NewInt(PermillMax), uint256.NewInt(d))
	if err != nil {
		return 0, err
	}
	if v.GtUint64(PermillMax) {
		return PermillMax, nil
	}
	return Permill(v.Uint64()), nil
}

func (p Permill) Validate() error {
	if p > PermillMax {
		return ErrFractionOutOfRange
	}
	return nil
}

func (p Permill) IsZero() bool {
	return p == 0
}

// MulFloor returns floor(v * p)
func (p Permill) MulFloor(v *uint256.Int) (*uint256.Int, error) {
	return safemath.MulDiv(v, uint256.NewInt(uint64(p)), uint256.NewInt(PermillMax))
}

// MulCeil returns ceil(v * p)
func (p Permill) MulCeil(v *uint256.Int) (*uint256.Int, error) {
	n, err := safemath.Mul(v, uint256.NewInt(uint64(p)))
	if err != nil {
		return nil, err
	}
	return safemath.DivCeil(n, uint256.NewInt(PermillMax))
}

// Perquintill is a fraction in parts per 10^18, at most 100%
type Perquintill uint64

// PerquintillFromPercent returns p%
func PerquintillFromPercent(p uint64) Perquintill {
	if p >= 100 {
		return PerquintillMax
	}
	return Perquintill(p * (PerquintillMax / 100))
}

// PerquintillFromRational returns n / d rounded down, capped at 100%
func PerquintillFromRational(n, d uint64) (Perquintill, error) {
	if d == 0 {
		return 0, safemath.ErrDivisionByZero
	}
	v, err := safemath.MulDiv(uint256.NewInt(n), uint256.NewInt(PerquintillMax), uint256.NewInt(d))
	if err != nil {
		return 0, err
	}
	if v.GtUint64(PerquintillMax) {
		return PerquintillMax, nil
	}
	return Perquintill(v.Uint64()), nil
}

func (p Perquintill) Validate() error {
	if p > PerquintillMax {
		return ErrFractionOutOfRange
	}
	return nil
}

// MulFloor returns floor(v * p)
func (p Perquintill) MulFloor(v *uint256.Int) (*uint256.Int, error) {
	return safemath.MulDiv(v, uint256.NewInt(uint64(p)), uint256.NewInt(PerquintillMax))
}
