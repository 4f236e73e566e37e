package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
)

func checkTrade(reserves []AssetReserve, in, out int, amount *uint256.Int) error {
	if err := checkReserves(reserves); err != nil {
		return err
	}
	N := len(reserves)
	if in < 0 || in >= N || out < 0 || out >= N {
		return ErrInvalidIndex
	}
	if in == out {
		return ErrSameAsset
	}
	if err := safemath.CheckBalance(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return ErrInsufficientInput
	}
	return nil
}

// CalculateOutGivenIn returns the amount of asset out received for selling amountIn of asset in.
// One unit is withheld to absorb rounding of the solver.
func (c *Curve) CalculateOutGivenIn(reserves []AssetReserve, in, out int, amountIn *uint256.Int, amp uint64) (*uint256.Int, error) {
	if err := checkTrade(reserves, in, out, amountIn); err != nil {
		return nil, err
	}
	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, err
	}
	D, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, err
	}

	dx, err := normalizeValue(amountIn, reserves[in].Decimals, target, safemath.RoundDown)
	if err != nil {
		return nil, err
	}
	newXp := safemath.CloneSlice(xp)
	if newXp[in], err = safemath.Add(xp[in], dx); err != nil {
		return nil, err
	}
	y, err := c.SolveY(newXp, out, D, amp)
	if err != nil {
		return nil, err
	}
	if y.Gt(xp[out]) {
		return nil, ErrInsufficientReserve
	}
	dy, err := normalizeValue(new(uint256.Int).Sub(xp[out], y), target, reserves[out].Decimals, safemath.RoundDown)
	if err != nil {
		return nil, err
	}
	if dy.IsZero() {
		return dy, nil
	}
	// -1 just in case there were some rounding errors
	return dy.SubUint64(dy, 1), nil
}

// CalculateInGivenOut returns the amount of asset in that must be sold to receive amountOut of asset out.
// The result is rounded against the trader.
func (c *Curve) CalculateInGivenOut(reserves []AssetReserve, in, out int, amountOut *uint256.Int, amp uint64) (*uint256.Int, error) {
	if err := checkTrade(reserves, in, out, amountOut); err != nil {
		return nil, err
	}
	if !amountOut.Lt(reserves[out].Amount) {
		return nil, ErrInsufficientReserve
	}
	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, err
	}
	D, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, err
	}

	dy, err := normalizeValue(amountOut, reserves[out].Decimals, target, safemath.RoundUp)
	if err != nil {
		return nil, err
	}
	newXp := safemath.CloneSlice(xp)
	if newXp[out], err = safemath.Sub(xp[out], dy); err != nil {
		return nil, ErrInsufficientReserve
	}
	y, err := c.SolveY(newXp, in, D, amp)
	if err != nil {
		return nil, err
	}
	if y.Lt(xp[in]) {
		return nil, ErrInsufficientReserve
	}
	dx, err := normalizeValue(new(uint256.Int).Sub(y, xp[in]), target, reserves[in].Decimals, safemath.RoundUp)
	if err != nil {
		return nil, err
	}
	dx, err = safemath.Add(dx, safemath.New(1))
	if err != nil {
		return nil, err
	}
	return safemath.ToBalance(dx)
}

// CalculateOutGivenInWithFee returns the amount received after the trade fee and the fee itself.
// The fee is taken from the output in the asset's native precision.
func (c *Curve) CalculateOutGivenInWithFee(reserves []AssetReserve, in, out int, amountIn *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	if err := fee.Validate(); err != nil {
		return nil, nil, err
	}
	amountOut, err := c.CalculateOutGivenIn(reserves, in, out, amountIn, amp)
	if err != nil {
		return nil, nil, err
	}
	feeAmount, err := fee.MulFloor(amountOut)
	if err != nil {
		return nil, nil, err
	}
	return new(uint256.Int).Sub(amountOut, feeAmount), feeAmount, nil
}

// CalculateInGivenOutWithFee returns the amount to sell including the trade fee and the fee itself.
// The fee inflates the required input and is rounded up.
func (c *Curve) CalculateInGivenOutWithFee(reserves []AssetReserve, in, out int, amountOut *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	if err := fee.Validate(); err != nil {
		return nil, nil, err
	}
	amountIn, err := c.CalculateInGivenOut(reserves, in, out, amountOut, amp)
	if err != nil {
		return nil, nil, err
	}
	feeAmount, err := fee.MulCeil(amountIn)
	if err != nil {
		return nil, nil, err
	}
	total, err := safemath.Add(amountIn, feeAmount)
	if err != nil {
		return nil, nil, err
	}
	if _, err := safemath.ToBalance(total); err != nil {
		return nil, nil, err
	}
	return total, feeAmount, nil
}

// CalculateOutGivenIn uses the default iteration bounds
func CalculateOutGivenIn(reserves []AssetReserve, in, out int, amountIn *uint256.Int, amp uint64) (*uint256.Int, error) {
	return DefaultCurve.CalculateOutGivenIn(reserves, in, out, amountIn, amp)
}

// CalculateInGivenOut uses the default iteration bounds
func CalculateInGivenOut(reserves []AssetReserve, in, out int, amountOut *uint256.Int, amp uint64) (*uint256.Int, error) {
	return DefaultCurve.CalculateInGivenOut(reserves, in, out, amountOut, amp)
}

// CalculateOutGivenInWithFee uses the default iteration bounds
func CalculateOutGivenInWithFee(reserves []AssetReserve, in, out int, amountIn *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	return DefaultCurve.CalculateOutGivenInWithFee(reserves, in, out, amountIn, amp, fee)
}

// CalculateInGivenOutWithFee uses the default iteration bounds
func CalculateInGivenOutWithFee(reserves []AssetReserve, in, out int, amountOut *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	return DefaultCurve.CalculateInGivenOutWithFee(reserves, in, out, amountOut, amp, fee)
}
