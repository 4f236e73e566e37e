package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
)

// imbalanceFee is the share of the trade fee charged on the part of a
// liquidity change that moves the pool away from balance: fee * n / (4 * (n - 1))
func imbalanceFee(fee fixed.Permill, n int) (fixed.Permill, error) {
	if err := fee.Validate(); err != nil {
		return 0, err
	}
	if n < 2 {
		return 0, ErrInvalidAssetCount
	}
	return fixed.Permill(uint64(fee) * uint64(n) / uint64(4*(n-1))), nil
}

func checkIssuance(shares, issuance *uint256.Int) error {
	if err := safemath.CheckBalance(shares, issuance); err != nil {
		return err
	}
	if issuance.IsZero() {
		return ErrZeroIssuance
	}
	if shares.IsZero() {
		return ErrInsufficientInput
	}
	if shares.Gt(issuance) {
		return ErrInsufficientShares
	}
	return nil
}

// CalculateShares returns the shares minted for moving the pool from initial to updated reserves.
// Every updated reserve must be at least its initial value. The part of the deposit that
// skews the pool is charged the imbalance fee before the invariant growth is measured.
// The first deposit (issuance zero) mints the invariant itself. A deposit whose fee
// outweighs the invariant growth fails with ErrInsufficientInput.
func (c *Curve) CalculateShares(initial, updated []AssetReserve, amp uint64, issuance *uint256.Int, fee fixed.Permill) (*uint256.Int, error) {
	if len(initial) != len(updated) {
		return nil, ErrReserveSetMismatch
	}
	if err := checkReserves(initial); err != nil {
		return nil, err
	}
	if err := checkReserves(updated); err != nil {
		return nil, err
	}
	if err := safemath.CheckBalance(issuance); err != nil {
		return nil, err
	}
	for k := range initial {
		if initial[k].Decimals != updated[k].Decimals {
			return nil, ErrDecimalsMismatch
		}
		if updated[k].Amount.Lt(initial[k].Amount) {
			return nil, ErrReserveDecreased
		}
	}

	newXp, _, err := normalizeReserves(updated)
	if err != nil {
		return nil, err
	}
	D1, err := c.SolveD(newXp, amp)
	if err != nil {
		return nil, err
	}
	if issuance.IsZero() {
		return safemath.ToBalance(D1)
	}

	oldXp, _, err := normalizeReserves(initial)
	if err != nil {
		return nil, err
	}
	D0, err := c.SolveD(oldXp, amp)
	if err != nil {
		return nil, err
	}
	if D0.IsZero() {
		return nil, ErrZeroInvariant
	}
	if D1.Lt(D0) {
		return nil, ErrReserveDecreased
	}

	_fee, err := imbalanceFee(fee, len(initial))
	if err != nil {
		return nil, err
	}
	var o safemath.Calc
	adjusted := make([]*uint256.Int, len(newXp))
	for k := range newXp {
		idealBalance := o.MulDiv(D1, oldXp[k], D0)
		difference := safemath.AbsDiff(idealBalance, newXp[k])
		feeAmount, err := _fee.MulCeil(difference)
		if err != nil {
			return nil, err
		}
		adjusted[k] = o.Sub(newXp[k], feeAmount)
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	D2, err := c.SolveD(adjusted, amp)
	if err != nil {
		return nil, err
	}
	if D2.Lt(D0) {
		return nil, ErrInsufficientInput
	}
	mint := o.MulDiv(issuance, o.Sub(D2, D0), D0)
	if err := o.Err(); err != nil {
		return nil, err
	}
	return safemath.ToBalance(mint)
}

// CalculateWithdrawOneAsset returns the amount of asset idx paid out for burning shares and the fee withheld.
// The fee is the difference between the withdrawal without and with the imbalance fee applied.
func (c *Curve) CalculateWithdrawOneAsset(reserves []AssetReserve, shares *uint256.Int, idx int, issuance *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, nil, err
	}
	if err := checkIssuance(shares, issuance); err != nil {
		return nil, nil, err
	}
	if idx < 0 || idx >= len(reserves) {
		return nil, nil, ErrInvalidIndex
	}
	_fee, err := imbalanceFee(fee, len(reserves))
	if err != nil {
		return nil, nil, err
	}

	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, nil, err
	}
	D0, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, nil, err
	}

	var o safemath.Calc
	D1 := o.Sub(D0, o.MulDiv(shares, D0, issuance))
	if err := o.Err(); err != nil {
		return nil, nil, err
	}
	newY, err := c.SolveY(xp, idx, D1, amp)
	if err != nil {
		return nil, nil, err
	}

	xpReduced := make([]*uint256.Int, len(xp))
	for k := range xp {
		var dxExpected *uint256.Int
		if k == idx {
			dxExpected = o.Sub(o.MulDiv(xp[k], D1, D0), newY)
		} else {
			dxExpected = o.Sub(xp[k], o.MulDiv(xp[k], D1, D0))
		}
		if err := o.Err(); err != nil {
			return nil, nil, err
		}
		feeAmount, err := _fee.MulFloor(dxExpected)
		if err != nil {
			return nil, nil, err
		}
		xpReduced[k] = o.Sub(xp[k], feeAmount)
	}
	if err := o.Err(); err != nil {
		return nil, nil, err
	}
	yD, err := c.SolveY(xpReduced, idx, D1, amp)
	if err != nil {
		return nil, nil, err
	}

	dy := o.Sub(xpReduced[idx], yD)
	dy0 := o.Sub(xp[idx], newY) // w/o fees
	feeAmount := o.Sub(dy0, safemath.Min(dy, dy0))
	if err := o.Err(); err != nil {
		return nil, nil, err
	}

	decimals := reserves[idx].Decimals
	amountOut, err := normalizeValue(safemath.Min(dy, dy0), target, decimals, safemath.RoundDown)
	if err != nil {
		return nil, nil, err
	}
	feeOut, err := normalizeValue(feeAmount, target, decimals, safemath.RoundDown)
	if err != nil {
		return nil, nil, err
	}
	return amountOut, feeOut, nil
}

// CalculateAddOneAsset returns the amount of asset idx that must be deposited to mint exactly shares
// and the fee included in it.
func (c *Curve) CalculateAddOneAsset(reserves []AssetReserve, shares *uint256.Int, idx int, issuance *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, nil, err
	}
	if err := safemath.CheckBalance(shares, issuance); err != nil {
		return nil, nil, err
	}
	if issuance.IsZero() {
		return nil, nil, ErrZeroIssuance
	}
	if shares.IsZero() {
		return nil, nil, ErrInsufficientInput
	}
	if idx < 0 || idx >= len(reserves) {
		return nil, nil, ErrInvalidIndex
	}
	_fee, err := imbalanceFee(fee, len(reserves))
	if err != nil {
		return nil, nil, err
	}

	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, nil, err
	}
	D0, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, nil, err
	}

	var o safemath.Calc
	D1 := o.Add(D0, o.MulDiv(shares, D0, issuance))
	if err := o.Err(); err != nil {
		return nil, nil, err
	}
	newY, err := c.SolveY(xp, idx, D1, amp)
	if err != nil {
		return nil, nil, err
	}

	xpReduced := make([]*uint256.Int, len(xp))
	for k := range xp {
		var dxExpected *uint256.Int
		if k == idx {
			dxExpected = o.Sub(newY, o.MulDiv(xp[k], D1, D0))
		} else {
			dxExpected = o.Sub(o.MulDiv(xp[k], D1, D0), xp[k])
		}
		if err := o.Err(); err != nil {
			return nil, nil, err
		}
		feeAmount, err := _fee.MulFloor(dxExpected)
		if err != nil {
			return nil, nil, err
		}
		xpReduced[k] = o.Sub(xp[k], feeAmount)
	}
	if err := o.Err(); err != nil {
		return nil, nil, err
	}
	yD, err := c.SolveY(xpReduced, idx, D1, amp)
	if err != nil {
		return nil, nil, err
	}

	dy := o.Sub(yD, xpReduced[idx])
	dy0 := o.Sub(newY, xp[idx]) // w/o fees
	feeAmount := o.Sub(safemath.Max(dy, dy0), dy0)
	if err := o.Err(); err != nil {
		return nil, nil, err
	}

	decimals := reserves[idx].Decimals
	amountIn, err := normalizeValue(safemath.Max(dy, dy0), target, decimals, safemath.RoundUp)
	if err != nil {
		return nil, nil, err
	}
	feeIn, err := normalizeValue(feeAmount, target, decimals, safemath.RoundUp)
	if err != nil {
		return nil, nil, err
	}
	if err := safemath.CheckBalance(amountIn); err != nil {
		return nil, nil, err
	}
	return amountIn, feeIn, nil
}

// CalculateSharesForAmounts returns the shares that must be burnt to withdraw exactly amounts.
// The imbalance fee is charged and the result is rounded against the caller.
func (c *Curve) CalculateSharesForAmounts(reserves []AssetReserve, amounts []*uint256.Int, amp uint64, issuance *uint256.Int, fee fixed.Permill) (*uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, err
	}
	if len(amounts) != len(reserves) {
		return nil, ErrReserveSetMismatch
	}
	if err := safemath.CheckBalance(issuance); err != nil {
		return nil, err
	}
	if issuance.IsZero() {
		return nil, ErrZeroIssuance
	}
	if err := safemath.CheckBalance(amounts...); err != nil {
		return nil, err
	}
	_fee, err := imbalanceFee(fee, len(reserves))
	if err != nil {
		return nil, err
	}

	updated := CloneReserves(reserves)
	for k := range amounts {
		if !amounts[k].Lt(reserves[k].Amount) {
			return nil, ErrInsufficientReserve
		}
		updated[k].Amount.Sub(reserves[k].Amount, amounts[k])
	}

	oldXp, _, err := normalizeReserves(reserves)
	if err != nil {
		return nil, err
	}
	newXp, _, err := normalizeReserves(updated)
	if err != nil {
		return nil, err
	}
	D0, err := c.SolveD(oldXp, amp)
	if err != nil {
		return nil, err
	}
	if D0.IsZero() {
		return nil, ErrZeroInvariant
	}
	D1, err := c.SolveD(newXp, amp)
	if err != nil {
		return nil, err
	}

	var o safemath.Calc
	adjusted := make([]*uint256.Int, len(newXp))
	for k := range newXp {
		idealBalance := o.MulDiv(D1, oldXp[k], D0)
		difference := safemath.AbsDiff(idealBalance, newXp[k])
		feeAmount, err := _fee.MulCeil(difference)
		if err != nil {
			return nil, err
		}
		adjusted[k] = o.Sub(newXp[k], feeAmount)
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	D2, err := c.SolveD(adjusted, amp)
	if err != nil {
		return nil, err
	}
	if D2.Gt(D0) {
		return nil, ErrInsufficientInput
	}

	// In case of rounding errors - make it unfavorable for the "attacker"
	burn := o.AddC(o.MulDiv(o.Sub(D0, D2), issuance, D0), 1)
	if err := o.Err(); err != nil {
		return nil, err
	}
	if burn.Gt(issuance) {
		return nil, ErrInsufficientShares
	}
	return burn, nil
}

// CalculateSharesForAmount returns the shares that must be burnt to withdraw exactly amount of asset idx
func (c *Curve) CalculateSharesForAmount(reserves []AssetReserve, idx int, amount *uint256.Int, amp uint64, issuance *uint256.Int, fee fixed.Permill) (*uint256.Int, error) {
	if idx < 0 || idx >= len(reserves) {
		return nil, ErrInvalidIndex
	}
	if err := safemath.CheckBalance(amount); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrInsufficientInput
	}
	amounts := make([]*uint256.Int, len(reserves))
	for k := range amounts {
		amounts[k] = safemath.Zero()
	}
	amounts[idx] = amount
	return c.CalculateSharesForAmounts(reserves, amounts, amp, issuance, fee)
}

// CalculateWithdrawProportional returns the balanced withdrawal of every asset for burning shares.
// No fee is charged.
func CalculateWithdrawProportional(reserves []AssetReserve, shares, issuance *uint256.Int) ([]*uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, err
	}
	if err := checkIssuance(shares, issuance); err != nil {
		return nil, err
	}
	amounts := make([]*uint256.Int, len(reserves))
	for k := range reserves {
		value, err := safemath.MulDiv(reserves[k].Amount, shares, issuance)
		if err != nil {
			return nil, err
		}
		amounts[k] = value
	}
	return amounts, nil
}

// CalculateShares uses the default iteration bounds
func CalculateShares(initial, updated []AssetReserve, amp uint64, issuance *uint256.Int, fee fixed.Permill) (*uint256.Int, error) {
	return DefaultCurve.CalculateShares(initial, updated, amp, issuance, fee)
}

// CalculateWithdrawOneAsset uses the default iteration bounds
func CalculateWithdrawOneAsset(reserves []AssetReserve, shares *uint256.Int, idx int, issuance *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	return DefaultCurve.CalculateWithdrawOneAsset(reserves, shares, idx, issuance, amp, fee)
}

// CalculateAddOneAsset uses the default iteration bounds
func CalculateAddOneAsset(reserves []AssetReserve, shares *uint256.Int, idx int, issuance *uint256.Int, amp uint64, fee fixed.Permill) (*uint256.Int, *uint256.Int, error) {
	return DefaultCurve.CalculateAddOneAsset(reserves, shares, idx, issuance, amp, fee)
}

// CalculateSharesForAmount uses the default iteration bounds
func CalculateSharesForAmount(reserves []AssetReserve, idx int, amount *uint256.Int, amp uint64, issuance *uint256.Int, fee fixed.Permill) (*uint256.Int, error) {
	return DefaultCurve.CalculateSharesForAmount(reserves, idx, amount, amp, issuance, fee)
}
