package stableswap

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
)

// CalculateSharePrice returns the marginal price of one share unit in units of asset idx as num / den.
//
// With F(x, D) = Ann*S + D - Ann*D - D**(n+1) / (n**n * prod(x)) the invariant moves by
// dD/dx_i = -F_x / F_D, so one share is worth (D / issuance) / (dD/dx_i) of asset i:
// x_i * (n**n*prod(x) * (Ann*D - D) + (n+1) * D**(n+1)) / (issuance * (Ann*x_i*n**n*prod(x) + D**(n+1)))
//
// The intermediates exceed 256 bits, so the ratio is built on big.Int and shrunk to fit two balances.
func (c *Curve) CalculateSharePrice(reserves []AssetReserve, amp uint64, issuance *uint256.Int, idx int) (*uint256.Int, *uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, nil, err
	}
	N := len(reserves)
	if N < 2 {
		return nil, nil, ErrInvalidAssetCount
	}
	if idx < 0 || idx >= N {
		return nil, nil, ErrInvalidIndex
	}
	if err := safemath.CheckBalance(issuance); err != nil {
		return nil, nil, err
	}
	if issuance.IsZero() {
		return nil, nil, ErrZeroIssuance
	}

	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, nil, err
	}
	D, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, nil, err
	}
	if D.IsZero() {
		return nil, nil, ErrZeroInvariant
	}

	n := int64(N)
	bD := D.ToBig()
	Ann := big.NewInt(int64(amp) * n)
	xi := xp[idx].ToBig()

	// n**n * prod(x)
	nnP := safemath.BigPow(big.NewInt(n), n)
	for k := range xp {
		nnP = safemath.BigMul(nnP, xp[k].ToBig())
	}
	Dn1 := safemath.BigPow(bD, n+1)

	num := safemath.BigMul(xi, safemath.BigAdd(
		safemath.BigMul(nnP, safemath.BigSub(safemath.BigMul(Ann, bD), bD)),
		safemath.BigMulC(Dn1, n+1)))
	den := safemath.BigMul(issuance.ToBig(), safemath.BigAdd(
		safemath.BigMul(safemath.BigMul(Ann, xi), nnP),
		Dn1))

	// price of the normalized asset to its native precision
	scale := safemath.BigPow(big.NewInt(10), int64(target-reserves[idx].Decimals))
	den = safemath.BigMul(den, scale)

	return safemath.ReduceRatio(num, den, safemath.BalanceBits)
}

// CalculateSharePrice uses the default iteration bounds
func CalculateSharePrice(reserves []AssetReserve, amp uint64, issuance *uint256.Int, idx int) (*uint256.Int, *uint256.Int, error) {
	return DefaultCurve.CalculateSharePrice(reserves, amp, issuance, idx)
}
