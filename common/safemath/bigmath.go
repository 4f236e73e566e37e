package safemath

import (
	"math/big"

	"github.com/holiman/uint256"
)

// big.Int helpers for intermediates wider than 256 bits

func BigAdd(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}
func BigSub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}
func BigMul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}
func BigMulC(a *big.Int, b int64) *big.Int {
	return new(big.Int).Mul(a, big.NewInt(b))
}
func BigPow(a *big.Int, b int64) *big.Int {
	return new(big.Int).Exp(a, big.NewInt(b), nil)
}

// ReduceRatio shrinks num/den until both fit into bits, keeping their ratio.
// The common factor is divided out first and any remaining excess is shifted away from both sides.
func ReduceRatio(num, den *big.Int, bits int) (*uint256.Int, *uint256.Int, error) {
	if den.Sign() == 0 {
		return nil, nil, ErrDivisionByZero
	}
	if num.Sign() < 0 || den.Sign() < 0 {
		return nil, nil, ErrUnderflow
	}
	n, d := new(big.Int).Set(num), new(big.Int).Set(den)
	if n.Sign() != 0 {
		g := new(big.Int).GCD(nil, nil, n, d)
		n.Quo(n, g)
		d.Quo(d, g)
	} else {
		d.SetInt64(1)
	}

	excess := n.BitLen()
	if d.BitLen() > excess {
		excess = d.BitLen()
	}
	excess -= bits
	if excess > 0 {
		n.Rsh(n, uint(excess))
		d.Rsh(d, uint(excess))
		if d.Sign() == 0 {
			return nil, nil, ErrOverflow
		}
	}

	rn, err := FromBig(n)
	if err != nil {
		return nil, nil, err
	}
	rd, err := FromBig(d)
	if err != nil {
		return nil, nil, err
	}
	return rn, rd, nil
}
