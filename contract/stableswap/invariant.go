package stableswap

import (
	"github.com/bluele/gcache"
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
)

var convergence = uint256.NewInt(1)

// Curve solves the stableswap invariant with bounded Newton iterations.
// A Curve holds no mutable state besides an optional invariant cache and is safe for concurrent use.
type Curve struct {
	cfg   Config
	cache gcache.Cache
}

// NewCurve returns a solver using the iteration bounds of cfg
func NewCurve(cfg Config) (*Curve, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Curve{cfg: cfg}, nil
}

// DefaultCurve is the solver behind the package level functions
var DefaultCurve = &Curve{cfg: DefaultConfig()}

// Config returns the iteration bounds of the solver
func (c *Curve) Config() Config {
	return c.cfg
}

// SolveD computes the invariant of normalized reserves.
//
// D invariant calculation in non-overflowing integer operations
// iteratively
// A * sum(x_i) * n**n + D = A * D * n**n + D**(n+1) / (n**n * prod(x_i))
// Converging solution:
// D[j+1] = (Ann * S + D_P * n) * D[j] / ((Ann - 1) * D[j] + (n + 1) * D_P), Ann = A * n
//
// The result is the last estimate when the iteration bound is exhausted.
func (c *Curve) SolveD(xp []*uint256.Int, amp uint64) (*uint256.Int, error) {
	if len(xp) == 0 || len(xp) > MaxAssets {
		return nil, ErrInvalidAssetCount
	}
	if err := checkAmplification(amp); err != nil {
		return nil, err
	}
	if c.cache != nil {
		return c.cachedD(xp, amp)
	}
	return c.solveD(xp, amp)
}

func (c *Curve) solveD(xp []*uint256.Int, amp uint64) (*uint256.Int, error) {
	var o safemath.Calc
	N := uint64(len(xp))

	S := o.Sum(xp)
	if err := o.Err(); err != nil {
		return nil, err
	}
	if S.IsZero() {
		return safemath.Zero(), nil
	}
	for k := range xp {
		if xp[k].IsZero() {
			return nil, ErrZeroReserve
		}
	}

	D := safemath.Clone(S)
	Ann := safemath.New(amp * N)
	AnnS := o.Mul(Ann, S)
	AnnSub1 := o.SubC(Ann, 1)
	for k := 0; k < c.cfg.MaxDIterations; k++ {
		D_P := safemath.Clone(D)
		for j := range xp {
			D_P = o.MulDiv(D_P, D, o.MulC(xp[j], N))
		}
		Dprev := D
		D = o.MulDiv(
			o.Add(AnnS, o.MulC(D_P, N)),
			D,
			o.Add(o.Mul(AnnSub1, D), o.MulC(D_P, N+1)))
		if err := o.Err(); err != nil {
			return nil, err
		}

		// Equality with the precision of 1
		if safemath.HasConverged(Dprev, D, convergence) {
			break
		}
	}
	return D, nil
}

// SolveY computes the normalized reserve of asset idx that keeps the invariant at D
// when every other normalized reserve is fixed.
//
// Done by solving quadratic equation iteratively.
// x_1**2 + x_1 * (sum' - (A*n**n - 1) * D / (A * n**n)) = D ** (n + 1) / (n ** (2 * n) * prod' * A)
// x_1**2 + b*x_1 = c
// x_1 = (x_1**2 + c) / (2*x_1 + b)
func (c *Curve) SolveY(xp []*uint256.Int, idx int, D *uint256.Int, amp uint64) (*uint256.Int, error) {
	N := len(xp)
	if N < 2 || N > MaxAssets {
		return nil, ErrInvalidAssetCount
	}
	if idx < 0 || idx >= N {
		return nil, ErrInvalidIndex
	}
	if err := checkAmplification(amp); err != nil {
		return nil, err
	}

	var o safemath.Calc
	n := uint64(N)
	Ann := safemath.New(amp * n)
	cc := safemath.Clone(D)
	S := safemath.Zero()
	for k := 0; k < N; k++ {
		if k == idx {
			continue
		}
		S = o.Add(S, xp[k])
		cc = o.MulDiv(cc, D, o.MulC(xp[k], n))
	}
	cc = o.MulDiv(cc, D, o.MulC(Ann, n))
	b := o.Add(S, o.Div(D, Ann))
	if err := o.Err(); err != nil {
		return nil, err
	}

	y := safemath.Clone(D)
	for k := 0; k < c.cfg.MaxYIterations; k++ {
		yPrev := y
		y = o.Div(o.Add(o.Mul(y, y), cc), o.Sub(o.Add(o.MulC(y, 2), b), D))
		if err := o.Err(); err != nil {
			return nil, err
		}
		// Equality with the precision of 1
		if safemath.HasConverged(yPrev, y, convergence) {
			break
		}
	}
	return y, nil
}

// CalculateD returns the invariant of the pool in the pool's normalized precision
func (c *Curve) CalculateD(reserves []AssetReserve, amp uint64) (*uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, err
	}
	xp, _, err := normalizeReserves(reserves)
	if err != nil {
		return nil, err
	}
	D, err := c.SolveD(xp, amp)
	if err != nil {
		return nil, err
	}
	return safemath.ToBalance(D)
}

// CalculateY returns the reserve of asset idx, in its native precision rounded up,
// that keeps the invariant at D (given in the pool's normalized precision)
func (c *Curve) CalculateY(reserves []AssetReserve, idx int, D *uint256.Int, amp uint64) (*uint256.Int, error) {
	if err := checkReserves(reserves); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(reserves) {
		return nil, ErrInvalidIndex
	}
	xp, target, err := normalizeReserves(reserves)
	if err != nil {
		return nil, err
	}
	y, err := c.SolveY(xp, idx, D, amp)
	if err != nil {
		return nil, err
	}
	y, err = normalizeValue(y, target, reserves[idx].Decimals, safemath.RoundUp)
	if err != nil {
		return nil, err
	}
	return safemath.ToBalance(y)
}

// CalculateD returns the invariant of the pool using the default iteration bounds
func CalculateD(reserves []AssetReserve, amp uint64) (*uint256.Int, error) {
	return DefaultCurve.CalculateD(reserves, amp)
}

// CalculateY returns the reserve of asset idx that keeps the invariant at D using the default iteration bounds
func CalculateY(reserves []AssetReserve, idx int, D *uint256.Int, amp uint64) (*uint256.Int, error) {
	return DefaultCurve.CalculateY(reserves, idx, D, amp)
}
