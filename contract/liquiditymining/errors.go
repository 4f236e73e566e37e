package liquiditymining

import "github.com/pkg/errors"

// liquidity mining errors
var (
	ErrDivisionByZero        = errors.New("LiquidityMining: DIVISION_BY_ZERO")
	ErrOverflow              = errors.New("LiquidityMining: OVERFLOW")
	ErrAccumulatorDecreased  = errors.New("LiquidityMining: ACCUMULATOR_DECREASED")
	ErrInvalidLoyaltyCurve   = errors.New("LiquidityMining: INVALID_LOYALTY_CURVE")
	ErrClaimedExceedsRewards = errors.New("LiquidityMining: CLAIMED_EXCEEDS_REWARDS")
)
