package liquiditymining

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/pkg/errors"
)

// LoyaltyCurve shapes how a position's reward multiplier grows from
// InitialRewardPercentage toward one as periods pass. A smaller ScaleCoef converges faster.
type LoyaltyCurve struct {
	InitialRewardPercentage fixed.FixedU128 `toml:"initial_reward_percentage" yaml:"initial_reward_percentage"`
	ScaleCoef               uint32          `toml:"scale_coef" yaml:"scale_coef"`
}

// Validate checks the initial percentage is at most one
func (lc LoyaltyCurve) Validate() error {
	if fixed.One().Less(lc.InitialRewardPercentage) {
		return ErrInvalidLoyaltyCurve
	}
	return nil
}

func mathErr(err error) error {
	switch errors.Cause(err) {
	case nil:
		return nil
	case safemath.ErrDivisionByZero:
		return ErrDivisionByZero
	case safemath.ErrOverflow, safemath.ErrUnderflow:
		return ErrOverflow
	}
	return err
}

// CalculateLoyaltyMultiplier returns b + (1 - b) * t / (t + c), computed as (t + b*c) / (t + c),
// where t is periods, b the initial reward percentage and c the scale coefficient.
// The result starts at b for zero periods and grows toward one.
func CalculateLoyaltyMultiplier(periods uint64, curve LoyaltyCurve) (fixed.FixedU128, error) {
	if err := curve.Validate(); err != nil {
		return fixed.Zero(), err
	}
	if periods == 0 {
		return curve.InitialRewardPercentage, nil
	}

	t := fixed.FromUint64(periods)
	c := fixed.FromUint64(uint64(curve.ScaleCoef))

	bc, err := curve.InitialRewardPercentage.CheckedMul(c)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	num, err := t.CheckedAdd(bc)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	den, err := t.CheckedAdd(c)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	m, err := num.CheckedDiv(den)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	return m, nil
}

// CalculateAccumulatedRps returns rps + reward / totalShares
func CalculateAccumulatedRps(rps fixed.FixedU128, totalShares, reward *uint256.Int) (fixed.FixedU128, error) {
	if err := safemath.CheckBalance(totalShares, reward); err != nil {
		return fixed.Zero(), mathErr(err)
	}
	if totalShares.IsZero() {
		return fixed.Zero(), ErrDivisionByZero
	}
	delta, err := fixed.FromRational(reward, totalShares)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	next, err := rps.CheckedAdd(delta)
	if err != nil {
		return fixed.Zero(), mathErr(err)
	}
	return next, nil
}

// CalculateValuedShares weights raw shares by an external price reading: shares * price
func CalculateValuedShares(shares, price *uint256.Int) (*uint256.Int, error) {
	if err := safemath.CheckBalance(shares, price); err != nil {
		return nil, mathErr(err)
	}
	v, err := safemath.Mul(shares, price)
	if err != nil {
		return nil, mathErr(err)
	}
	v, err = safemath.ToBalance(v)
	if err != nil {
		return nil, mathErr(err)
	}
	return v, nil
}

// CalculateGlobalFarmShares converts valued shares into global farm units: floor(priceAdjustment * valuedShares)
func CalculateGlobalFarmShares(valuedShares *uint256.Int, priceAdjustment fixed.FixedU128) (*uint256.Int, error) {
	if err := safemath.CheckBalance(valuedShares); err != nil {
		return nil, mathErr(err)
	}
	v, err := priceAdjustment.CheckedMulInt(valuedShares)
	if err != nil {
		return nil, mathErr(err)
	}
	return v, nil
}

// CalculateReward returns floor((rpsNow - rpsStart) * shares), the reward earned by shares
// between two accumulator readings
func CalculateReward(rpsStart, rpsNow fixed.FixedU128, shares *uint256.Int) (*uint256.Int, error) {
	if err := safemath.CheckBalance(shares); err != nil {
		return nil, mathErr(err)
	}
	if rpsNow.Less(rpsStart) {
		return nil, ErrAccumulatorDecreased
	}
	delta := rpsNow.SaturatingSub(rpsStart)
	v, err := delta.CheckedMulInt(shares)
	if err != nil {
		return nil, mathErr(err)
	}
	return v, nil
}

// CalculateUserReward returns the reward a position may claim now and the part forfeited to the loyalty multiplier.
// The entitlement since the position's snapshot is dampened by the multiplier and whatever was
// claimed before is subtracted from the claimable part.
func CalculateUserReward(rpvsSnapshot fixed.FixedU128, valuedShares, claimed *uint256.Int, rpvsNow, multiplier fixed.FixedU128) (*uint256.Int, *uint256.Int, error) {
	if err := safemath.CheckBalance(claimed); err != nil {
		return nil, nil, mathErr(err)
	}
	if fixed.One().Less(multiplier) {
		return nil, nil, ErrInvalidLoyaltyCurve
	}
	maxRewards, err := CalculateReward(rpvsSnapshot, rpvsNow, valuedShares)
	if err != nil {
		return nil, nil, err
	}
	if maxRewards.IsZero() {
		return safemath.Zero(), safemath.Zero(), nil
	}

	claimableRewards, err := multiplier.CheckedMulInt(maxRewards)
	if err != nil {
		return nil, nil, mathErr(err)
	}
	unclaimableRewards := new(uint256.Int).Sub(maxRewards, claimableRewards)
	if claimableRewards.Lt(claimed) {
		return nil, nil, ErrClaimedExceedsRewards
	}
	userRewards := new(uint256.Int).Sub(claimableRewards, claimed)
	return userRewards, unclaimableRewards, nil
}

// CalculateGlobalFarmRewards returns the global farm budget for periods:
// min(yieldPerPeriod * priceAdjustment * totalSharesZ, maxRewardPerPeriod) * periods
func CalculateGlobalFarmRewards(totalSharesZ *uint256.Int, priceAdjustment fixed.FixedU128, yieldPerPeriod fixed.Perquintill, maxRewardPerPeriod *uint256.Int, periods uint64) (*uint256.Int, error) {
	if err := safemath.CheckBalance(totalSharesZ, maxRewardPerPeriod); err != nil {
		return nil, mathErr(err)
	}
	if err := yieldPerPeriod.Validate(); err != nil {
		return nil, err
	}
	adjusted, err := priceAdjustment.CheckedMulInt(totalSharesZ)
	if err != nil {
		return nil, mathErr(err)
	}
	rewardPerPeriod, err := yieldPerPeriod.MulFloor(adjusted)
	if err != nil {
		return nil, mathErr(err)
	}
	rewardPerPeriod = safemath.Min(rewardPerPeriod, maxRewardPerPeriod)

	v, err := safemath.Mul(rewardPerPeriod, uint256.NewInt(periods))
	if err != nil {
		return nil, mathErr(err)
	}
	if v, err = safemath.ToBalance(v); err != nil {
		return nil, mathErr(err)
	}
	return v, nil
}

// CalculateYieldFarmRewards returns the part of the global farm's accrual owed to a yield farm:
// the global reward-per-share growth since the yield farm's last reading applied to its stake
// in the global farm (multiplier * totalValuedShares)
func CalculateYieldFarmRewards(yieldFarmRpz, globalFarmRpz, multiplier fixed.FixedU128, totalValuedShares *uint256.Int) (*uint256.Int, error) {
	if err := safemath.CheckBalance(totalValuedShares); err != nil {
		return nil, mathErr(err)
	}
	stake, err := multiplier.CheckedMulInt(totalValuedShares)
	if err != nil {
		return nil, mathErr(err)
	}
	return CalculateReward(yieldFarmRpz, globalFarmRpz, stake)
}

// CalculateYieldFarmDeltaRpvs returns the growth of a yield farm's reward per valued share
// produced by CalculateYieldFarmRewards, along with the reward itself
func CalculateYieldFarmDeltaRpvs(yieldFarmRpz, globalFarmRpz, multiplier fixed.FixedU128, totalValuedShares *uint256.Int) (fixed.FixedU128, *uint256.Int, error) {
	reward, err := CalculateYieldFarmRewards(yieldFarmRpz, globalFarmRpz, multiplier, totalValuedShares)
	if err != nil {
		return fixed.Zero(), nil, err
	}
	if totalValuedShares.IsZero() {
		return fixed.Zero(), nil, ErrDivisionByZero
	}
	delta, err := fixed.FromRational(reward, totalValuedShares)
	if err != nil {
		return fixed.Zero(), nil, mathErr(err)
	}
	return delta, reward, nil
}
