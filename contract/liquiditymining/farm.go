package liquiditymining

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
)

// GlobalFarm is a snapshot of an incentive program's accounting.
// Its transitions return new snapshots; persisting them is the caller's job.
type GlobalFarm struct {
	UpdatedAt          uint64
	TotalSharesZ       *uint256.Int
	AccumulatedRpz     fixed.FixedU128
	PriceAdjustment    fixed.FixedU128
	YieldPerPeriod     fixed.Perquintill
	MaxRewardPerPeriod *uint256.Int
	PendingRewards     *uint256.Int
	PaidRewards        *uint256.Int
}

// YieldFarm is a snapshot of one pool's farm inside a global farm
type YieldFarm struct {
	UpdatedAt         uint64
	Multiplier        fixed.FixedU128
	TotalShares       *uint256.Int
	TotalValuedShares *uint256.Int
	AccumulatedRpz    fixed.FixedU128
	AccumulatedRpvs   fixed.FixedU128
}

// Deposit is a snapshot of one position in a yield farm
type Deposit struct {
	Shares            *uint256.Int
	ValuedShares      *uint256.Int
	AccumulatedRpvs   fixed.FixedU128
	ClaimedRewards    *uint256.Int
	EnteredAt         uint64
	LastClaimedPeriod uint64
}

func (g GlobalFarm) clone() GlobalFarm {
	g.TotalSharesZ = safemath.Clone(g.TotalSharesZ)
	g.MaxRewardPerPeriod = safemath.Clone(g.MaxRewardPerPeriod)
	g.PendingRewards = safemath.Clone(g.PendingRewards)
	g.PaidRewards = safemath.Clone(g.PaidRewards)
	return g
}

// UpdateGlobalFarm accrues the rewards of the periods elapsed since g.UpdatedAt, capped by
// leftToDistribute, into the reward-per-share accumulator. It returns the new snapshot and the reward accrued.
func UpdateGlobalFarm(g GlobalFarm, now uint64, leftToDistribute *uint256.Int) (GlobalFarm, *uint256.Int, error) {
	next := g.clone()
	if now <= g.UpdatedAt {
		return next, safemath.Zero(), nil
	}
	next.UpdatedAt = now
	if g.TotalSharesZ.IsZero() {
		return next, safemath.Zero(), nil
	}

	reward, err := CalculateGlobalFarmRewards(g.TotalSharesZ, g.PriceAdjustment, g.YieldPerPeriod, g.MaxRewardPerPeriod, now-g.UpdatedAt)
	if err != nil {
		return g, nil, err
	}
	reward = safemath.Clone(safemath.Min(reward, leftToDistribute))
	if reward.IsZero() {
		return next, reward, nil
	}

	if next.AccumulatedRpz, err = CalculateAccumulatedRps(g.AccumulatedRpz, g.TotalSharesZ, reward); err != nil {
		return g, nil, err
	}
	if next.PendingRewards, err = safemath.Add(g.PendingRewards, reward); err != nil {
		return g, nil, mathErr(err)
	}
	return next, reward, nil
}

// UpdateYieldFarm moves the global farm's accrual owed to y into y's reward-per-valued-share accumulator.
// The reward leaves the global farm's pending rewards and is counted as paid.
func UpdateYieldFarm(g GlobalFarm, y YieldFarm, now uint64) (GlobalFarm, YieldFarm, error) {
	nextG := g.clone()
	nextY := y
	nextY.TotalShares = safemath.Clone(y.TotalShares)
	nextY.TotalValuedShares = safemath.Clone(y.TotalValuedShares)
	if now <= y.UpdatedAt {
		return nextG, nextY, nil
	}
	nextY.UpdatedAt = now
	if y.TotalValuedShares.IsZero() {
		nextY.AccumulatedRpz = g.AccumulatedRpz
		return nextG, nextY, nil
	}

	delta, reward, err := CalculateYieldFarmDeltaRpvs(y.AccumulatedRpz, g.AccumulatedRpz, y.Multiplier, y.TotalValuedShares)
	if err != nil {
		return g, y, err
	}
	if nextY.AccumulatedRpvs, err = y.AccumulatedRpvs.CheckedAdd(delta); err != nil {
		return g, y, mathErr(err)
	}
	nextY.AccumulatedRpz = g.AccumulatedRpz

	if nextG.PendingRewards, err = safemath.Sub(g.PendingRewards, reward); err != nil {
		return g, y, mathErr(err)
	}
	if nextG.PaidRewards, err = safemath.Add(g.PaidRewards, reward); err != nil {
		return g, y, mathErr(err)
	}
	return nextG, nextY, nil
}

// ClaimRewards returns the reward a deposit may claim at period now under the loyalty curve,
// the part forfeited, and the deposit snapshot after the claim.
// A nil curve means no loyalty dampening.
func ClaimRewards(d Deposit, y YieldFarm, now uint64, curve *LoyaltyCurve) (*uint256.Int, *uint256.Int, Deposit, error) {
	multiplier := fixed.One()
	if curve != nil {
		var periods uint64
		if now > d.EnteredAt {
			periods = now - d.EnteredAt
		}
		m, err := CalculateLoyaltyMultiplier(periods, *curve)
		if err != nil {
			return nil, nil, d, err
		}
		multiplier = m
	}

	claimable, unclaimable, err := CalculateUserReward(d.AccumulatedRpvs, d.ValuedShares, d.ClaimedRewards, y.AccumulatedRpvs, multiplier)
	if err != nil {
		return nil, nil, d, err
	}
	next := d
	next.ClaimedRewards, err = safemath.Add(d.ClaimedRewards, claimable)
	if err != nil {
		return nil, nil, d, mathErr(err)
	}
	next.LastClaimedPeriod = now
	return claimable, unclaimable, next, nil
}
